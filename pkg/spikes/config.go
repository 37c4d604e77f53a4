package spikes

import(
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/emath"
	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

type Config struct {
	// The seven core parameters. A config file must set all of them.
	MinThreshold             int      `yaml:"min_threshold"`              // luminance [0,255] at or above which a pixel is "bright"
	MaxThreshold             int      `yaml:"max_threshold"`              // value bright pixels are set to; 0 detects nothing
	SpikeLengthMultiplier    float64  `yaml:"spike_length_multiplier"`    // half-length = sqrt(area) * this
	SpikeThicknessMultiplier float64  `yaml:"spike_thickness_multiplier"` // stroke width = sqrt(area) * this
	BlurKernelSize           int      `yaml:"blur_kernel_size"`
	BlurMultiplier           float64  `yaml:"blur_multiplier"`
	RotationAngle            float64  `yaml:"rotation_angle"`             // degrees, positive is clockwise on screen

	Verbosity                int      `yaml:"verbosity"`
	Style                    string   `yaml:"style"`       // "gradient", "stepped" or "solid"
	Detector                 string   `yaml:"detector"`    // "builtin", or "gocv" in builds with that tag
	Compression              string   `yaml:"compression"` // TIFF output; "deflate" or "none"
	DPI                      float64  `yaml:"dpi"`
	DebugDir                 string   `yaml:"debug_dir"`   // where Verbosity>0 writes its debug images
}

func NewConfig() Config {
	return Config{
		MinThreshold:             200,
		MaxThreshold:             255,
		SpikeLengthMultiplier:    1.0,
		SpikeThicknessMultiplier: 0.2,
		BlurKernelSize:           5,
		BlurMultiplier:           1.0,
		RotationAngle:            0,

		Style:                    "gradient",
		Detector:                 "builtin",
		Compression:              "deflate",
		DPI:                      300,
		DebugDir:                 ".",
	}
}

// fileConfig is what we accept from a yaml file. The core fields are
// pointers so we can tell "absent" apart from "zero".
type fileConfig struct {
	MinThreshold             *int     `yaml:"min_threshold"`
	MaxThreshold             *int     `yaml:"max_threshold"`
	SpikeLengthMultiplier    *float64 `yaml:"spike_length_multiplier"`
	SpikeThicknessMultiplier *float64 `yaml:"spike_thickness_multiplier"`
	BlurKernelSize           *int     `yaml:"blur_kernel_size"`
	BlurMultiplier           *float64 `yaml:"blur_multiplier"`
	RotationAngle            *float64 `yaml:"rotation_angle"`

	Verbosity                *int     `yaml:"verbosity"`
	Style                    *string  `yaml:"style"`
	Detector                 *string  `yaml:"detector"`
	Compression              *string  `yaml:"compression"`
	DPI                      *float64 `yaml:"dpi"`
	DebugDir                 *string  `yaml:"debug_dir"`
}

func newConfigFromYaml(b []byte) (Config, error) {
	fc := fileConfig{}
	if err := yaml.UnmarshalStrict(b, &fc); err != nil {
		return Config{}, &ConfigError{"yaml", err.Error()}
	}

	missing := func(field string) error { return &ConfigError{field, "is missing"} }

	c := NewConfig()
	if fc.MinThreshold == nil             { return c, missing("min_threshold") }
	if fc.MaxThreshold == nil             { return c, missing("max_threshold") }
	if fc.SpikeLengthMultiplier == nil    { return c, missing("spike_length_multiplier") }
	if fc.SpikeThicknessMultiplier == nil { return c, missing("spike_thickness_multiplier") }
	if fc.BlurKernelSize == nil           { return c, missing("blur_kernel_size") }
	if fc.BlurMultiplier == nil           { return c, missing("blur_multiplier") }
	if fc.RotationAngle == nil            { return c, missing("rotation_angle") }

	c.MinThreshold = *fc.MinThreshold
	c.MaxThreshold = *fc.MaxThreshold
	c.SpikeLengthMultiplier = *fc.SpikeLengthMultiplier
	c.SpikeThicknessMultiplier = *fc.SpikeThicknessMultiplier
	c.BlurKernelSize = *fc.BlurKernelSize
	c.BlurMultiplier = *fc.BlurMultiplier
	c.RotationAngle = *fc.RotationAngle

	if fc.Verbosity != nil   { c.Verbosity = *fc.Verbosity }
	if fc.Style != nil       { c.Style = *fc.Style }
	if fc.Detector != nil    { c.Detector = *fc.Detector }
	if fc.Compression != nil { c.Compression = *fc.Compression }
	if fc.DPI != nil         { c.DPI = *fc.DPI }
	if fc.DebugDir != nil    { c.DebugDir = *fc.DebugDir }

	return c, c.Validate()
}

// LoadConfig reads and validates a yaml config file.
func LoadConfig(filename string) (Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("open+r config '%s': %v", filename, err)
	}
	return newConfigFromYaml(b)
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Validate rejects values the pipeline can't run with. It doesn't
// enforce the UI ranges; see Clamp for that.
func (c Config)Validate() error {
	switch {
	case c.MinThreshold < 0 || c.MinThreshold > 255:
		return &ConfigError{"min_threshold", fmt.Sprintf("%d is outside [0,255]", c.MinThreshold)}
	case c.MaxThreshold < 0 || c.MaxThreshold > 255:
		return &ConfigError{"max_threshold", fmt.Sprintf("%d is outside [0,255]", c.MaxThreshold)}
	case c.SpikeLengthMultiplier < 0:
		return &ConfigError{"spike_length_multiplier", "must not be negative"}
	case c.SpikeThicknessMultiplier < 0:
		return &ConfigError{"spike_thickness_multiplier", "must not be negative"}
	case c.BlurKernelSize <= 0:
		return &ConfigError{"blur_kernel_size", fmt.Sprintf("%d must be > 0", c.BlurKernelSize)}
	case c.BlurMultiplier <= 0:
		return &ConfigError{"blur_multiplier", fmt.Sprintf("%g must be > 0", c.BlurMultiplier)}
	case c.GetArmDrawer() == nil:
		return &ConfigError{"style", fmt.Sprintf("no spike style named '%s'", c.Style)}
	case c.GetDetector() == nil:
		return &ConfigError{"detector", fmt.Sprintf("no detector named '%s' (have %v)", c.Detector, DetectorNames())}
	}

	if err := c.SaveOptions().Validate(); err != nil {
		return &ConfigError{"compression", err.Error()}
	}
	return nil
}

// The ranges the sliders in the original UI allowed.
var recognizedRanges = []struct{
	field    string
	min, max float64
	get      func(*Config) *float64
}{
	{"spike_length_multiplier",    0,   2,  func(c *Config) *float64 { return &c.SpikeLengthMultiplier }},
	{"spike_thickness_multiplier", 0,   1,  func(c *Config) *float64 { return &c.SpikeThicknessMultiplier }},
	{"blur_multiplier",            0.1, 2,  func(c *Config) *float64 { return &c.BlurMultiplier }},
	{"rotation_angle",             0,   89, func(c *Config) *float64 { return &c.RotationAngle }},
}

// Clamp pulls every parameter into its recognized range, returning a
// note for each one it had to change.
func (c Config)Clamp() (Config, []string) {
	warnings := []string{}

	clampInt := func(field string, v *int, min, max int) {
		if *v < min || *v > max {
			was := *v
			*v = int(emath.ClampF64(float64(*v), float64(min), float64(max)))
			warnings = append(warnings, fmt.Sprintf("%s %d clamped to %d", field, was, *v))
		}
	}
	clampInt("min_threshold", &c.MinThreshold, 0, 255)
	clampInt("max_threshold", &c.MaxThreshold, 0, 255)
	clampInt("blur_kernel_size", &c.BlurKernelSize, 1, 50)

	for _, r := range recognizedRanges {
		v := r.get(&c)
		if *v < r.min || *v > r.max {
			was := *v
			*v = emath.ClampF64(*v, r.min, r.max)
			warnings = append(warnings, fmt.Sprintf("%s %g clamped to %g", r.field, was, *v))
		}
	}

	sort.Strings(warnings)
	return c, warnings
}

// BlurKernel is the effective (odd, >=1) size of the gaussian kernel.
func (c Config)BlurKernel() int {
	return emath.OddKernelSize(float64(c.BlurKernelSize), c.BlurMultiplier)
}

func (c Config)SaveOptions() raster.SaveOptions {
	return raster.SaveOptions{Compression: c.Compression, DPI: c.DPI}
}

func (c Config)GetArmDrawer() ArmDrawer {
	switch c.Style {
	case "gradient", "": return DrawGradientArm
	case "stepped":      return DrawSteppedArm
	case "solid":        return DrawSolidArm
	default:
		return nil
	}
}

func (c Config)GetDetector() Detector {
	name := c.Detector
	if name == "" { name = "builtin" }
	return detectors[name]
}
