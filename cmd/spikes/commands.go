package main

import(
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/logging"
	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/spikes"
)

// globals holds the flags every command has.
type globals struct {
	configFile string
	verbosity  int
	logLevel   string
	logFormat  string

	flagCfg    spikes.Config // bound to the per-command flags
}

func newRootCmd() *cobra.Command {
	g := &globals{flagCfg: spikes.NewConfig()}

	rootCmd := &cobra.Command{
		Use:   "spikes",
		Short: "Add synthetic diffraction spikes to astrophotos",
		Long: `spikes finds the stars in an image, and draws four-pointed diffraction
spikes over each one, sized to the star. 8bit and 16bit TIFFs and PNGs
are supported; output keeps the bit depth of the input.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "yaml config file (every core parameter must be set)")
	pf.CountVarP(&g.verbosity, "verbose", "v", "how verbose to get; -v also writes debug images")
	pf.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (default from -v)")
	pf.StringVar(&g.logFormat, "log-format", "text", "text or json")

	rootCmd.AddCommand(newProcessCmd(g))
	rootCmd.AddCommand(newDetectCmd(g))
	rootCmd.AddCommand(newPreviewCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))

	return rootCmd
}

// configFlags are the flags that map onto Config fields, with how to copy
// each one across when it was set on the command line.
var configFlags = []struct{
	name string
	copy func(dst *spikes.Config, src spikes.Config)
}{
	{"min",        func(d *spikes.Config, s spikes.Config) { d.MinThreshold = s.MinThreshold }},
	{"max",        func(d *spikes.Config, s spikes.Config) { d.MaxThreshold = s.MaxThreshold }},
	{"length",     func(d *spikes.Config, s spikes.Config) { d.SpikeLengthMultiplier = s.SpikeLengthMultiplier }},
	{"thickness",  func(d *spikes.Config, s spikes.Config) { d.SpikeThicknessMultiplier = s.SpikeThicknessMultiplier }},
	{"blur",       func(d *spikes.Config, s spikes.Config) { d.BlurKernelSize = s.BlurKernelSize }},
	{"blur-mult",  func(d *spikes.Config, s spikes.Config) { d.BlurMultiplier = s.BlurMultiplier }},
	{"rotation",   func(d *spikes.Config, s spikes.Config) { d.RotationAngle = s.RotationAngle }},
	{"style",      func(d *spikes.Config, s spikes.Config) { d.Style = s.Style }},
	{"detector",   func(d *spikes.Config, s spikes.Config) { d.Detector = s.Detector }},
	{"compress",   func(d *spikes.Config, s spikes.Config) { d.Compression = s.Compression }},
	{"debug-dir",  func(d *spikes.Config, s spikes.Config) { d.DebugDir = s.DebugDir }},
}

func addConfigFlags(cmd *cobra.Command, c *spikes.Config) {
	f := cmd.Flags()
	f.IntVar(&c.MinThreshold, "min", c.MinThreshold, "luminance (0-255) at or above which a pixel counts as a star")
	f.IntVar(&c.MaxThreshold, "max", c.MaxThreshold, "fill value for star pixels (0-255); 0 finds nothing")
	f.Float64Var(&c.SpikeLengthMultiplier, "length", c.SpikeLengthMultiplier, "spike length, as a multiple of star diameter (0-2)")
	f.Float64Var(&c.SpikeThicknessMultiplier, "thickness", c.SpikeThicknessMultiplier, "spike thickness, as a multiple of star diameter (0-1)")
	f.IntVar(&c.BlurKernelSize, "blur", c.BlurKernelSize, "gaussian blur kernel size (1-50)")
	f.Float64Var(&c.BlurMultiplier, "blur-mult", c.BlurMultiplier, "blur kernel multiplier (0.1-2)")
	f.Float64Var(&c.RotationAngle, "rotation", c.RotationAngle, "spike rotation in degrees (0-89)")
	f.StringVar(&c.Style, "style", c.Style, "spike style: gradient, stepped or solid")
	f.StringVar(&c.Detector, "detector", c.Detector, fmt.Sprintf("star detector: %v", spikes.DetectorNames()))
	f.StringVar(&c.Compression, "compress", c.Compression, "TIFF compression: deflate or none")
	f.StringVar(&c.DebugDir, "debug-dir", c.DebugDir, "where -v writes debug images")
}

// config builds the effective config: defaults, then the config file,
// then any flags that were set. Values outside the UI ranges are pulled
// back in, with a warning.
func (g *globals)config(cmd *cobra.Command, log *slog.Logger) (spikes.Config, error) {
	cfg := spikes.NewConfig()
	if g.configFile != "" {
		var err error
		if cfg, err = spikes.LoadConfig(g.configFile); err != nil {
			return cfg, err
		}
	}

	for _, cf := range configFlags {
		if f := cmd.Flags().Lookup(cf.name); f != nil && f.Changed {
			cf.copy(&cfg, g.flagCfg)
		}
	}
	if g.verbosity > cfg.Verbosity {
		cfg.Verbosity = g.verbosity
	}

	cfg, warnings := cfg.Clamp()
	for _, w := range warnings {
		log.Warn("config", "clamped", w)
	}

	if cfg.Verbosity > 0 {
		log.Debug("final configuration", "yaml", cfg.AsYaml())
	}
	return cfg, cfg.Validate()
}

func (g *globals)logger(cmd *cobra.Command) *slog.Logger {
	level := g.logLevel
	if level == "" {
		level = logging.LevelForVerbosity(g.verbosity)
	}
	return logging.New(level, g.logFormat, cmd.ErrOrStderr())
}

func newProcessCmd(g *globals) *cobra.Command {
	var(
		output  string
		outDir  string
		withHDR bool
	)

	cmd := &cobra.Command{
		Use:   "process <input>... ",
		Short: "Add spikes to images",
		Long: `Add spikes to one image (written to --output), or to many images and
directories of images (written into --out-dir, as NAME-spikes.EXT).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd)
			cfg, err := g.config(cmd, log)
			if err != nil {
				return err
			}

			p := spikes.NewPipeline(cfg, log)
			p.WriteHDR = withHDR

			if output != "" {
				if len(args) != 1 {
					return fmt.Errorf("--output needs exactly one input, got %d", len(args))
				}
				res, err := p.ProcessFile(cmd.Context(), args[0], output)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sources -> %s\n", args[0], len(res.Sources), output)
				return nil
			}

			results, err := p.ProcessAll(cmd.Context(), outDir, args...)
			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sources -> %s\n", res.Input, len(res.Sources), res.Output)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, for a single input")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "output directory, for batches")
	cmd.Flags().BoolVar(&withHDR, "hdr", false, "also write the unclipped blend as a Radiance .hdr")
	addConfigFlags(cmd, &g.flagCfg)
	return cmd
}

func newDetectCmd(g *globals) *cobra.Command {
	var overlay string

	cmd := &cobra.Command{
		Use:   "detect <input>",
		Short: "List the sources spikes would be drawn for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd)
			cfg, err := g.config(cmd, log)
			if err != nil {
				return err
			}

			r, err := raster.Load(args[0])
			if err != nil {
				return err
			}

			sources := cfg.GetDetector()(r, uint8(cfg.MinThreshold), uint8(cfg.MaxThreshold))
			geoms := spikes.NewGeometries(sources, cfg)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "#\tx\ty\tarea\tlength\tthickness\n")
			for i, src := range sources {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%.0f\t%d\t%d\n", i, src.Centroid.X, src.Centroid.Y, src.Area, geoms[i].Length, geoms[i].Thickness)
			}
			tw.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", spikes.Summarize(sources, geoms))

			if overlay != "" {
				if err := spikes.WriteOverlay(r, sources, geoms, overlay); err != nil {
					return err
				}
				log.Info("wrote overlay", "file", overlay)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&overlay, "overlay", "", "write an annotated PNG of the sources here")
	addConfigFlags(cmd, &g.flagCfg)
	return cmd
}

func newPreviewCmd(g *globals) *cobra.Command {
	var(
		output string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "preview <input>",
		Short: "Write a small PNG of the image with spikes added",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd)
			cfg, err := g.config(cmd, log)
			if err != nil {
				return err
			}

			r, err := raster.Load(args[0])
			if err != nil {
				return err
			}
			res, err := spikes.NewPipeline(cfg, log).Process(cmd.Context(), r)
			if err != nil {
				return err
			}

			if output == "" {
				output = spikes.OutputFilename(args[0], filepath.Dir(args[0]))
				output = strings.TrimSuffix(output, filepath.Ext(output)) + "-preview.png"
			}
			if err := raster.WritePNG(raster.Preview(res.Raster, width), output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "preview file (default NAME-spikes-preview.png)")
	cmd.Flags().IntVar(&width, "width", 600, "preview width in pixels")
	addConfigFlags(cmd, &g.flagCfg)
	return cmd
}

func newWatchCmd(g *globals) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch <input> -o <output>",
		Short: "Re-run whenever the input file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd)
			cfg, err := g.config(cmd, log)
			if err != nil {
				return err
			}

			in := args[0]
			if output == "" {
				output = spikes.OutputFilename(in, filepath.Dir(in))
			}
			if filepath.Clean(output) == filepath.Clean(in) {
				return fmt.Errorf("output would overwrite the input '%s'", in)
			}

			log.Info("watching", "in", in, "out", output)
			return spikes.NewPipeline(cfg, log).Watch(cmd.Context(), in, output, func(res *spikes.Result, err error) {
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sources -> %s\n", in, len(res.Sources), output)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default NAME-spikes.EXT, next to the input)")
	addConfigFlags(cmd, &g.flagCfg)
	return cmd
}

func newConfigCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config(cmd, g.logger(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.AsYaml())
			return nil
		},
	}
}
