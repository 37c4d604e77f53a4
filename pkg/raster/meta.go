package raster

import(
	"fmt"
	"io"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// TIFF tag IDs we care about
const(
	tagBitsPerSample   = 0x0102
	tagSamplesPerPixel = 0x0115
	tagXResolution     = 0x011A
	tagYResolution     = 0x011B
)

// Meta is what we know about the file a Raster was loaded from. For
// TIFFs it is read straight from the IFD tags, independently of what
// the image decoder made of the pixels.
type Meta struct {
	Filename        string
	Format          string   // "tiff" or "png"
	BitsPerSample   int
	SamplesPerPixel int
	XDPI, YDPI      float64
	CameraModel     string   // From EXIF, if there is any
}

func (m Meta)String() string {
	str := fmt.Sprintf("%s[%s, %dx%dbit", m.Filename, m.Format, m.SamplesPerPixel, m.BitsPerSample)
	if m.XDPI > 0 { str += fmt.Sprintf(", %.0fx%.0fdpi", m.XDPI, m.YDPI) }
	if m.CameraModel != "" { str += ", " + m.CameraModel }
	return str + "]"
}

// ReadTIFFMeta walks the first IFD of a TIFF file, and pulls out the
// sample layout and resolution. EXIF is optional; plenty of TIFFs
// exported by stacking tools don't have any.
func ReadTIFFMeta(filename string) (Meta, error) {
	m := Meta{Filename: filename, Format: "tiff"}

	reader, err := os.Open(filename)
	if err != nil {
		return m, fmt.Errorf("open+r meta '%s': %v", filename, err)
	}
	defer reader.Close()

	t, err := tiff.Decode(reader)
	if err != nil {
		return m, fmt.Errorf("tiff tags '%s': %v", filename, err)
	} else if len(t.Dirs) == 0 {
		return m, fmt.Errorf("tiff tags '%s': no IFDs", filename)
	}

	m.SamplesPerPixel = 1 // the TIFF default, if the tag is absent
	m.BitsPerSample = 1

	for _, tag := range t.Dirs[0].Tags {
		switch tag.Id {
		case tagBitsPerSample:
			if v, err := tag.Int(0); err == nil { m.BitsPerSample = v }
		case tagSamplesPerPixel:
			if v, err := tag.Int(0); err == nil { m.SamplesPerPixel = v }
		case tagXResolution:
			if num, denom, err := tag.Rat2(0); err == nil && denom != 0 { m.XDPI = float64(num) / float64(denom) }
		case tagYResolution:
			if num, denom, err := tag.Rat2(0); err == nil && denom != 0 { m.YDPI = float64(num) / float64(denom) }
		}
	}

	if _, err := reader.Seek(0, io.SeekStart); err == nil {
		if ex, err := exif.Decode(reader); err == nil {
			if tag, err := ex.Get(exif.Model); err == nil {
				if model, err := tag.StringVal(); err == nil {
					m.CameraModel = model
				}
			}
		}
	}

	return m, nil
}
