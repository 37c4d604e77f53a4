package raster

import(
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// SaveOptions control how a Raster is written out. The zero value writes
// uncompressed at the encoder's default resolution.
type SaveOptions struct {
	Compression string  // "deflate" or "none"; TIFF only
	DPI         float64 // Written into the TIFF resolution tags, if > 0
}

func DefaultSaveOptions() SaveOptions {
	return SaveOptions{Compression: "deflate", DPI: 300}
}

// Validate checks the options name things we can write.
func (o SaveOptions)Validate() error {
	_, err := o.tiffOptions()
	return err
}

func (o SaveOptions)tiffOptions() (*tiff.Options, error) {
	switch strings.ToLower(o.Compression) {
	case "", "none":
		return &tiff.Options{Compression: tiff.Uncompressed}, nil
	case "deflate":
		return &tiff.Options{Compression: tiff.Deflate, Predictor: true}, nil
	}
	return nil, fmt.Errorf("no TIFF compression named '%s'", o.Compression)
}

// Save writes the raster to `filename`, picking the format from the
// extension, at the raster's own bit depth. The file is written to a
// temp file first and renamed into place, so a failed save never leaves
// a truncated output behind.
func Save(r *Raster, filename string, opts SaveOptions) error {
	if err := checkBitDepth(r.BitDepth); err != nil {
		return &EncodeError{filename, err}
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		topts, err := opts.tiffOptions()
		if err != nil {
			return &EncodeError{filename, err}
		}
		if err := tiff.Encode(&buf, r.ToImage(), topts); err != nil {
			return &EncodeError{filename, fmt.Errorf("tiff encoding: %v", err)}
		}
		if opts.DPI > 0 {
			if err := setTIFFResolution(buf.Bytes(), opts.DPI); err != nil {
				return &EncodeError{filename, err}
			}
		}

	case ".png":
		if err := png.Encode(&buf, r.ToImage()); err != nil {
			return &EncodeError{filename, fmt.Errorf("png encoding: %v", err)}
		}

	default:
		return &EncodeError{filename, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))}
	}

	return writeFileAtomic(filename, buf.Bytes())
}

func writeFileAtomic(filename string, contents []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return &EncodeError{filename, fmt.Errorf("open+w: %v", err)}
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		return &EncodeError{filename, fmt.Errorf("write: %v", err)}
	}
	if err := tmp.Close(); err != nil {
		return &EncodeError{filename, fmt.Errorf("close: %v", err)}
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return &EncodeError{filename, fmt.Errorf("rename: %v", err)}
	}
	return nil
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}
