package raster

import(
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// IsImageFile reports whether we know how to load the file, going by its extension.
func IsImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff", ".png":
		return true
	}
	return false
}

// ListImages expands the args into a list of image files, recursing into
// any directories. Files we don't know how to load are skipped if they
// were found inside a directory, but are an error if named directly.
func ListImages(args ...string) ([]string, error) {
	files := []string{}

	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return nil, fmt.Errorf("list %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				path := filepath.Join(arg, content.Name())
				if !content.IsDir() && !IsImageFile(path) {
					continue
				}
				more, err := ListImages(path)
				if err != nil {
					return nil, fmt.Errorf("list %s: %v", arg, err)
				}
				files = append(files, more...)
			}

		case !IsImageFile(arg):
			return nil, fmt.Errorf("list %s: not a .tif or .png file", arg)

		default:
			files = append(files, arg)
		}
	}

	return files, nil
}

// Load reads an image file into a Raster. For TIFFs, the bit depth and
// sample layout come from the file's own tags.
func Load(filename string) (*Raster, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		return loadTIFF(filename)
	case ".png":
		return loadPNG(filename)
	}
	return nil, &DecodeError{filename, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))}
}

func loadTIFF(filename string) (*Raster, error) {
	// First, read the tags
	meta, err := ReadTIFFMeta(filename)
	if err != nil {
		return nil, &DecodeError{filename, err}
	}

	// Re-open the file, now for the image data
	var img image.Image
	if reader, err := os.Open(filename); err != nil {
		return nil, &DecodeError{filename, fmt.Errorf("open+r img: %v", err)}
	} else {
		defer reader.Close()
		if img, err = tiff.Decode(reader); err != nil {
			return nil, &DecodeError{filename, fmt.Errorf("tiff loading: %v", err)}
		}
	}

	// An opaque alpha (which is what we write for RGB) comes back as RGB
	r, err := fromImage(img, meta.BitsPerSample, channelsFor(img))
	if err != nil {
		return nil, &DecodeError{filename, err}
	}
	r.Meta = meta
	return r, nil
}

func loadPNG(filename string) (*Raster, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, &DecodeError{filename, fmt.Errorf("open+r img: %v", err)}
	}
	defer reader.Close()

	img, err := png.Decode(reader)
	if err != nil {
		return nil, &DecodeError{filename, fmt.Errorf("png loading: %v", err)}
	}

	bits := 8
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		bits = 16
	}

	r, err := FromImage(img, bits)
	if err != nil {
		return nil, &DecodeError{filename, err}
	}
	r.Meta = Meta{Filename: filename, Format: "png", BitsPerSample: bits, SamplesPerPixel: r.Channels}
	return r, nil
}
