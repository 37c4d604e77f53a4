package spikes

import(
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

// OutputFilename is where a batch run puts the result for `in`.
func OutputFilename(in, outDir string) string {
	ext := filepath.Ext(in)
	stem := strings.TrimSuffix(filepath.Base(in), ext)
	return filepath.Join(outDir, stem + "-spikes" + ext)
}

// ProcessAll runs every image file named by args (recursing into
// dirs), one after the other, writing results into outDir. A file that
// fails doesn't stop the others; all the errors are returned together.
func (p *Pipeline)ProcessAll(ctx context.Context, outDir string, args ...string) ([]*Result, error) {
	files, err := raster.ListImages(args...)
	if err != nil {
		return nil, err
	} else if len(files) == 0 {
		return nil, fmt.Errorf("no image files found in %v", args)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("mkdir '%s': %v", outDir, err)
	}

	results := []*Result{}
	errs := []error{}
	for i, in := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		out := OutputFilename(in, outDir)
		p.Log.Info("batch", "file", fmt.Sprintf("%d/%d", i+1, len(files)), "in", in, "out", out)

		res, err := p.ProcessFile(ctx, in, out)
		if err != nil {
			p.Log.Error("batch", "in", in, "err", err)
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}
