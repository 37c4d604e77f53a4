package spikes

import(
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// How long the input has to be quiet before we re-run; editors and
// exporters tend to write a file in several goes.
const watchSettle = 250 * time.Millisecond

// Watch runs the pipeline on `in` once, and then again every time the
// file changes, until ctx is done. Runs never overlap; changes that
// arrive during a run are coalesced into one more run after it. The
// callback, if not nil, sees every result and error.
func (p *Pipeline)Watch(ctx context.Context, in, out string, onResult func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %v", err)
	}
	defer watcher.Close()

	// Watch the dir rather than the file, so we survive the file being
	// replaced by a rename.
	if err := watcher.Add(filepath.Dir(in)); err != nil {
		return fmt.Errorf("watch '%s': %v", filepath.Dir(in), err)
	}

	run := func() {
		res, err := p.ProcessFile(ctx, in, out)
		if err != nil {
			p.Log.Warn("watch run failed", "in", in, "err", err)
		}
		if onResult != nil {
			onResult(res, err)
		}
	}
	run()

	target := filepath.Clean(in)
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok { return nil }
			if filepath.Clean(ev.Name) != target { continue }
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) { continue }
			p.Log.Debug("watch event", "op", ev.Op.String(), "file", ev.Name)
			settle = time.After(watchSettle)

		case err, ok := <-watcher.Errors:
			if !ok { return nil }
			p.Log.Warn("watcher", "err", err)

		case <-settle:
			settle = nil
			run()
		}
	}
}
