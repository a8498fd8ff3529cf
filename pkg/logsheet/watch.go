package logsheet

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay quiet after its last write
// event before it is converted. Log shippers write in bursts; converting
// on every event would repeatedly re-read a file mid-append.
const settleDelay = 500 * time.Millisecond

// Watch observes srcRoot and converts matching log files as they are
// created or rewritten, mirroring paths under destRoot like ConvertTree.
// Each conversion reprocesses the whole file; there is no append
// streaming. Blocks until the context is cancelled.
func Watch(ctx context.Context, srcRoot, destRoot string, recurse bool, opts Options) error {
	opts = opts.withDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := addWatches(fsw, srcRoot, recurse); err != nil {
		return err
	}

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range pending {
			t.Stop()
		}
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[path]; ok {
			t.Stop()
		}
		pending[path] = time.AfterFunc(settleDelay, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			dest, err := ConvertFile(path, srcRoot, destRoot, opts)
			if err != nil {
				opts.Logger.Printf("failed to process %s: %v", path, err)
				return
			}
			opts.Logger.Printf("converted: %s -> %s", path, dest)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && recurse {
				// New subdirectories must be watched too.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = fsw.Add(ev.Name)
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, opts.Extension) {
				continue
			}
			schedule(ev.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Printf("watch error: %v", err)
		}
	}
}

// addWatches registers srcRoot and, with recurse, every existing
// subdirectory.
func addWatches(fsw *fsnotify.Watcher, root string, recurse bool) error {
	if !recurse {
		return fsw.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}
