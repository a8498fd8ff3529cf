package logsheet

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"logsheet/pkg/logsheet/models"
)

// Discover returns the files under root carrying ext, sorted for
// deterministic ordering. With recurse it walks the full subtree,
// otherwise only the root directory itself.
func Discover(root string, recurse bool, ext string) ([]string, error) {
	pattern := "*" + ext
	if recurse {
		pattern = "**/*" + ext
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return files, nil
}

// ConvertTree discovers log files under srcRoot and converts each one
// to the mirrored path under destRoot using a fixed-size worker pool.
// Files are independent units of work: a failure is recorded in that
// file's result slot and logged, and never aborts sibling conversions.
// The returned error covers discovery only.
func ConvertTree(ctx context.Context, srcRoot, destRoot string, recurse bool, opts Options) ([]models.Result, error) {
	opts = opts.withDefaults()

	files, err := Discover(srcRoot, recurse, opts.Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		opts.Logger.Printf("no %s files found in: %s", opts.Extension, srcRoot)
		return nil, nil
	}
	opts.Logger.Printf("found %d log files in: %s", len(files), srcRoot)

	// One result slot per file; each worker writes only its own slot,
	// so no lock is needed.
	results := make([]models.Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = models.Result{Source: file, Err: err}
				return nil
			}
			dest, err := ConvertFile(file, srcRoot, destRoot, opts)
			if err != nil {
				results[i] = models.Result{Source: file, Err: err}
				opts.Logger.Printf("failed to process %s: %v", file, err)
				return nil
			}
			results[i] = models.Result{Source: file, Dest: dest}
			opts.Logger.Printf("converted: %s -> %s", file, dest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
