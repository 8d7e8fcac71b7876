package indexer

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchTree watches root for file writes and creates and sends the
// affected path on changes whenever it matches one of the registered
// source extensions; removes and renames are not reported. It runs until
// ctx is canceled, the watcher closes, or the watcher reports an error.
// This sits entirely outside the Core's synchronous single-document model
// (spec.md §5): re-indexing a changed file is the caller's responsibility,
// triggered by reading from changes.
func WatchTree(ctx context.Context, root string, languageForExt func(ext string) (string, bool), changes chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if _, ok := languageForExt(filepath.Ext(event.Name)); !ok {
				continue
			}
			select {
			case changes <- event.Name:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
