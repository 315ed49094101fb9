package document

import (
	"context"

	"github.com/abtreece/dotconf/pkg/log"
	"github.com/abtreece/dotconf/pkg/util"
	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the name of every watched file that is written,
// created or removed, until ctx is done. Directories are watched
// recursively. It returns nil when ctx ends and the watcher error otherwise.
func Watch(ctx context.Context, paths []string, fn func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, path := range paths {
		isDir, err := util.IsDirectory(path)
		if err != nil {
			return err
		}
		if !isDir {
			if err := watcher.Add(path); err != nil {
				return err
			}
			continue
		}
		dirs, err := util.RecursiveDirsLookup(path, "*")
		if err != nil {
			return err
		}
		for _, dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			log.Debug("Event: %s", event)
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Remove == fsnotify.Remove ||
				event.Op&fsnotify.Create == fsnotify.Create {
				fn(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
