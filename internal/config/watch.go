package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the given config file and invokes onChange with a freshly
// loaded config whenever it is written. Errors during reload are reported to
// onError and watching continues. The returned stop function releases the
// watcher.
func Watch(path string, onChange func(*Config), onError func(error)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace files on save, which drops
	// a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	base := filepath.Base(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Reload(path)
				if err != nil {
					onError(err)
					continue
				}
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onError(err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
