package songs

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// reloadDebounce collapses the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads the catalog whenever its source file changes, until ctx ends.
// The parent directory is watched so atomic rename-on-save is seen too.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.source == "" {
		return errors.New("songs: embedded catalog cannot be watched")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Clean(c.source)
	if err := w.Add(filepath.Dir(target)); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()

		debounce := time.NewTimer(0)
		<-debounce.C

		for {
			select {
			case <-ctx.Done():
				debounce.Stop()
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce.Reset(reloadDebounce)

			case <-debounce.C:
				if err := c.Reload(); err != nil {
					log.Warn().Err(err).Str("file", target).Msg("song table reload failed, keeping previous")
					continue
				}
				log.Info().Str("file", target).Int("songs", c.Len()).Msg("song table reloaded")

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("song table watcher")
			}
		}
	}()
	return nil
}
