package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/mogaika/gltf_bake/utils"
)

// editors often save with several writes or a rename, wait for them to settle
const settleDelay = 200 * time.Millisecond

// watchAndConvert converts once and then again after every change of the
// input or the recipe, until ctx is done. Failed runs are logged and the
// previous output is left as it was. Events are handled on this goroutine
// only, so runs never overlap.
func watchAndConvert(ctx context.Context, in, out, recipe string) error {
	watched := make(map[string]struct{})
	for _, path := range []string{in, recipe} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %q", path)
		}
		watched[abs] = struct{}{}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer w.Close()

	// watch directories, editors replace files by renaming over them
	dirs := make(map[string]struct{})
	for path := range watched {
		dir := filepath.Dir(path)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %q", dir)
		}
	}

	run := func() {
		if err := convert(in, out); err != nil {
			utils.Log().Error("conversion failed", "err", err)
		}
	}
	run()
	utils.Log().Info("watching for changes", "in", in, "recipe", recipe)

	settle := time.NewTimer(settleDelay)
	settle.Stop()
	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(e.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			utils.Log().Debug("change", "file", e.Name, "op", e.Op.String())
			settle.Reset(settleDelay)

		case <-settle.C:
			run()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			utils.Log().Error("watcher", "err", err)

		case <-ctx.Done():
			return nil
		}
	}
}
