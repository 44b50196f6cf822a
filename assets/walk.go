package assets

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/lines"
)

// populate walks the root and loads every model file below it. A model
// replaced by a later file in the same directory is destroyed. Loader
// errors are returned unchanged and stop the walk.
func (c *Cache) populate(loader Loader, o options) error {
	if _, err := os.Stat(c.root); errors.Is(err, fs.ErrNotExist) {
		lines.Logger().Warn("asset root does not exist", "root", c.root)
		return nil
	}

	exts := o.extensionSet()
	bar := newProgress(o)
	defer func() { _ = bar.Close() }()

	return filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		dir := filepath.Dir(path)
		if dir == c.root {
			return nil
		}
		if _, ok := exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		bar.Describe("[green]Loading Model: " + d.Name() + "[reset]")
		m, err := loader.FromFile(path)
		if err != nil {
			return err
		}
		name := filepath.Base(dir)
		if prev, ok := c.models[name]; ok {
			lines.Logger().Debug("asset replaced", "name", name, "previous", prev.Path, "path", path)
			prev.Destroy()
		}
		c.models[name] = m
		_ = bar.Add(1)
		return nil
	})
}

// newProgress returns a spinner that reports the file being loaded.
func newProgress(o options) *progressbar.ProgressBar {
	visible := o.progress != nil
	w := o.progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("Loading Models"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
