package diagfmt

import (
	"os"
	"path/filepath"
	"strings"

	"cbot/internal/source"
)

// displayPath форматирует путь файла согласно режиму.
func displayPath(f *source.File, opts PrettyOpts) string {
	if f == nil {
		return "<unknown>"
	}
	path := filepath.FromSlash(f.Path)
	if opts.PathMode == PathModeBasename {
		return filepath.Base(path)
	}
	// виртуальные файлы не лежат на диске
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	if opts.PathMode == PathModeAbsolute {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	base := opts.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return path
	}
	// auto: за пределами базы оставляем абсолютный путь
	if opts.PathMode == PathModeAuto && strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}
