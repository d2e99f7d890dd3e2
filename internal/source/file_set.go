package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileSet owns the scripts loaded by one program or CLI invocation.
// Files are never removed; recompiling a path adds a new version.
type FileSet struct {
	files  []File
	byPath map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// Add stores content as the newest version of path.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	path = filepath.ToSlash(filepath.Clean(path))
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: newlines(content),
		Flags:   flags,
	})
	fs.byPath[path] = id
	return id
}

// Load reads a script from disk in normalized form.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- scripts are named by the user
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory script, e.g. one restored from a save.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns nil for unknown ids.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup returns the newest version of path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.byPath[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Resolve converts a span into 1-based line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.position(span.Start), f.position(span.End)
}

// Line returns line n (1-based) without its newline, or "" past the end.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// position counts the newlines strictly before off.
func (f *File) position(off uint32) LineCol {
	line, _ := slices.BinarySearch(f.LineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = f.LineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1} //nolint:gosec // line <= len(LineIdx)
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// normalize drops a UTF-8 BOM and turns CRLF into LF. Lone CR stays.
func normalize(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if bytes.HasPrefix(raw, bom) {
		raw = raw[len(bom):]
		flags |= FileHadBOM
	}
	if bytes.Contains(raw, []byte("\r\n")) {
		raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return raw, flags
}

func newlines(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return idx
		}
		off += i
		idx = append(idx, uint32(off)) //nolint:gosec // bounded by Add
		off++
	}
}
