// Package envfile reads and edits KEY=VALUE environment files in place.
//
// Edits are line based: a line's key is the text before its first '='.
// Lines that are not targeted by an update (comments, blank lines, lines
// without '=') are written back exactly as they were read.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Pair is a single KEY=VALUE assignment.
type Pair struct {
	Key   string
	Value string
}

// P builds a Pair.
func P(key, value string) Pair {
	return Pair{Key: key, Value: value}
}

// File is an environment file held in memory as its raw lines.
type File struct {
	lines           []string
	trailingNewline bool
}

// Parse splits data into lines without interpreting them.
func Parse(data []byte) *File {
	if len(data) == 0 {
		return &File{trailingNewline: true}
	}

	text := string(data)
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = text[:len(text)-1]
	}

	return &File{
		lines:           strings.Split(text, "\n"),
		trailingNewline: trailing,
	}
}

// lineKey returns the key of a raw line. A line without '=' is its own key.
func lineKey(line string) string {
	key, _, _ := strings.Cut(line, "=")
	return key
}

// Set replaces every line keyed by key with key=value, or appends one line
// when no line matched.
func (f *File) Set(key, value string) {
	entry := key + "=" + value

	replaced := false
	for i, line := range f.lines {
		if lineKey(line) == key {
			f.lines[i] = entry
			replaced = true
		}
	}

	if !replaced {
		f.lines = append(f.lines, entry)
	}
}

// Apply sets every pair in order.
func (f *File) Apply(pairs ...Pair) {
	for _, p := range pairs {
		f.Set(p.Key, p.Value)
	}
}

// Get returns the raw value of the last line keyed by key.
func (f *File) Get(key string) (string, bool) {
	value, found := "", false
	for _, line := range f.lines {
		k, v, ok := strings.Cut(line, "=")
		if ok && k == key {
			value, found = v, true
		}
	}
	return value, found
}

// Keys returns the keys of all KEY=VALUE lines in order of first appearance.
func (f *File) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, line := range f.lines {
		k, _, ok := strings.Cut(line, "=")
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// Lines returns a copy of the raw lines.
func (f *File) Lines() []string {
	return append([]string(nil), f.lines...)
}

// Bytes renders the file back to text.
func (f *File) Bytes() []byte {
	text := strings.Join(f.lines, "\n")
	if f.trailingNewline && len(f.lines) > 0 {
		text += "\n"
	}
	return []byte(text)
}

// Load reads the file at path.
func Load(fsys afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Parse(data), nil
}

// Save writes f to path as a full overwrite. The content is written to a
// sibling temporary file first and renamed over path.
func Save(fsys afero.Fs, path string, f *File) error {
	mode := os.FileMode(0644)
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary env file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(f.Bytes()); err != nil {
		tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to write env file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to write env file: %w", err)
	}
	if err := fsys.Chmod(tmpName, mode); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to set env file mode: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to replace env file: %w", err)
	}

	return nil
}

// Update applies pairs to the file at path and writes it back once.
// A missing file is treated as empty.
func Update(fsys afero.Fs, path string, pairs ...Pair) error {
	f, err := Load(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		f = Parse(nil)
	} else if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	f.Apply(pairs...)

	return Save(fsys, path, f)
}

// Read parses the file at path with dotenv semantics (quotes, comments,
// export prefixes) and returns the resulting values.
func Read(fsys afero.Fs, path string) (map[string]string, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	values, err := godotenv.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}
