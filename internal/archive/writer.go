// internal/archive/writer.go
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Files lists the paths written for one dump.
type Files struct {
	Binary   string
	Text     string
	Manifest string
}

// Writer persists dumps under Dir.
type Writer struct {
	Dir string
}

// New creates a writer for dir.
func New(dir string) (*Writer, error) {
	if dir == "" {
		return nil, errors.New("archive: output directory required")
	}
	return &Writer{Dir: dir}, nil
}

// FileName builds HP_3457A_<board>_<region>_<YYYY-MM-DD_HH-MM-SS>.
func FileName(boardName, region string, at time.Time) string {
	parts := []string{"HP_3457A"}
	for _, p := range []string{boardName, region} {
		if p != "" {
			parts = append(parts, sanitize(p))
		}
	}
	parts = append(parts, at.Format("2006-01-02_15-04-05"))
	return strings.Join(parts, "_")
}

// Save writes <name>.bin and <name>.txt, plus <name>.yaml when m is set.
// Files already written are removed if a later one fails.
func (w *Writer) Save(name string, d Dump, m *Manifest) (Files, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("archive: %w", err)
	}

	base := filepath.Join(w.Dir, name)
	files := Files{Binary: base + ".bin", Text: base + ".txt"}
	if m != nil {
		files.Manifest = base + ".yaml"
	}

	var written []string
	fail := func(err error) (Files, error) {
		for _, p := range written {
			_ = os.Remove(p)
		}
		return Files{}, err
	}

	if err := writeFile(files.Binary, func(f *os.File) error { return WriteBinary(f, d) }); err != nil {
		return fail(err)
	}
	written = append(written, files.Binary)

	if err := writeFile(files.Text, func(f *os.File) error { return WriteText(f, d) }); err != nil {
		return fail(err)
	}
	written = append(written, files.Text)

	if m != nil {
		if err := writeFile(files.Manifest, func(f *os.File) error { return WriteManifest(f, m) }); err != nil {
			return fail(err)
		}
	}

	return files, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("archive: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("archive: close %s: %w", path, err)
	}
	return nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
