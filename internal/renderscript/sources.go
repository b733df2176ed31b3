package renderscript

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
)

// Source is one candidate input file a step's file_regex can match
// against: either a direct file on disk or a member of a registered
// ZIP archive. Grounded in Renderscript.add_source/add_source_archive.
type Source struct {
	Name string // path, or "archive.zip:member/path" for archive entries
	data []byte
	path string // non-empty for direct (non-archive) files, read lazily
}

// Sources is the pool a script draws its render-gerber/render-drill
// inputs from.
type Sources struct {
	items []Source
}

// NewSources returns an empty source pool.
func NewSources() *Sources { return &Sources{} }

// AddFile registers a direct file on disk, read lazily from path.
func (s *Sources) AddFile(path string) {
	s.items = append(s.items, Source{Name: path, path: path})
}

// AddArchive registers every member of a ZIP archive read from data,
// named "<archiveName>:<member>". Mirrors
// Renderscript.add_source_archive/_list_zip_archive.
func (s *Sources) AddArchive(archiveName string, data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("renderscript: opening archive %s: %w", archiveName, err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("renderscript: reading %s from %s: %w", f.Name, archiveName, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("renderscript: reading %s from %s: %w", f.Name, archiveName, err)
		}
		s.items = append(s.items, Source{Name: archiveName + ":" + f.Name, data: content})
	}
	return nil
}

// Find returns every registered source whose name contains a match of
// pattern (unanchored; use ^/$ to anchor), trying direct (non-archive) sources first, then archive
// members, matching Renderscript._find_file's priority order.
func (s *Sources) Find(pattern string) ([]Source, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("renderscript: invalid file_regex %q: %w", pattern, err)
	}
	var direct, archived []Source
	for _, src := range s.items {
		if !re.MatchString(src.Name) {
			continue
		}
		if src.path != "" {
			direct = append(direct, src)
		} else {
			archived = append(archived, src)
		}
	}
	if len(direct) > 0 {
		return direct, nil
	}
	return archived, nil
}

// Bytes returns the source's content, reading it from disk on first
// use for direct files.
func (s *Source) Bytes() ([]byte, error) {
	if s.data != nil {
		return s.data, nil
	}
	if s.path == "" {
		return nil, fmt.Errorf("renderscript: source %s has no backing data", s.Name)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("renderscript: reading %s: %w", s.Name, err)
	}
	s.data = data
	return data, nil
}
