package templatex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/iedon/eyebrow-go/fsutil"
)

// DefaultExt is the file extension of templates and partials.
const DefaultExt = ".mustache"

type partial struct {
	source string
	file   string
}

// Partials maps partial names to template source. It is filled once by
// LoadPartials and never modified, so it can be shared between renders freely.
type Partials struct {
	entries map[string]partial
}

// NewPartials builds a table from in-memory sources keyed by name.
func NewPartials(sources map[string]string) (*Partials, error) {
	p := &Partials{entries: make(map[string]partial, len(sources))}
	for raw, source := range sources {
		if err := p.add(raw, source, raw); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LoadPartials reads every file with extension ext below dir. A partial's name
// is its path relative to dir without the extension, using '/' as separator.
func LoadPartials(ctx context.Context, dir, ext string) (*Partials, error) {
	if ext == "" {
		ext = DefaultExt
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &DirectoryNotFoundError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryNotFoundError{Dir: dir, Err: errors.New("not a directory")}
	}

	p := &Partials{entries: make(map[string]partial)}
	err = fsutil.WalkFiles(ctx, dir, func(rel, path string) error {
		if len(rel) <= len(ext) || !strings.EqualFold(rel[len(rel)-len(ext):], ext) {
			return nil
		}
		data, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		return p.add(rel[:len(rel)-len(ext)], string(data), path)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Partials) add(raw, source, file string) error {
	name := partialName(raw)
	if existing, ok := p.entries[name]; ok {
		first, second := existing.file, file
		if second < first {
			first, second = second, first
		}
		return &DuplicatePartialNameError{Name: name, First: first, Second: second}
	}
	p.entries[name] = partial{source: source, file: file}
	return nil
}

// Lookup returns the source of the named partial.
func (p *Partials) Lookup(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	entry, ok := p.entries[partialName(name)]
	return entry.source, ok
}

// Names lists all partial names in sorted order.
func (p *Partials) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of partials.
func (p *Partials) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// partialName folds separators to '/' and applies NFC so names written on
// NFD filesystems match the names used in templates.
func partialName(raw string) string {
	name := strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/")
	name = filepath.ToSlash(name)
	name = strings.Trim(name, "/")
	return norm.NFC.String(name)
}
