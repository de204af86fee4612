package template

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed presets/*.yaml
var builtin embed.FS

// Entry is a loaded preset with its list position and origin.
type Entry struct {
	Index  int
	Source string // "builtin" or the file path
	Preset *Preset
}

// Registry holds built-in presets overlaid with user presets.
type Registry struct {
	entries []Entry
}

// LoadRegistry loads the embedded presets, then every *.yaml / *.yml file
// in userDir. A user preset replaces a built-in one with the same id.
// Invalid user files are skipped and reported in the returned warnings;
// a missing userDir is not an error.
func LoadRegistry(userDir string) (*Registry, []string, error) {
	byID := make(map[string]Entry)
	var order []string
	add := func(e Entry) {
		if _, ok := byID[e.Preset.ID]; !ok {
			order = append(order, e.Preset.ID)
		}
		byID[e.Preset.ID] = e
	}

	names, err := fs.Glob(builtin, "presets/*.yaml")
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := builtin.ReadFile(name)
		if err != nil {
			return nil, nil, err
		}
		p, err := ParsePreset(data)
		if err != nil {
			return nil, nil, fmt.Errorf("built-in preset %s: %w", path.Base(name), err)
		}
		if errs := p.Validate(); len(errs) > 0 {
			return nil, nil, fmt.Errorf("built-in preset %s: %w", path.Base(name), errs[0])
		}
		add(Entry{Source: "builtin", Preset: p})
	}

	var warnings []string
	if userDir != "" {
		files, err := userFiles(userDir)
		if err != nil {
			return nil, nil, err
		}
		for _, file := range files {
			p, err := LoadPreset(file)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %v", file, err))
				continue
			}
			if errs := p.Validate(); len(errs) > 0 {
				warnings = append(warnings, fmt.Sprintf("%s: %v", file, errs[0]))
				continue
			}
			add(Entry{Source: file, Preset: p})
		}
	}

	r := &Registry{entries: make([]Entry, 0, len(order))}
	for i, id := range order {
		e := byID[id]
		e.Index = i + 1
		r.entries = append(r.entries, e)
	}
	return r, warnings, nil
}

func userFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// List returns presets in display order.
func (r *Registry) List() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Resolve finds a preset by id, display name (case-insensitive) or the
// 1-based index shown by List.
func (r *Registry) Resolve(name string) (*Preset, error) {
	input := strings.TrimSpace(name)
	if input == "" {
		return nil, fmt.Errorf("template '%s' not found: empty template name", name)
	}
	for _, e := range r.entries {
		if strings.EqualFold(e.Preset.ID, input) || strings.EqualFold(e.Preset.Name, input) {
			return e.Preset, nil
		}
	}
	if n, err := strconv.Atoi(input); err == nil {
		for _, e := range r.entries {
			if e.Index == n {
				return e.Preset, nil
			}
		}
	}
	return nil, fmt.Errorf("template '%s' not found", name)
}
