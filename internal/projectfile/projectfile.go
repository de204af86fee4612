// Package projectfile reads and writes portable .scormproj documents.
//
// A project file is a JSON domain.ProjectFile. Uploaded media travels next
// to it in a "<stem>.media" directory holding one file per blob and an
// index.json describing them. Writes take an exclusive OS lock on
// "<file>.lock", keep the previous document as "<file>.backup" and replace
// the document atomically.
package projectfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/gofrs/flock"
)

// Ext is the project document extension.
const Ext = ".scormproj"

const lockRetry = 50 * time.Millisecond

var (
	// ErrNotFound is returned when the document does not exist.
	ErrNotFound = errors.New("project file not found")
	// ErrNoBackup is returned by Restore when there is nothing to restore.
	ErrNoBackup = errors.New("no backup for project file")
)

// Asset is a media blob stored beside a project file.
type Asset struct {
	ID       string           `json:"id"`
	PageID   string           `json:"page_id,omitempty"`
	Type     domain.MediaType `json:"type"`
	MimeType string           `json:"mime_type"`
	FileName string           `json:"file_name"`
	Data     []byte           `json:"-"`
}

type mediaIndex struct {
	Assets []Asset `json:"assets"`
}

// File is a handle on one project document path.
type File struct {
	path string
	lock *flock.Flock
}

// Open returns a handle for path; the file need not exist yet.
func Open(path string) *File {
	return &File{path: path, lock: flock.New(path + ".lock")}
}

// PathFor builds "<dir>/<name>.scormproj" from a project name.
func PathFor(dir, name string) string {
	return filepath.Join(dir, FileStem(name)+Ext)
}

// FileStem turns a project name into a safe file stem.
func FileStem(name string) string {
	return domain.CoalesceStr(scorm.Slugify(name), "project")
}

func (f *File) Path() string       { return f.path }
func (f *File) BackupPath() string { return f.path + ".backup" }
func (f *File) MediaDir() string {
	return strings.TrimSuffix(f.path, Ext) + ".media"
}

// Save writes pf and its media.
func (f *File) Save(ctx context.Context, pf *domain.ProjectFile, assets []Asset) error {
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	if err := f.acquire(ctx, false); err != nil {
		return err
	}
	defer f.lock.Unlock()

	if err := f.backup(); err != nil {
		return err
	}
	if err := writeAtomic(f.path, data); err != nil {
		return err
	}
	return f.writeMedia(assets)
}

// Load reads the document and any media beside it.
func (f *File) Load(ctx context.Context) (*domain.ProjectFile, []Asset, error) {
	if err := f.acquire(ctx, true); err != nil {
		return nil, nil, err
	}
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s: %w", f.path, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("reading project file: %w", err)
	}
	var pf domain.ProjectFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, nil, fmt.Errorf("parsing project file %s: %w", f.path, err)
	}
	assets, err := f.readMedia()
	if err != nil {
		return nil, nil, err
	}
	return &pf, assets, nil
}

// Restore replaces the document with its backup.
func (f *File) Restore(ctx context.Context) error {
	if err := f.acquire(ctx, false); err != nil {
		return err
	}
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.BackupPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoBackup
		}
		return fmt.Errorf("reading backup: %w", err)
	}
	return writeAtomic(f.path, data)
}

// Delete removes the document, its backup, its media directory and the
// lock file.
func (f *File) Delete(ctx context.Context) error {
	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", f.path, ErrNotFound)
	}
	if err := f.acquire(ctx, false); err != nil {
		return err
	}
	defer os.Remove(f.lock.Path())
	defer f.lock.Unlock()

	if err := os.Remove(f.path); err != nil {
		return fmt.Errorf("deleting project file: %w", err)
	}
	if err := os.Remove(f.BackupPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting backup: %w", err)
	}
	if err := os.RemoveAll(f.MediaDir()); err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	return nil
}

func (f *File) acquire(ctx context.Context, shared bool) error {
	var ok bool
	var err error
	if shared {
		ok, err = f.lock.TryRLockContext(ctx, lockRetry)
	} else {
		ok, err = f.lock.TryLockContext(ctx, lockRetry)
	}
	if err != nil {
		return fmt.Errorf("locking %s: %w", f.path, err)
	}
	if !ok {
		return fmt.Errorf("locking %s: lock not acquired", f.path)
	}
	return nil
}

func (f *File) backup() error {
	prev, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading previous project file: %w", err)
	}
	if err := writeAtomic(f.BackupPath(), prev); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

func (f *File) writeMedia(assets []Asset) error {
	dir := f.MediaDir()
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing media directory: %w", err)
	}
	if len(assets) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating media directory: %w", err)
	}

	idx := mediaIndex{Assets: make([]Asset, 0, len(assets))}
	for _, a := range assets {
		if a.ID == "" || strings.ContainsAny(a.ID, `/\`) || a.ID == "." || a.ID == ".." {
			return fmt.Errorf("media id %q is not a valid file name", a.ID)
		}
		if err := os.WriteFile(filepath.Join(dir, a.ID), a.Data, 0o644); err != nil {
			return fmt.Errorf("writing media %s: %w", a.ID, err)
		}
		idx.Assets = append(idx.Assets, a)
	}
	sort.Slice(idx.Assets, func(i, j int) bool { return idx.Assets[i].ID < idx.Assets[j].ID })

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding media index: %w", err)
	}
	return writeAtomic(filepath.Join(dir, "index.json"), data)
}

func (f *File) readMedia() ([]Asset, error) {
	data, err := os.ReadFile(filepath.Join(f.MediaDir(), "index.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading media index: %w", err)
	}
	var idx mediaIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing media index: %w", err)
	}
	for i := range idx.Assets {
		a := &idx.Assets[i]
		if a.ID == "" || filepath.Base(a.ID) != a.ID {
			return nil, fmt.Errorf("media index: invalid id %q", a.ID)
		}
		if a.Data, err = os.ReadFile(filepath.Join(f.MediaDir(), a.ID)); err != nil {
			return nil, fmt.Errorf("reading media %s: %w", a.ID, err)
		}
	}
	return idx.Assets, nil
}

// writeAtomic writes data to a temp file in the same directory, syncs it,
// then renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// List returns the project documents in dir, newest first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	type item struct {
		path string
		mod  time.Time
	}
	var items []item
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].mod.Equal(items[j].mod) {
			return items[i].path < items[j].path
		}
		return items[i].mod.After(items[j].mod)
	})
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.path
	}
	return out, nil
}
