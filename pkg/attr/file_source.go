package attr

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileSource is a Source persisted as a flat YAML mapping in a single file.
// Every Set and Remove rewrites the file.
type FileSource struct {
	path string

	mu    sync.Mutex
	attrs map[string]string
}

// OpenFileSource loads the attributes stored at path. A missing file yields
// an empty source; the file is created on the first write.
func OpenFileSource(path string) (*FileSource, error) {
	s := &FileSource{path: path, attrs: map[string]string{}}
	attrs, err := readAttributes(path)
	if err != nil {
		return nil, err
	}
	s.attrs = attrs
	return s, nil
}

// Path returns the backing file path.
func (s *FileSource) Path() string {
	return s.path
}

// Get returns the attribute value and whether it is present.
func (s *FileSource) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[name]
	return v, ok
}

// Set writes the attribute and persists the file.
func (s *FileSource) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.attrs[name]; ok && cur == value {
		return nil
	}
	s.attrs[name] = value
	return s.flushLocked()
}

// Remove deletes the attribute and persists the file.
func (s *FileSource) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attrs[name]; !ok {
		return nil
	}
	delete(s.attrs, name)
	return s.flushLocked()
}

// Snapshot returns a copy of all attributes.
func (s *FileSource) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.attrs)
}

func (s *FileSource) flushLocked() error {
	data, err := yaml.Marshal(s.attrs)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create attribute directory: %w", err)
	}
	// Write then rename so watchers never read a truncated file.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Watch reports attributes changed in the file by other writers. The
// source's own writes never produce changes. The channel closes when ctx
// is done or the watcher fails.
func (s *FileSource) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory: editors and atomic writers replace the file,
	// which drops a watch placed on the file itself.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to create attribute directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan Change)
	target := filepath.Clean(s.path)

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				for _, change := range s.reload() {
					select {
					case out <- change:
					case <-ctx.Done():
						return
					}
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

// reload re-reads the file and returns the attributes that differ from the
// in-memory copy, in name order. Unreadable or half-written files are skipped.
func (s *FileSource) reload() []Change {
	attrs, err := readAttributes(s.path)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changes []Change
	for name, v := range attrs {
		if cur, ok := s.attrs[name]; !ok || cur != v {
			changes = append(changes, Change{Name: name, Value: v, Present: true})
		}
	}
	for name := range s.attrs {
		if _, ok := attrs[name]; !ok {
			changes = append(changes, Change{Name: name})
		}
	}
	s.attrs = attrs
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return changes
}

func readAttributes(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	attrs := map[string]string{}
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	return attrs, nil
}
