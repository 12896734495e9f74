package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/oops"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is the settings path relative to the XDG config home.
const DefaultSettingsFile = "wallet/settings.yaml"

var supportedFormats = map[string]string{
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".json": "json",
}

// DefaultPath returns the settings file location under the XDG config home,
// creating the parent directory when needed.
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile(DefaultSettingsFile)
	if err != nil {
		return "", oops.In("state").With("file", DefaultSettingsFile).Wrapf(err, "resolve default settings path")
	}
	return path, nil
}

// FileStore persists settings in a single yaml, toml or json file. Viper
// parses the file on open; writes go through a case-preserving map so the
// file carries the persistence keys exactly as given (viper itself would
// lowercase them). Lookups ignore case, so files written with lowercased keys
// still load. Every write rewrites the file before returning, and a failed
// write leaves the store unchanged. The store holds an exclusive lock file
// next to the settings file for its whole lifetime; call Close to release it.
type FileStore struct {
	mu      sync.Mutex
	path    string
	format  string
	values  map[string]any
	lock    *flock.Flock
	loadErr error
}

// OpenFileStore opens (or creates) the settings file at path. An empty path
// selects DefaultPath. A settings file that exists but cannot be parsed does
// not fail the open: the store starts empty, LoadError reports the problem,
// and the next write replaces the unreadable file.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	path = filepath.Clean(path)

	format, ok := supportedFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, oops.In("state").With("path", path).Wrapf(ErrUnsupportedFormat, "open settings file")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, oops.In("state").With("path", path).Wrapf(err, "create settings directory")
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, oops.In("state").With("path", path).Wrapf(err, "acquire settings lock")
	}
	if !locked {
		return nil, oops.In("state").With("path", path).Wrap(ErrStoreLocked)
	}

	s := &FileStore{
		path:   path,
		format: format,
		values: map[string]any{},
		lock:   lock,
	}
	if err := s.load(); err != nil {
		s.loadErr = oops.In("state").With("path", path).Wrapf(err, "read settings file")
		s.values = map[string]any{}
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	v := viper.New()
	v.SetConfigType(s.format)
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return err
	}

	// viper reports keys lowercased; recover the spelling used in the file.
	names := map[string]string{}
	if decoded, err := decode(s.format, raw); err == nil {
		for name := range decoded {
			names[strings.ToLower(name)] = name
		}
	}
	for _, key := range v.AllKeys() {
		name, ok := names[key]
		if !ok {
			name = key
		}
		s.values[name] = v.Get(key)
	}
	return nil
}

// Path returns the settings file location.
func (s *FileStore) Path() string {
	return s.path
}

// LoadError reports why an existing settings file could not be parsed when
// the store was opened. It is nil for missing or healthy files.
func (s *FileStore) LoadError() error {
	return s.loadErr
}

// Close releases the ownership lock.
func (s *FileStore) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return oops.In("state").With("path", s.path).Wrapf(err, "release settings lock")
	}
	return nil
}

func (s *FileStore) Has(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookup(key)
	return ok
}

func (s *FileStore) Read(_ context.Context, key string, kind Kind) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	return Coerce(kind, s.values[name])
}

func (s *FileStore) Write(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(s.with(key, value)); err != nil {
		return oops.In("state").With("path", s.path, "key", key).Wrapf(err, "write setting")
	}
	return nil
}

func (s *FileStore) ReadVersion(_ context.Context) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.lookup(VersionKey)
	if !ok {
		return 0, false
	}
	version, err := cast.ToIntE(s.values[name])
	if err != nil {
		return 0, false
	}
	return version, true
}

func (s *FileStore) WriteVersion(_ context.Context, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(s.with(VersionKey, version)); err != nil {
		return oops.In("state").With("path", s.path, "version", version).Wrapf(err, "write settings version")
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(map[string]any{}); err != nil {
		return oops.In("state").With("path", s.path).Wrapf(err, "clear settings")
	}
	return nil
}

// lookup resolves key to the name it is held under, ignoring case.
func (s *FileStore) lookup(key string) (string, bool) {
	if _, ok := s.values[key]; ok {
		return key, true
	}
	for name := range s.values {
		if strings.EqualFold(name, key) {
			return name, true
		}
	}
	return "", false
}

// with returns a copy of the current values with key set to value. A
// differently cased spelling of key is replaced.
func (s *FileStore) with(key string, value any) map[string]any {
	next := maps.Clone(s.values)
	if name, ok := s.lookup(key); ok {
		delete(next, name)
	}
	next[key] = value
	return next
}

// commit writes next to disk and adopts it only once the file is written.
func (s *FileStore) commit(next map[string]any) error {
	raw, err := encode(s.format, next)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return err
	}
	s.values = next
	return nil
}

func encode(format string, values map[string]any) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(values)
	case "toml":
		return toml.Marshal(values)
	case "json":
		raw, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(raw, '\n'), nil
	}
	return nil, ErrUnsupportedFormat
}

func decode(format string, raw []byte) (map[string]any, error) {
	decoded := map[string]any{}
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(raw, &decoded)
	case "toml":
		err = toml.Unmarshal(raw, &decoded)
	case "json":
		err = json.Unmarshal(raw, &decoded)
	default:
		err = ErrUnsupportedFormat
	}
	return decoded, err
}
