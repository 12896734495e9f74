package state

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// VersionKey is the persistence key holding the settings schema version.
const VersionKey = "nSettingsVersion"

var (
	// ErrStoreLocked is returned when another process owns the settings file.
	ErrStoreLocked = errors.New("state: settings store is locked by another process")
	// ErrUnsupportedFormat is returned for settings files with an unknown extension.
	ErrUnsupportedFormat = errors.New("state: unsupported settings format")
)

// Kind is the semantic type of a persisted value.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Store loads and saves individual settings plus the schema-version marker.
type Store interface {
	Has(ctx context.Context, key string) bool
	// Read returns the value stored under key coerced to kind. ok is false when
	// the key is absent or the stored value cannot be coerced.
	Read(ctx context.Context, key string, kind Kind) (value any, ok bool)
	Write(ctx context.Context, key string, value any) error
	// ReadVersion returns the schema version marker; ok is false when no
	// marker has ever been written.
	ReadVersion(ctx context.Context) (version int, ok bool)
	WriteVersion(ctx context.Context, version int) error
	Clear(ctx context.Context) error
}

// Coerce converts a raw stored value into the Go type backing kind: bool,
// int or string. Settings files written by older builds may hold numbers as
// strings (or floats after a JSON round trip), so numeric strings and
// integral floats are accepted. Booleans are never accepted as integers and
// vice versa.
func Coerce(kind Kind, raw any) (any, bool) {
	if raw == nil {
		return nil, false
	}
	switch kind {
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, true
		case string:
			b, err := cast.ToBoolE(strings.TrimSpace(v))
			if err != nil {
				return nil, false
			}
			return b, true
		}
		return nil, false
	case KindInt:
		switch v := raw.(type) {
		case bool:
			return nil, false
		case float32:
			return integral(float64(v))
		case float64:
			return integral(v)
		case string:
			n, err := cast.ToIntE(strings.TrimSpace(v))
			if err != nil {
				return nil, false
			}
			return n, true
		}
		n, err := cast.ToIntE(raw)
		if err != nil {
			return nil, false
		}
		return n, true
	case KindString:
		switch v := raw.(type) {
		case string:
			return v, true
		case bool:
			return nil, false
		case []any, map[string]any:
			return nil, false
		}
		s, err := cast.ToStringE(raw)
		if err != nil {
			return nil, false
		}
		return s, true
	default:
		return nil, false
	}
}

func integral(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, false
	}
	return int(f), true
}
