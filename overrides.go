package opts

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// OverrideSource reports values supplied for the current run by a source
// that outranks the persisted settings, such as the command line. arg is the
// option's external argument name, e.g. "-dbcache".
type OverrideSource interface {
	LookupOverride(arg string) (string, bool)
}

// OverrideFunc adapts a function to OverrideSource.
type OverrideFunc func(arg string) (string, bool)

// LookupOverride implements OverrideSource.
func (f OverrideFunc) LookupOverride(arg string) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(arg)
}

func argName(arg string) string {
	return strings.TrimLeft(strings.TrimSpace(arg), "-")
}

// FlagOverrides reports flags that were explicitly set on fs. Flags left at
// their default do not count as overrides.
func FlagOverrides(fs *pflag.FlagSet) OverrideSource {
	return OverrideFunc(func(arg string) (string, bool) {
		if fs == nil {
			return "", false
		}
		flag := fs.Lookup(argName(arg))
		if flag == nil || !flag.Changed {
			return "", false
		}
		return flag.Value.String(), true
	})
}

// ViperOverrides reports keys set on v through a config file, environment
// variable, flag binding or explicit Set. Do not register viper defaults for
// these keys: viper reports them as set.
func ViperOverrides(v *viper.Viper) OverrideSource {
	return OverrideFunc(func(arg string) (string, bool) {
		if v == nil {
			return "", false
		}
		key := argName(arg)
		if !v.IsSet(key) {
			return "", false
		}
		value, err := cast.ToStringE(v.Get(key))
		if err != nil {
			return "", false
		}
		return value, true
	})
}

// MapOverrides is a fixed set of overrides keyed by argument name, with or
// without the leading dash.
type MapOverrides map[string]string

// LookupOverride implements OverrideSource.
func (m MapOverrides) LookupOverride(arg string) (string, bool) {
	if value, ok := m[arg]; ok {
		return value, true
	}
	value, ok := m[argName(arg)]
	return value, ok
}

// ChainOverrides consults sources in order; the first one that supplies a
// value wins.
func ChainOverrides(sources ...OverrideSource) OverrideSource {
	return OverrideFunc(func(arg string) (string, bool) {
		for _, source := range sources {
			if source == nil {
				continue
			}
			if value, ok := source.LookupOverride(arg); ok {
				return value, true
			}
		}
		return "", false
	})
}
