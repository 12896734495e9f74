package opts

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

// Function represents a callable exposed to rule expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores rule functions keyed by name. Names are case
// sensitive so they read the same in every engine.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// DefaultFunctions returns a registry holding the functions catalogue rules
// rely on:
//
//	isIP(s)          s parses as an IPv4 or IPv6 address
//	urlTemplates(s)  s is empty or a "|"-separated list of absolute URLs each
//	                 containing the "%s" transaction id placeholder
func DefaultFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("isIP", isIP)
	_ = registry.Register("urlTemplates", urlTemplates)
	return registry
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("opts: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("opts: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("opts: function %q already registered", name)
	}
	r.functions[name] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("opts: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[name]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("opts: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry replaces the rule function registry. Catalogue rules
// call isIP and urlTemplates, so custom registries usually start from
// DefaultFunctions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *modelConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name in addition to the defaults.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *modelConfig) {
		if cfg.functions == nil {
			cfg.functions = DefaultFunctions()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

func singleString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("opts: %s expects 1 argument, got %d", name, len(args))
	}
	s, err := cast.ToStringE(args[0])
	if err != nil {
		return "", fmt.Errorf("opts: %s: %w", name, err)
	}
	return s, nil
}

func isIP(args ...any) (any, error) {
	s, err := singleString("isIP", args)
	if err != nil {
		return nil, err
	}
	return net.ParseIP(strings.TrimSpace(s)) != nil, nil
}

func urlTemplates(args ...any) (any, error) {
	s, err := singleString("urlTemplates", args)
	if err != nil {
		return nil, err
	}
	for _, entry := range strings.Split(s, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "%s") {
			return false, nil
		}
		parsed, err := url.Parse(strings.ReplaceAll(entry, "%s", "txid"))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return false, nil
		}
	}
	return true, nil
}
