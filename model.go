package opts

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/imchaeyun/wallet-options/pkg/activity"
	"github.com/imchaeyun/wallet-options/pkg/state"
	"github.com/sirupsen/logrus"
)

// RestartRequiredKey persists the restart-required flag.
const RestartRequiredKey = "fRestartRequired"

// Model holds the effective value of every catalogue option. It is owned by
// a single goroutine: methods do no locking and listeners run inline.
//
// A new Model serves catalogue defaults until Init resolves overrides and
// the persisted store.
type Model struct {
	store   state.Store
	cfg     modelConfig
	log     logrus.FieldLogger
	emitter *activity.Emitter
	session string

	values     [OptionIDRowCount]Value
	sources    [OptionIDRowCount]Scope
	overridden [OptionIDRowCount]bool
	report     []string
	restart    bool
	version    int

	listeners    [OptionIDRowCount][]listenerEntry
	nextListener uint64
}

// New constructs a Model over store. A nil store selects a MemoryStore.
func New(store state.Store, opts ...Option) *Model {
	if store == nil {
		store = state.NewMemoryStore()
	}
	cfg := applyOptions(opts)
	m := &Model{
		store:   store,
		cfg:     cfg,
		session: uuid.NewString(),
		emitter: activity.NewEmitter(cfg.activityHooks, cfg.activity),
	}
	m.log = cfg.logger.WithField("session", m.session)
	for i, def := range catalogue {
		m.values[i] = def.Default
		m.sources[i] = ScopeDefaults
	}
	return m
}

// Init loads every option. With reset the store is cleared first. The
// migration history is applied, then each option takes, in order of
// precedence, its override, its valid stored value or its default; defaults
// are written back for absent or invalid stored values. Overrides are never
// persisted. The restart-required flag starts cleared.
//
// Init always leaves the model usable. The returned error only collects
// warnings (a *MigrationError, failed writes) and may be logged and ignored.
func (m *Model) Init(ctx context.Context, reset bool) error {
	var warnings []error
	m.report = nil
	m.overridden = [OptionIDRowCount]bool{}

	if reset {
		if err := m.store.Clear(ctx); err != nil {
			m.log.WithError(err).Warn("settings reset failed")
			warnings = append(warnings, fmt.Errorf("opts: reset settings: %w", err))
		} else {
			m.log.Info("settings reset")
			m.emitReset(ctx)
		}
	}

	from, _ := m.store.ReadVersion(ctx)
	version, err := Migrate(ctx, m.store, m.cfg.migrations, m.log)
	if err != nil {
		warnings = append(warnings, err)
	}
	m.version = version
	if version > from {
		m.emitMigrated(ctx, from, version)
	}

	for i, def := range catalogue {
		if value, raw, ok := m.lookupOverride(def); ok {
			m.values[i] = value
			m.sources[i] = ScopeOverride
			m.overridden[i] = true
			m.report = append(m.report, def.Arg+"="+raw)
			m.log.WithFields(logrus.Fields{"option": def.Name, "arg": def.Arg, "value": raw}).
				Info("option overridden for this run")
			continue
		}
		if value, ok := m.load(ctx, def); ok {
			m.values[i] = value
			m.sources[i] = ScopeSettings
			continue
		}
		m.values[i] = def.Default
		m.sources[i] = ScopeDefaults
		if err := m.store.Write(ctx, def.Key, def.Default.Interface()); err != nil {
			m.log.WithError(err).WithField("option", def.Name).Warn("default not saved")
			warnings = append(warnings, fmt.Errorf("opts: save default %s: %w", def.Name, err))
		}
	}

	if err := m.SetRestartRequired(ctx, false); err != nil {
		warnings = append(warnings, err)
	}
	return errors.Join(warnings...)
}

// lookupOverride returns the override for def coerced to its kind. Values
// that cannot be coerced, or that fail the option's rule, are ignored.
func (m *Model) lookupOverride(def Definition) (Value, string, bool) {
	if def.Arg == "" || m.cfg.overrides == nil {
		return Value{}, "", false
	}
	raw, ok := m.cfg.overrides.LookupOverride(def.Arg)
	if !ok {
		return Value{}, "", false
	}
	input := strings.TrimSpace(raw)
	if def.Kind == KindBool && input == "" {
		// A bare boolean argument such as -listen means true.
		input = "true"
	}
	value, ok := valueFromStore(def.Kind, input)
	if !ok {
		m.log.WithFields(logrus.Fields{"option": def.Name, "arg": def.Arg, "value": raw}).
			Warnf("override is not a valid %s, ignored", def.Kind)
		return Value{}, "", false
	}
	if def.Normalize != nil {
		value = def.Normalize(value)
	}
	if err := m.checkRule(def, value, ScopeOverride); err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{"option": def.Name, "arg": def.Arg}).
			Warn("override rejected, ignored")
		return Value{}, "", false
	}
	return value, raw, true
}

// load reads, coerces, normalizes and validates the stored value of def.
func (m *Model) load(ctx context.Context, def Definition) (Value, bool) {
	raw, ok := m.store.Read(ctx, def.Key, def.Kind)
	if !ok {
		if m.store.Has(ctx, def.Key) {
			m.log.WithField("option", def.Name).Warnf("stored value is not a valid %s, using default", def.Kind)
		}
		return Value{}, false
	}
	value, ok := valueFromStore(def.Kind, raw)
	if !ok {
		return Value{}, false
	}
	if def.Normalize != nil {
		value = def.Normalize(value)
	}
	if err := m.checkRule(def, value, ScopeSettings); err != nil {
		m.log.WithError(err).WithField("option", def.Name).Warn("stored value rejected, using default")
		return Value{}, false
	}
	return value, true
}

// Reset clears the persisted store. The in-memory values are kept until the
// next Init, which then yields defaults.
func (m *Model) Reset(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("opts: reset settings: %w", err)
	}
	m.log.Info("settings reset")
	m.emitReset(ctx)
	return nil
}

// RestartRequired reports whether a change needs a restart to apply.
func (m *Model) RestartRequired() bool {
	return m.restart
}

// SetRestartRequired sets or clears the restart-required flag. The flag is
// updated in memory even when persisting it fails.
func (m *Model) SetRestartRequired(ctx context.Context, required bool) error {
	m.restart = required
	if err := m.store.Write(ctx, RestartRequiredKey, required); err != nil {
		m.log.WithError(err).Warn("restart flag not saved")
		return fmt.Errorf("opts: save restart flag: %w", err)
	}
	return nil
}

// Version returns the settings schema version reached by the last Init.
func (m *Model) Version() int {
	return m.version
}

// Overridden reports whether id took its value from an override at Init.
func (m *Model) Overridden(id OptionID) bool {
	return id.Valid() && m.overridden[id]
}

// OverrideReport lists the applied overrides as "arg=value" entries in
// catalogue order.
func (m *Model) OverrideReport() []string {
	return append([]string(nil), m.report...)
}

// OverriddenByCommandLine returns the override report as one line, suitable
// for display next to the options that have no effect this run.
func (m *Model) OverriddenByCommandLine() string {
	return strings.Join(m.report, " ")
}

// Source reports which layer the current value of id came from.
func (m *Model) Source(id OptionID) Scope {
	if !id.Valid() {
		return Scope{}
	}
	return m.sources[id]
}

// Trace shows what each layer holds for id right now, strongest first.
func (m *Model) Trace(ctx context.Context, id OptionID) (Trace, error) {
	def, ok := Lookup(id)
	if !ok {
		return Trace{}, fmt.Errorf("%w: %d", ErrInvalidIndex, id)
	}
	override := Layer{Scope: ScopeOverride}
	if m.overridden[id] {
		override.Value, override.Found = m.values[id], true
	}
	stored := Layer{Scope: ScopeSettings}
	if raw, ok := m.store.Read(ctx, def.Key, def.Kind); ok {
		stored.Value, stored.Found = valueFromStore(def.Kind, raw)
	}
	defaults := Layer{Scope: ScopeDefaults, Value: def.Default, Found: true}
	stack, err := NewStack(defaults, stored, override)
	if err != nil {
		return Trace{}, err
	}
	return traceFromStack(def, stack), nil
}

// ProxySettings returns the main proxy as host:port and whether it is in use.
func (m *Model) ProxySettings() (string, bool) {
	addr := net.JoinHostPort(m.Get(ProxyIP).AsString(), strconv.Itoa(m.Get(ProxyPort).AsInt()))
	return addr, m.Get(ProxyUse).AsBool()
}

// TorProxySettings returns the separate onion proxy as host:port and whether
// it is in use.
func (m *Model) TorProxySettings() (string, bool) {
	addr := net.JoinHostPort(m.Get(ProxyIPTor).AsString(), strconv.Itoa(m.Get(ProxyPortTor).AsInt()))
	return addr, m.Get(ProxyUseTor).AsBool()
}

// Schema describes the catalogue with the configured schema generator.
func (m *Model) Schema() (SchemaDocument, error) {
	return m.cfg.schemaGenerator.Generate(Catalogue())
}
