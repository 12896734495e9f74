package opts

import (
	"context"
	"fmt"
)

// RowCount returns the number of options.
func (m *Model) RowCount() int {
	return int(OptionIDRowCount)
}

// Get returns the effective value of id, or the zero Value for identifiers
// outside the catalogue.
func (m *Model) Get(id OptionID) Value {
	if !id.Valid() {
		return Value{}
	}
	return m.values[id]
}

// Data returns the effective value at row.
func (m *Model) Data(row int) (Value, error) {
	id := OptionID(row)
	if !id.Valid() {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidIndex, row)
	}
	return m.values[id], nil
}

// SetData is Set addressed by row.
func (m *Model) SetData(ctx context.Context, row int, value any) error {
	return m.Set(ctx, OptionID(row), value)
}

// Set validates value, writes it through to the store and makes it the
// effective value of id. value may be a Value or a bool, integer or string
// matching the option's kind. On any error nothing changes and no listener
// runs. Changing a restart-requiring option raises the restart flag.
// Listeners of id run before Set returns; changes to non-local options are
// also emitted as activity.
func (m *Model) Set(ctx context.Context, id OptionID, value any) error {
	def, ok := Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, id)
	}
	candidate, ok := ValueOf(value)
	if !ok || candidate.Kind() != def.Kind {
		return fmt.Errorf("%w: %s wants %s, got %T", ErrTypeMismatch, def.Name, def.Kind, value)
	}
	if err := m.checkRule(def, candidate, ScopeSettings); err != nil {
		return err
	}
	if err := m.store.Write(ctx, def.Key, candidate.Interface()); err != nil {
		return fmt.Errorf("opts: save %s: %w", def.Name, err)
	}

	previous := m.values[id]
	m.values[id] = candidate
	m.sources[id] = ScopeSettings
	m.log.WithField("option", def.Name).Debug("option updated")

	if def.RequiresRestart {
		// A failed flag write is already logged; the value itself is saved.
		_ = m.SetRestartRequired(ctx, true)
	}
	m.notify(id, candidate)
	if !def.Local {
		m.emitUpdated(ctx, def, previous, candidate)
	}
	return nil
}

func (m *Model) HideTrayIcon() bool { return m.Get(HideTrayIcon).AsBool() }

// MinimizeToTray is false while the tray icon is hidden, whatever is stored.
func (m *Model) MinimizeToTray() bool {
	return m.Get(MinimizeToTray).AsBool() && !m.HideTrayIcon()
}

func (m *Model) MinimizeOnClose() bool     { return m.Get(MinimizeOnClose).AsBool() }
func (m *Model) DisplayUnit() int          { return m.Get(DisplayUnit).AsInt() }
func (m *Model) Theme() string             { return m.Get(Theme).AsString() }
func (m *Model) ThirdPartyTxUrls() string  { return m.Get(ThirdPartyTxUrls).AsString() }
func (m *Model) CoinControlFeatures() bool { return m.Get(CoinControlFeatures).AsBool() }
func (m *Model) MiningPool() string        { return m.Get(MiningPool).AsString() }
func (m *Model) MiningUsername() string    { return m.Get(MiningUsername).AsString() }
func (m *Model) MiningPassword() string    { return m.Get(MiningPassword).AsString() }
func (m *Model) MinerPath() string         { return m.Get(MinerPath).AsString() }
func (m *Model) MinerExtraParams() string  { return m.Get(MinerExtraParams).AsString() }
func (m *Model) MinerStartUp() bool        { return m.Get(MinerStartUp).AsBool() }
func (m *Model) ThreadsScriptVerif() int   { return m.Get(ThreadsScriptVerif).AsInt() }
func (m *Model) DatabaseCache() int        { return m.Get(DatabaseCache).AsInt() }
func (m *Model) SpendZeroConfChange() bool { return m.Get(SpendZeroConfChange).AsBool() }
func (m *Model) Listen() bool              { return m.Get(Listen).AsBool() }
func (m *Model) Language() string          { return m.Get(Language).AsString() }
func (m *Model) MapPortUPnP() bool         { return m.Get(MapPortUPnP).AsBool() }
func (m *Model) StartAtStartup() bool      { return m.Get(StartAtStartup).AsBool() }

func (m *Model) SetDisplayUnit(ctx context.Context, unit int) error {
	return m.Set(ctx, DisplayUnit, unit)
}

func (m *Model) SetTheme(ctx context.Context, theme string) error {
	return m.Set(ctx, Theme, theme)
}

func (m *Model) SetHideTrayIcon(ctx context.Context, hide bool) error {
	return m.Set(ctx, HideTrayIcon, hide)
}

func (m *Model) SetCoinControlFeatures(ctx context.Context, enabled bool) error {
	return m.Set(ctx, CoinControlFeatures, enabled)
}

func (m *Model) SetMiningPool(ctx context.Context, pool string) error {
	return m.Set(ctx, MiningPool, pool)
}

func (m *Model) SetMiningUsername(ctx context.Context, username string) error {
	return m.Set(ctx, MiningUsername, username)
}

func (m *Model) SetMiningPassword(ctx context.Context, password string) error {
	return m.Set(ctx, MiningPassword, password)
}

func (m *Model) SetMinerPath(ctx context.Context, path string) error {
	return m.Set(ctx, MinerPath, path)
}

func (m *Model) SetMinerExtraParams(ctx context.Context, params string) error {
	return m.Set(ctx, MinerExtraParams, params)
}

func (m *Model) SetMinerStartUp(ctx context.Context, enabled bool) error {
	return m.Set(ctx, MinerStartUp, enabled)
}
