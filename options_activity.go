package opts

import (
	"context"

	"github.com/imchaeyun/wallet-options/pkg/activity"
)

// WithActivityHooks attaches hooks that receive settings.updated,
// settings.reset and settings.migrated events. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *modelConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (m *Model) ActivityHooks() activity.Hooks {
	if m == nil {
		return nil
	}
	return activity.CloneHooks(m.cfg.activityHooks)
}

// Session identifies this model instance in logs and activity events.
func (m *Model) Session() string {
	return m.session
}

func (m *Model) eventInput() activity.SettingEventInput {
	return activity.SettingEventInput{
		ActorID:   m.cfg.actorID,
		SessionID: m.session,
	}
}

func (m *Model) emit(ctx context.Context, event activity.Event) {
	if err := m.emitter.Emit(ctx, event); err != nil {
		m.log.WithError(err).WithField("verb", event.Verb).Warn("activity hook failed")
	}
}

func (m *Model) emitUpdated(ctx context.Context, def Definition, previous, current Value) {
	if !m.emitter.Enabled() {
		return
	}
	input := m.eventInput()
	input.Key = def.Key
	input.Option = def.Name
	input.OldValue = previous.Interface()
	input.NewValue = current.Interface()
	input.RequiresRestart = def.RequiresRestart
	scope := m.sources[def.ID]
	input.Scope = activity.ScopeContext{Name: scope.Name, Label: scope.Label, Priority: scope.Priority}
	m.emit(ctx, activity.BuildSettingUpdatedEvent(input))
}

func (m *Model) emitReset(ctx context.Context) {
	if !m.emitter.Enabled() {
		return
	}
	m.emit(ctx, activity.BuildSettingsResetEvent(m.eventInput()))
}

func (m *Model) emitMigrated(ctx context.Context, from, to int) {
	if !m.emitter.Enabled() {
		return
	}
	input := m.eventInput()
	input.FromVersion = from
	input.ToVersion = to
	m.emit(ctx, activity.BuildSettingsMigratedEvent(input))
}
