package opts

// Priorities of the three layers an effective value is resolved from.
// Higher numbers win.
const (
	ScopePriorityDefaults = 100
	ScopePrioritySettings = 200
	ScopePriorityOverride = 300
)

var (
	// ScopeDefaults marks catalogue defaults.
	ScopeDefaults = NewScope("defaults", ScopePriorityDefaults, WithScopeLabel("Built-in default"))
	// ScopeSettings marks values read from the persisted store.
	ScopeSettings = NewScope("settings", ScopePrioritySettings, WithScopeLabel("Saved settings"))
	// ScopeOverride marks values supplied by an external override source for
	// the current run.
	ScopeOverride = NewScope("override", ScopePriorityOverride, WithScopeLabel("Command line"))
)
