package activity

import (
	"strings"
	"time"
)

// Verbs and object types of settings events.
const (
	VerbSettingUpdated   = "settings.updated"
	VerbSettingsReset    = "settings.reset"
	VerbSettingsMigrated = "settings.migrated"

	ObjectSetting  = "setting"
	ObjectSettings = "settings"
)

// ScopeContext names the precedence layer a value came from.
type ScopeContext struct {
	Name     string
	Label    string
	Priority int
}

// SettingEventInput describes the common fields of settings events.
type SettingEventInput struct {
	ActorID         string
	SessionID       string
	Channel         string
	Metadata        map[string]any
	Key             string
	Option          string
	OldValue        any
	NewValue        any
	RequiresRestart bool
	Scope           ScopeContext
	FromVersion     int
	ToVersion       int
	OccurredAt      time.Time
}

// BuildSettingUpdatedEvent describes a change of one option. The object id
// is the persistence key.
func BuildSettingUpdatedEvent(input SettingEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Option != "" {
		metadata = set(metadata, "option", input.Option)
	}
	if input.OldValue != nil {
		metadata = set(metadata, "old_value", input.OldValue)
	}
	if input.NewValue != nil {
		metadata = set(metadata, "new_value", input.NewValue)
	}
	if input.RequiresRestart {
		metadata = set(metadata, "requires_restart", true)
	}
	if input.Scope.Name != "" {
		metadata = set(metadata, "scope_name", input.Scope.Name)
		metadata = set(metadata, "scope_priority", input.Scope.Priority)
		if input.Scope.Label != "" {
			metadata = set(metadata, "scope_label", input.Scope.Label)
		}
	}
	objectID := strings.TrimSpace(input.Key)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Option)
	}
	return buildEvent(VerbSettingUpdated, ObjectSetting, objectID, metadata, input)
}

// BuildSettingsResetEvent describes a full clear of the persisted settings.
func BuildSettingsResetEvent(input SettingEventInput) Event {
	return buildEvent(VerbSettingsReset, ObjectSettings, ObjectSettings, cloneMap(input.Metadata), input)
}

// BuildSettingsMigratedEvent describes a schema upgrade of the persisted
// settings.
func BuildSettingsMigratedEvent(input SettingEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = set(metadata, "from_version", input.FromVersion)
	metadata = set(metadata, "to_version", input.ToVersion)
	return buildEvent(VerbSettingsMigrated, ObjectSettings, ObjectSettings, metadata, input)
}

func buildEvent(verb, objectType, objectID string, metadata map[string]any, input SettingEventInput) Event {
	if objectID == "" {
		objectID = objectType
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		SessionID:  strings.TrimSpace(input.SessionID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func set(meta map[string]any, key string, value any) map[string]any {
	if meta == nil {
		meta = map[string]any{}
	}
	meta[key] = value
	return meta
}
