package activity

import (
	"testing"
	"time"
)

func TestBuildSettingUpdatedEvent(t *testing.T) {
	meta := map[string]any{"source": "cli"}
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	input := SettingEventInput{
		ActorID:         " device-1 ",
		SessionID:       "session-1",
		Channel:         "settings",
		Metadata:        meta,
		Key:             "nDatabaseCache",
		Option:          "DatabaseCache",
		OldValue:        450,
		NewValue:        1024,
		RequiresRestart: true,
		Scope:           ScopeContext{Name: "settings", Label: "Saved settings", Priority: 200},
		OccurredAt:      at,
	}

	event := BuildSettingUpdatedEvent(input)

	if event.Verb != VerbSettingUpdated {
		t.Fatalf("expected verb %s got %s", VerbSettingUpdated, event.Verb)
	}
	if event.ObjectType != ObjectSetting || event.ObjectID != "nDatabaseCache" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "device-1" || event.SessionID != "session-1" {
		t.Fatalf("unexpected identity fields: %+v", event)
	}
	want := map[string]any{
		"source":           "cli",
		"option":           "DatabaseCache",
		"old_value":        450,
		"new_value":        1024,
		"requires_restart": true,
		"scope_name":       "settings",
		"scope_priority":   200,
		"scope_label":      "Saved settings",
	}
	for key, value := range want {
		if event.Metadata[key] != value {
			t.Fatalf("metadata[%s] = %v, want %v", key, event.Metadata[key], value)
		}
	}
	if !event.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved, got %v", event.OccurredAt)
	}
	event.Metadata["source"] = "changed"
	if meta["source"] != "cli" {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildSettingUpdatedEventFallsBackToOption(t *testing.T) {
	event := BuildSettingUpdatedEvent(SettingEventInput{Option: "Theme", NewValue: false})
	if event.ObjectID != "Theme" {
		t.Fatalf("expected option name as object id, got %q", event.ObjectID)
	}
	if event.Metadata["new_value"] != false {
		t.Fatalf("expected false new_value recorded, got %v", event.Metadata["new_value"])
	}
	if _, ok := event.Metadata["requires_restart"]; ok {
		t.Fatalf("requires_restart should be omitted when false")
	}

	bare := BuildSettingUpdatedEvent(SettingEventInput{})
	if bare.ObjectID != ObjectSetting {
		t.Fatalf("expected fallback object id %q, got %q", ObjectSetting, bare.ObjectID)
	}
}

func TestBuildSettingsResetAndMigratedEvents(t *testing.T) {
	reset := BuildSettingsResetEvent(SettingEventInput{SessionID: "s"})
	if reset.Verb != VerbSettingsReset || reset.ObjectType != ObjectSettings || reset.ObjectID != ObjectSettings {
		t.Fatalf("unexpected reset event: %+v", reset)
	}

	migrated := BuildSettingsMigratedEvent(SettingEventInput{FromVersion: 0, ToVersion: 2})
	if migrated.Verb != VerbSettingsMigrated {
		t.Fatalf("unexpected verb %q", migrated.Verb)
	}
	if migrated.Metadata["from_version"] != 0 || migrated.Metadata["to_version"] != 2 {
		t.Fatalf("unexpected versions: %+v", migrated.Metadata)
	}
}
