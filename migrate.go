package opts

import (
	"context"
	"fmt"

	"github.com/imchaeyun/wallet-options/pkg/state"
	"github.com/sirupsen/logrus"
)

// LatestVersion is the settings schema version written by this build.
const LatestVersion = 2

const (
	legacyDatabaseCache = 100
	legacyTheme         = ""
)

// MigrationStep upgrades the store to Version. Apply may only rewrite values
// that still hold a previous factory default; customized values are left
// untouched.
type MigrationStep struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, store state.Store) error
}

// MigrationError reports the step that failed. Init returns it as a warning;
// the model still initializes.
type MigrationError struct {
	From int
	To   int
	Step string
	Err  error
}

func (e *MigrationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("opts: migrate settings v%d -> v%d (%s): %v", e.From, e.To, e.Step, e.Err)
}

func (e *MigrationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DefaultMigrations returns the settings schema history, oldest first.
//
//	v1  database cache default raised from 100 MiB to 450 MiB
//	v2  unset theme becomes "light"
func DefaultMigrations() []MigrationStep {
	return []MigrationStep{
		{
			Version: 1,
			Name:    "raise-dbcache-default",
			Apply:   replaceDefault(DatabaseCache, Int(legacyDatabaseCache)),
		},
		{
			Version: 2,
			Name:    "explicit-light-theme",
			Apply:   replaceDefault(Theme, String(legacyTheme)),
		},
	}
}

// replaceDefault rewrites id to its current default when the stored value
// equals the retired default. Absent keys are left for Init to fill.
func replaceDefault(id OptionID, retired Value) func(context.Context, state.Store) error {
	def := catalogue[id]
	return func(ctx context.Context, store state.Store) error {
		raw, ok := store.Read(ctx, def.Key, def.Kind)
		if !ok {
			return nil
		}
		stored, ok := valueFromStore(def.Kind, raw)
		if !ok || !stored.Equal(retired) {
			return nil
		}
		return store.Write(ctx, def.Key, def.Default.Interface())
	}
}

// Migrate applies every step newer than the stored version, writing the
// version marker after each one. It returns the resulting version. The
// marker is never lowered, so a store written by a newer build is left as
// is. A failing step stops the run with a *MigrationError.
func Migrate(ctx context.Context, store state.Store, steps []MigrationStep, log logrus.FieldLogger) (int, error) {
	if log == nil {
		log = discardLogger()
	}
	current, ok := store.ReadVersion(ctx)
	if !ok {
		current = 0
	}
	for _, step := range steps {
		if current >= step.Version {
			continue
		}
		entry := log.WithFields(logrus.Fields{"from": current, "to": step.Version, "step": step.Name})
		if step.Apply != nil {
			if err := step.Apply(ctx, store); err != nil {
				entry.WithError(err).Warn("settings migration failed")
				return current, &MigrationError{From: current, To: step.Version, Step: step.Name, Err: err}
			}
		}
		if err := store.WriteVersion(ctx, step.Version); err != nil {
			entry.WithError(err).Warn("settings version not saved")
			return current, &MigrationError{From: current, To: step.Version, Step: step.Name, Err: err}
		}
		entry.Info("settings migrated")
		current = step.Version
	}
	return current, nil
}
