package opts_test

import (
	"context"
	"fmt"

	usertypes "github.com/goliatone/go-users/pkg/types"
	opts "github.com/imchaeyun/wallet-options"
	"github.com/imchaeyun/wallet-options/pkg/activity"
	"github.com/imchaeyun/wallet-options/pkg/activity/usersink"
	"github.com/imchaeyun/wallet-options/pkg/state"
)

func Example() {
	ctx := context.Background()
	store := state.NewMemoryStore()
	model := opts.New(store, opts.WithOverrides(opts.MapOverrides{"-dbcache": "900"}))
	if err := model.Init(ctx, false); err != nil {
		fmt.Println("warning:", err)
	}

	model.Subscribe(opts.DisplayUnit, func(id opts.OptionID, value opts.Value) {
		fmt.Println("changed:", id, value)
	})
	if err := model.SetDisplayUnit(ctx, opts.UnitMilliBTC); err != nil {
		fmt.Println(err)
	}

	fmt.Println("dbcache:", model.DatabaseCache())
	fmt.Println("overridden:", model.OverriddenByCommandLine())
	fmt.Println("restart required:", model.RestartRequired())
	// Output:
	// changed: DisplayUnit 1
	// dbcache: 900
	// overridden: -dbcache=900
	// restart required: false
}

func ExampleModel_Trace() {
	ctx := context.Background()
	store := state.NewMemoryStore()
	store.Seed(map[string]any{"theme": "dark"})
	_ = store.WriteVersion(ctx, opts.LatestVersion)

	model := opts.New(store)
	_ = model.Init(ctx, false)

	trace, _ := model.Trace(ctx, opts.Theme)
	for _, layer := range trace.Layers {
		fmt.Printf("%-8s found=%-5v effective=%-5v %v\n", layer.Scope.Name, layer.Found, layer.Effective, layer.Value)
	}
	// Output:
	// override found=false effective=false <nil>
	// settings found=true  effective=true  dark
	// defaults found=true  effective=false light
}

type recordingSink struct {
	records []usertypes.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return nil
}

func ExampleWithActivityHooks() {
	ctx := context.Background()
	capture := &activity.CaptureHook{}
	sink := &recordingSink{}

	model := opts.New(nil,
		opts.WithActivityHooks(activity.Hooks{capture, usersink.Hook{Sink: sink}}),
		opts.WithActor("desktop-01"),
	)
	_ = model.Init(ctx, false)
	_ = model.SetTheme(ctx, "dark")
	_ = model.Set(ctx, opts.Listen, false)

	fmt.Println("verbs:", capture.Verbs())
	for _, record := range sink.records {
		fmt.Println(record.Verb, record.ObjectID)
	}
	// Output:
	// verbs: [settings.migrated settings.updated]
	// settings.migrated settings
	// settings.updated fListen
}
