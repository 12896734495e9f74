package opts

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListenersRunInOrderBeforeSetReturns(t *testing.T) {
	ctx := context.Background()
	m := initModel(t, nil)

	var got []string
	m.Subscribe(DisplayUnit, func(id OptionID, value Value) {
		got = append(got, "first:"+value.String())
	})
	m.Subscribe(DisplayUnit, func(id OptionID, value Value) {
		if m.DisplayUnit() != value.AsInt() {
			t.Errorf("listener ran before the value was applied")
		}
		got = append(got, "second:"+id.String())
	})
	m.Subscribe(Theme, func(OptionID, Value) {
		got = append(got, "theme")
	})

	if err := m.SetDisplayUnit(ctx, UnitMicroBTC); err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff([]string{"first:2", "second:DisplayUnit"}, got); diff != "" {
		t.Fatalf("listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	m := initModel(t, nil)

	calls := 0
	var unsubscribeSelf func()
	unsubscribeSelf = m.Subscribe(HideTrayIcon, func(OptionID, Value) {
		calls++
		unsubscribeSelf()
	})
	other := 0
	unsubscribeOther := m.Subscribe(HideTrayIcon, func(OptionID, Value) { other++ })

	_ = m.SetHideTrayIcon(ctx, true)
	_ = m.SetHideTrayIcon(ctx, false)
	if calls != 1 || other != 2 {
		t.Fatalf("expected self-unsubscribing listener once and other twice, got %d and %d", calls, other)
	}

	unsubscribeOther()
	unsubscribeOther()
	_ = m.SetHideTrayIcon(ctx, true)
	if other != 2 {
		t.Fatalf("unsubscribed listener must not run, got %d", other)
	}
}

func TestSubscribeIgnoresInvalidInput(t *testing.T) {
	m := New(nil)
	m.Subscribe(OptionIDRowCount, func(OptionID, Value) {})()
	m.Subscribe(Theme, nil)()
	if len(m.listeners[Theme]) != 0 {
		t.Fatalf("nil listener must not be registered")
	}
}
