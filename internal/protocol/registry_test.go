package protocol

import (
	"reflect"
	"testing"
)

type recordingApplier struct {
	calls   int
	effects []Effect
	last    Instance
}

func (a *recordingApplier) apply(inst Instance, effects []Effect) {
	a.calls++
	a.effects = append(a.effects, effects...)
	a.last = inst
}

func mountInteractive(t *testing.T, reg *Registry, widgetID string, applier *recordingApplier) {
	t.Helper()
	inst := NewInstance(InstanceConfig{
		WidgetID:      widgetID,
		CorrelationID: "cid-" + widgetID,
		AllowedOrigin: hostOrigin,
		WidgetOrigin:  widgetOrigin,
		Width:         400,
		Height:        600,
	})
	if !reg.Mount(inst, applier.apply) {
		t.Fatalf("mount of %s refused", widgetID)
	}
	reg.Advance(widgetID, func(i Instance) (Instance, []Effect) {
		return i.Attach("https://widget.tablo.app/w/demo-slug")
	})
	reg.Advance(widgetID, func(i Instance) (Instance, []Effect) {
		return i.AnnounceReady(AnnounceOnce())
	})
	reg.Dispatch(Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetLoaded, WidgetID: widgetID},
	})
	snap, ok := reg.Snapshot(widgetID)
	if !ok || snap.Phase != PhaseInteractive {
		t.Fatalf("%s did not reach interactive: %+v", widgetID, snap)
	}
}

func TestMountIsIdempotentPerWidgetID(t *testing.T) {
	reg := NewRegistry()
	applier := &recordingApplier{}
	inst := NewInstance(InstanceConfig{WidgetID: "wgt-a"})
	if !reg.Mount(inst, applier.apply) {
		t.Fatalf("first mount must succeed")
	}
	if reg.Mount(inst, applier.apply) {
		t.Fatalf("second mount of the same widgetId must be a no-op")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", reg.Len())
	}
}

func TestDispatchIsolatesInstances(t *testing.T) {
	reg := NewRegistry()
	applierA := &recordingApplier{}
	applierB := &recordingApplier{}
	mountInteractive(t, reg, "wgt-a", applierA)
	mountInteractive(t, reg, "wgt-b", applierB)

	before, _ := reg.Snapshot("wgt-b")
	callsB := applierB.calls

	reg.Dispatch(Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: 742},
	})

	snapA, _ := reg.Snapshot("wgt-a")
	if snapA.Height != 742 {
		t.Fatalf("expected wgt-a height 742, got %d", snapA.Height)
	}
	snapB, _ := reg.Snapshot("wgt-b")
	if !reflect.DeepEqual(snapB, before) {
		t.Fatalf("wgt-b state must be untouched by wgt-a traffic")
	}
	if snapB.Height != 600 {
		t.Fatalf("expected wgt-b height 600, got %d", snapB.Height)
	}
	if applierB.calls != callsB {
		t.Fatalf("wgt-b applier must not run for wgt-a traffic")
	}
}

func TestDispatchAppliesEffects(t *testing.T) {
	reg := NewRegistry()
	applier := &recordingApplier{}
	mountInteractive(t, reg, "wgt-a", applier)

	applier.effects = nil
	reg.Dispatch(Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: 512},
	})
	if len(applier.effects) != 1 {
		t.Fatalf("expected one applied effect, got %d", len(applier.effects))
	}
	resize, ok := applier.effects[0].(Resize)
	if !ok || resize.Height != 512 {
		t.Fatalf("expected Resize{512}, got %#v", applier.effects[0])
	}
	if applier.last.Height != 512 {
		t.Fatalf("applier must see the post-transition state, got height %d", applier.last.Height)
	}
}

func TestDispatchDropsForgedOriginSilently(t *testing.T) {
	reg := NewRegistry()
	applier := &recordingApplier{}
	mountInteractive(t, reg, "wgt-a", applier)

	before, _ := reg.Snapshot("wgt-a")
	calls := applier.calls
	reg.Dispatch(Envelope{
		Origin:  "https://evil.example.net",
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: 9999},
	})
	after, _ := reg.Snapshot("wgt-a")
	if !reflect.DeepEqual(after, before) {
		t.Fatalf("forged origin must leave state unchanged")
	}
	if applier.calls != calls {
		t.Fatalf("forged origin must not reach the applier")
	}
}

func TestDispatchUnknownWidgetIsSilent(t *testing.T) {
	reg := NewRegistry()
	reg.Dispatch(Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-ghost", Height: 100},
	})
}

func TestUnmountRemovesStateAndHandlerTogether(t *testing.T) {
	reg := NewRegistry()
	applier := &recordingApplier{}
	mountInteractive(t, reg, "wgt-a", applier)

	reg.Unmount("wgt-a")
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", reg.Len())
	}
	if _, ok := reg.Snapshot("wgt-a"); ok {
		t.Fatalf("unmounted instance must not be snapshotable")
	}

	calls := applier.calls
	reg.Dispatch(Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: 700},
	})
	if applier.calls != calls {
		t.Fatalf("applier must never run after unmount")
	}

	// The id can be mounted again after unmount.
	if !reg.Mount(NewInstance(InstanceConfig{WidgetID: "wgt-a"}), applier.apply) {
		t.Fatalf("remount after unmount must succeed")
	}
}

func TestUnmountUnknownIsSilent(t *testing.T) {
	reg := NewRegistry()
	reg.Unmount("wgt-never-mounted")
}

func TestAdvanceUnknownWidget(t *testing.T) {
	reg := NewRegistry()
	if reg.Advance("wgt-ghost", func(i Instance) (Instance, []Effect) { return i, nil }) {
		t.Fatalf("advance must report false for unknown widgetIds")
	}
}
