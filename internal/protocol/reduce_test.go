package protocol

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

const (
	hostOrigin   = "https://host.example.com"
	widgetOrigin = "https://widget.tablo.app"
)

func newTestInstance() Instance {
	return NewInstance(InstanceConfig{
		WidgetID:      "wgt-a",
		CorrelationID: "cid-1",
		AllowedOrigin: hostOrigin,
		WidgetOrigin:  widgetOrigin,
		HostOrigin:    hostOrigin,
		Width:         400,
		Height:        600,
	})
}

func interactiveInstance(t *testing.T) Instance {
	t.Helper()
	inst := newTestInstance()
	inst, _ = inst.Attach("https://widget.tablo.app/w/demo-slug")
	inst, _ = inst.AnnounceReady(AnnounceOnce())
	next, _, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetLoaded, WidgetID: "wgt-a", CorrelationID: "cid-1"},
	})
	if reason != DropNone {
		t.Fatalf("could not reach interactive phase, drop reason %q", reason)
	}
	return next
}

func TestNewInstanceMintsMissingIDs(t *testing.T) {
	inst := NewInstance(InstanceConfig{WidgetOrigin: widgetOrigin})
	if !strings.HasPrefix(inst.WidgetID, "wgt-") {
		t.Fatalf("expected minted widget id, got %q", inst.WidgetID)
	}
	if !strings.HasPrefix(inst.CorrelationID, "cid-") {
		t.Fatalf("expected minted correlation id, got %q", inst.CorrelationID)
	}
	if NewInstance(InstanceConfig{}).WidgetID == inst.WidgetID {
		t.Fatalf("minted widget ids must be unique")
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	inst := newTestInstance()
	if inst.Phase != PhaseCreated {
		t.Fatalf("fresh instance must start in created, got %q", inst.Phase)
	}

	inst, effects := inst.Attach("https://widget.tablo.app/w/demo-slug")
	if inst.Phase != PhaseIframeAttached {
		t.Fatalf("expected iframe_attached, got %q", inst.Phase)
	}
	if len(effects) != 1 {
		t.Fatalf("attach must produce one effect, got %d", len(effects))
	}
	src, ok := effects[0].(SetIframeSrc)
	if !ok {
		t.Fatalf("expected SetIframeSrc, got %T", effects[0])
	}
	if src.URL != "https://widget.tablo.app/w/demo-slug" {
		t.Fatalf("unexpected iframe src %q", src.URL)
	}

	inst, effects = inst.AnnounceReady(DefaultReadyPolicy())
	if inst.Phase != PhaseParentReadySent {
		t.Fatalf("expected parent_ready_sent, got %q", inst.Phase)
	}
	if len(effects) != 1 {
		t.Fatalf("announce must produce one effect, got %d", len(effects))
	}
	post, ok := effects[0].(PostParentReady)
	if !ok {
		t.Fatalf("expected PostParentReady, got %T", effects[0])
	}
	if post.Message.Type != TypeParentReady || post.Message.WidgetID != "wgt-a" || post.Message.CorrelationID != "cid-1" {
		t.Fatalf("parent_ready message malformed: %+v", post.Message)
	}
	if post.TargetOrigin != widgetOrigin {
		t.Fatalf("parent_ready must target the widget origin, got %q", post.TargetOrigin)
	}

	next, effects, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetLoaded, WidgetID: "wgt-a"},
	})
	if reason != DropNone {
		t.Fatalf("widget_loaded dropped: %q", reason)
	}
	if next.Phase != PhaseInteractive || !next.Loaded {
		t.Fatalf("expected interactive+loaded, got phase %q loaded %v", next.Phase, next.Loaded)
	}
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %d", len(effects))
	}
	if _, ok := effects[0].(MarkLoaded); !ok {
		t.Fatalf("expected MarkLoaded, got %T", effects[0])
	}
}

func TestAttachAndAnnounceAreNoOpsOutOfPhase(t *testing.T) {
	inst := newTestInstance()
	inst, _ = inst.Attach("https://widget.tablo.app/w/demo-slug")

	again, effects := inst.Attach("https://widget.tablo.app/w/other")
	if len(effects) != 0 || !reflect.DeepEqual(again, inst) {
		t.Fatalf("second attach must change nothing")
	}

	inst, _ = inst.AnnounceReady(AnnounceOnce())
	again, effects = inst.AnnounceReady(AnnounceOnce())
	if len(effects) != 0 || !reflect.DeepEqual(again, inst) {
		t.Fatalf("second announce must change nothing")
	}

	fresh := newTestInstance()
	again, effects = fresh.AnnounceReady(AnnounceOnce())
	if len(effects) != 0 || !reflect.DeepEqual(again, fresh) {
		t.Fatalf("announce before attach must change nothing")
	}
}

func TestAnnounceReadyCarriesPolicy(t *testing.T) {
	inst := newTestInstance()
	inst, _ = inst.Attach("https://widget.tablo.app/w/demo-slug")
	policy := ReadyPolicy{Attempts: 5, Interval: 250 * time.Millisecond}
	_, effects := inst.AnnounceReady(policy)
	post := effects[0].(PostParentReady)
	if post.Policy != policy {
		t.Fatalf("expected policy %+v, got %+v", policy, post.Policy)
	}
}

func TestResizeUpdatesHeightOnly(t *testing.T) {
	inst := interactiveInstance(t)
	next, effects, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: 742},
	})
	if reason != DropNone {
		t.Fatalf("resize dropped: %q", reason)
	}
	if next.Height != 742 {
		t.Fatalf("expected height 742, got %d", next.Height)
	}
	if next.Width != inst.Width {
		t.Fatalf("resize must leave width unchanged, got %d", next.Width)
	}
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %d", len(effects))
	}
	if resize, ok := effects[0].(Resize); !ok || resize.Height != 742 {
		t.Fatalf("expected Resize{742}, got %#v", effects[0])
	}
}

func TestResizeRepeatable(t *testing.T) {
	inst := interactiveInstance(t)
	for _, h := range []int{500, 742, 610} {
		next, _, reason := Reduce(inst, Envelope{
			Origin:  hostOrigin,
			Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: h},
		})
		if reason != DropNone || next.Height != h {
			t.Fatalf("resize to %d failed: reason %q height %d", h, reason, next.Height)
		}
		if next.Phase != PhaseInteractive {
			t.Fatalf("resize must keep the instance interactive, got %q", next.Phase)
		}
		inst = next
	}
}

func TestResizeDroppedOutsideInteractive(t *testing.T) {
	inst := newTestInstance()
	inst, _ = inst.Attach("https://widget.tablo.app/w/demo-slug")
	next, effects, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: 742},
	})
	if reason != DropPhase {
		t.Fatalf("expected phase drop, got %q", reason)
	}
	if len(effects) != 0 || !reflect.DeepEqual(next, inst) {
		t.Fatalf("dropped message must change nothing")
	}
}

func TestResizeRejectsNonPositiveHeight(t *testing.T) {
	inst := interactiveInstance(t)
	for _, h := range []int{0, -10} {
		next, _, reason := Reduce(inst, Envelope{
			Origin:  hostOrigin,
			Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: h},
		})
		if reason != DropInvalidPayload {
			t.Fatalf("height %d: expected invalid_payload, got %q", h, reason)
		}
		if !reflect.DeepEqual(next, inst) {
			t.Fatalf("height %d: state must be unchanged", h)
		}
	}
}

func TestConversionForwardsWithoutStateChange(t *testing.T) {
	inst := interactiveInstance(t)
	next, effects, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetConversion, WidgetID: "wgt-a", Value: 89.50},
	})
	if reason != DropNone {
		t.Fatalf("conversion dropped: %q", reason)
	}
	if !reflect.DeepEqual(next, inst) {
		t.Fatalf("conversion must not alter tracked state")
	}
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %d", len(effects))
	}
	fwd, ok := effects[0].(ForwardConversion)
	if !ok || fwd.Value != 89.50 {
		t.Fatalf("expected ForwardConversion{89.50}, got %#v", effects[0])
	}
}

func TestWidgetErrorFromAnyNonTerminalPhase(t *testing.T) {
	build := map[string]func(t *testing.T) Instance{
		"created": func(t *testing.T) Instance { return newTestInstance() },
		"attached": func(t *testing.T) Instance {
			inst := newTestInstance()
			inst, _ = inst.Attach("https://widget.tablo.app/w/demo-slug")
			return inst
		},
		"ready sent": func(t *testing.T) Instance {
			inst := newTestInstance()
			inst, _ = inst.Attach("https://widget.tablo.app/w/demo-slug")
			inst, _ = inst.AnnounceReady(AnnounceOnce())
			return inst
		},
		"interactive": interactiveInstance,
	}
	for name, setup := range build {
		t.Run(name, func(t *testing.T) {
			inst := setup(t)
			next, effects, reason := Reduce(inst, Envelope{
				Origin:  hostOrigin,
				Message: Message{Type: TypeWidgetError, WidgetID: "wgt-a", Error: "boot failed", RequestID: "req-9"},
			})
			if reason != DropNone {
				t.Fatalf("widget_error dropped: %q", reason)
			}
			if next.Phase != PhaseErrored {
				t.Fatalf("expected errored, got %q", next.Phase)
			}
			if next.LastError != "boot failed" || next.LastRequestID != "req-9" {
				t.Fatalf("error details not tracked: %+v", next)
			}
			panel, ok := effects[0].(RenderErrorPanel)
			if !ok {
				t.Fatalf("expected RenderErrorPanel, got %T", effects[0])
			}
			if panel.RequestID != "req-9" || panel.CorrelationID != "cid-1" {
				t.Fatalf("error panel must carry requestId and correlationId: %+v", panel)
			}
		})
	}
}

func TestWidgetCloseHides(t *testing.T) {
	inst := interactiveInstance(t)
	next, effects, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetClose, WidgetID: "wgt-a"},
	})
	if reason != DropNone {
		t.Fatalf("widget_close dropped: %q", reason)
	}
	if next.Phase != PhaseClosed || !next.Hidden {
		t.Fatalf("expected closed+hidden, got phase %q hidden %v", next.Phase, next.Hidden)
	}
	if _, ok := effects[0].(Hide); !ok {
		t.Fatalf("expected Hide, got %T", effects[0])
	}
}

func TestTerminalPhasesDropEverything(t *testing.T) {
	inst := interactiveInstance(t)
	closed, _, _ := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetClose, WidgetID: "wgt-a"},
	})
	for _, msgType := range []Type{TypeWidgetLoaded, TypeWidgetResize, TypeWidgetConversion, TypeWidgetError, TypeWidgetClose} {
		next, effects, reason := Reduce(closed, Envelope{
			Origin:  hostOrigin,
			Message: Message{Type: msgType, WidgetID: "wgt-a", Height: 100, Error: "x"},
		})
		if reason != DropTerminal {
			t.Fatalf("%s: expected terminal drop, got %q", msgType, reason)
		}
		if len(effects) != 0 || !reflect.DeepEqual(next, closed) {
			t.Fatalf("%s: terminal state must be frozen", msgType)
		}
	}
}

func TestWidgetIDMismatchDropped(t *testing.T) {
	inst := interactiveInstance(t)
	next, effects, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeWidgetResize, WidgetID: "wgt-b", Height: 742},
	})
	if reason != DropWidgetIDMismatch {
		t.Fatalf("expected widget_id_mismatch, got %q", reason)
	}
	if len(effects) != 0 || !reflect.DeepEqual(next, inst) {
		t.Fatalf("mismatched widgetId must change nothing")
	}
}

func TestForeignOriginLeavesStateUnchanged(t *testing.T) {
	inst := interactiveInstance(t)
	payloads := []Message{
		{Type: TypeWidgetResize, WidgetID: "wgt-a", Height: 9999},
		{Type: TypeWidgetError, WidgetID: "wgt-a", Error: "fake"},
		{Type: TypeWidgetClose, WidgetID: "wgt-a"},
		{Type: TypeWidgetConversion, WidgetID: "wgt-a", Value: 1},
	}
	for _, msg := range payloads {
		next, effects, reason := Reduce(inst, Envelope{Origin: "https://evil.example.net", Message: msg})
		if reason != DropOriginMismatch {
			t.Fatalf("%s: expected origin_mismatch, got %q", msg.Type, reason)
		}
		if len(effects) != 0 {
			t.Fatalf("%s: foreign origin must produce no effects", msg.Type)
		}
		if !reflect.DeepEqual(next, inst) {
			t.Fatalf("%s: state before and after must be identical", msg.Type)
		}
	}
}

func TestNoConfiguredOriginSkipsOriginCheck(t *testing.T) {
	inst := NewInstance(InstanceConfig{
		WidgetID:     "wgt-open",
		WidgetOrigin: widgetOrigin,
		Width:        400,
		Height:       600,
	})
	inst, _ = inst.Attach("https://widget.tablo.app/w/demo-slug")
	inst, _ = inst.AnnounceReady(AnnounceOnce())
	next, _, reason := Reduce(inst, Envelope{
		Origin:  "https://anywhere.example.org",
		Message: Message{Type: TypeWidgetLoaded, WidgetID: "wgt-open"},
	})
	if reason != DropNone {
		t.Fatalf("without a configured origin the widgetId check alone applies, got drop %q", reason)
	}
	if next.Phase != PhaseInteractive {
		t.Fatalf("expected interactive, got %q", next.Phase)
	}
}

func TestInboundParentReadyIgnored(t *testing.T) {
	inst := interactiveInstance(t)
	next, effects, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: TypeParentReady, WidgetID: "wgt-a"},
	})
	if reason != DropUnexpectedType {
		t.Fatalf("expected unexpected_type, got %q", reason)
	}
	if len(effects) != 0 || !reflect.DeepEqual(next, inst) {
		t.Fatalf("echoed parent_ready must change nothing")
	}
}

func TestUnknownTypeDropped(t *testing.T) {
	inst := interactiveInstance(t)
	_, _, reason := Reduce(inst, Envelope{
		Origin:  hostOrigin,
		Message: Message{Type: Type("widget_exfiltrate"), WidgetID: "wgt-a"},
	})
	if reason != DropUnknownType {
		t.Fatalf("expected unknown_type, got %q", reason)
	}
}
