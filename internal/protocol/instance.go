package protocol

import "tablo-backend/utils"

// Phase is the lifecycle position of one widget instance.
type Phase string

const (
	PhaseCreated         Phase = "created"
	PhaseIframeAttached  Phase = "iframe_attached"
	PhaseParentReadySent Phase = "parent_ready_sent"
	PhaseInteractive     Phase = "interactive"
	PhaseErrored         Phase = "errored"
	PhaseClosed          Phase = "closed"
)

// Terminal reports whether no further transition can leave p.
func (p Phase) Terminal() bool {
	return p == PhaseErrored || p == PhaseClosed
}

// InstanceConfig describes one embed placement at mount time.
type InstanceConfig struct {
	WidgetID      string
	CorrelationID string
	// AllowedOrigin is the canonical origin messages must arrive from.
	// Empty means no origin was configured and the origin check is
	// skipped; the widgetId check always applies.
	AllowedOrigin string
	// WidgetOrigin is the origin of the widget iframe itself, used as
	// the targetOrigin when the parent posts into it.
	WidgetOrigin string
	// HostOrigin is the embedding page's own origin, carried for
	// diagnostics only.
	HostOrigin string
	Width      int
	Height     int
}

// Instance is the tracked state of one widget placement. Values are
// copied on every transition; the reducer never mutates its input.
type Instance struct {
	WidgetID      string
	CorrelationID string
	AllowedOrigin string
	WidgetOrigin  string
	HostOrigin    string

	Phase  Phase
	Width  int
	Height int
	Loaded bool
	Hidden bool

	LastError     string
	LastRequestID string
}

// NewInstance returns a fresh instance in the Created phase. A missing
// WidgetID or CorrelationID is minted, matching what the self-installing
// script does at mount time.
func NewInstance(cfg InstanceConfig) Instance {
	if cfg.WidgetID == "" {
		cfg.WidgetID = utils.NewWidgetID()
	}
	if cfg.CorrelationID == "" {
		cfg.CorrelationID = utils.NewCorrelationID()
	}
	return Instance{
		WidgetID:      cfg.WidgetID,
		CorrelationID: cfg.CorrelationID,
		AllowedOrigin: cfg.AllowedOrigin,
		WidgetOrigin:  cfg.WidgetOrigin,
		HostOrigin:    cfg.HostOrigin,
		Phase:         PhaseCreated,
		Width:         cfg.Width,
		Height:        cfg.Height,
	}
}

// Attach records that the iframe element exists and begins loading the
// widget URL. Calling it outside the Created phase is a no-op.
func (i Instance) Attach(widgetURL string) (Instance, []Effect) {
	if i.Phase != PhaseCreated {
		return i, nil
	}
	next := i
	next.Phase = PhaseIframeAttached
	return next, []Effect{SetIframeSrc{URL: widgetURL}}
}

// AnnounceReady posts parent_ready into the iframe per the given policy.
// The transition happens once the post is issued; no acknowledgment is
// awaited. Calling it before Attach or twice is a no-op.
func (i Instance) AnnounceReady(policy ReadyPolicy) (Instance, []Effect) {
	if i.Phase != PhaseIframeAttached {
		return i, nil
	}
	next := i
	next.Phase = PhaseParentReadySent
	announce := Message{
		Type:          TypeParentReady,
		WidgetID:      i.WidgetID,
		CorrelationID: i.CorrelationID,
	}
	return next, []Effect{PostParentReady{
		Message:      announce,
		TargetOrigin: i.WidgetOrigin,
		Policy:       policy,
	}}
}
