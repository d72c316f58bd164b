package protocol

// Effect is an instruction for the adapter that owns the real DOM
// elements (or, server side, the diagnostics sink). The reducer only
// ever describes work; it never performs it.
type Effect interface {
	effect()
}

// SetIframeSrc starts loading the widget URL in the instance's iframe.
type SetIframeSrc struct {
	URL string
}

// PostParentReady posts the parent_ready message into the iframe's
// content window, restricted to TargetOrigin. The policy says how many
// times to post and how far apart; the message is idempotent on the
// child side so reposting is safe.
type PostParentReady struct {
	Message      Message
	TargetOrigin string
	Policy       ReadyPolicy
}

// MarkLoaded toggles the container's loaded styling (fade-in class).
type MarkLoaded struct{}

// Resize sets the iframe and container height in pixels. Width is never
// touched by the protocol.
type Resize struct {
	Height int
}

// ForwardConversion hands a reported conversion value to the host
// page's analytics hook when one is present. No visual change.
type ForwardConversion struct {
	Value float64
}

// RenderErrorPanel logs the widget error and, where the embed format
// owns the container (script format), replaces its content with a
// visible error panel. Static iframe/react embeds receive the same
// effect but have no DOM hook to apply it with.
type RenderErrorPanel struct {
	Error         string
	RequestID     string
	CorrelationID string
}

// Hide removes the container from view.
type Hide struct{}

func (SetIframeSrc) effect()      {}
func (PostParentReady) effect()   {}
func (MarkLoaded) effect()        {}
func (Resize) effect()            {}
func (ForwardConversion) effect() {}
func (RenderErrorPanel) effect()  {}
func (Hide) effect()              {}
