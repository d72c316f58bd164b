package protocol

// DropReason says why an inbound message produced no transition. Drops
// are silent toward the host page; only internal counters see them.
type DropReason string

const (
	DropNone             DropReason = ""
	DropWidgetIDMismatch DropReason = "widget_id_mismatch"
	DropOriginMismatch   DropReason = "origin_mismatch"
	DropUnknownType      DropReason = "unknown_type"
	DropUnexpectedType   DropReason = "unexpected_type"
	DropPhase            DropReason = "phase"
	DropTerminal         DropReason = "terminal"
	DropInvalidPayload   DropReason = "invalid_payload"
	DropUnregistered     DropReason = "unregistered"
)

// Reduce applies one inbound message to an instance and returns the next
// state plus the effects the adapter should perform. When the message is
// dropped the returned instance is the input unchanged, effects are nil
// and the reason is non-empty.
//
// The guard runs before anything else: the message's widgetId must equal
// the instance's, and when an allowedOrigin is configured the envelope
// origin must equal it exactly. Nothing in the payload can override
// either check.
func Reduce(inst Instance, env Envelope) (Instance, []Effect, DropReason) {
	msg := env.Message

	if msg.WidgetID != inst.WidgetID {
		return inst, nil, DropWidgetIDMismatch
	}
	if inst.AllowedOrigin != "" && env.Origin != inst.AllowedOrigin {
		return inst, nil, DropOriginMismatch
	}
	if inst.Phase.Terminal() {
		return inst, nil, DropTerminal
	}

	switch msg.Type {
	case TypeWidgetLoaded:
		// The child may announce loaded before it has seen parent_ready,
		// so IframeAttached is accepted alongside ParentReadySent.
		if inst.Phase != PhaseIframeAttached && inst.Phase != PhaseParentReadySent {
			return inst, nil, DropPhase
		}
		next := inst
		next.Phase = PhaseInteractive
		next.Loaded = true
		return next, []Effect{MarkLoaded{}}, DropNone

	case TypeWidgetResize:
		if inst.Phase != PhaseInteractive {
			return inst, nil, DropPhase
		}
		if msg.Height <= 0 {
			return inst, nil, DropInvalidPayload
		}
		next := inst
		next.Height = msg.Height
		return next, []Effect{Resize{Height: msg.Height}}, DropNone

	case TypeWidgetConversion:
		if inst.Phase != PhaseInteractive {
			return inst, nil, DropPhase
		}
		return inst, []Effect{ForwardConversion{Value: msg.Value}}, DropNone

	case TypeWidgetError:
		next := inst
		next.Phase = PhaseErrored
		next.LastError = msg.Error
		next.LastRequestID = msg.RequestID
		return next, []Effect{RenderErrorPanel{
			Error:         msg.Error,
			RequestID:     msg.RequestID,
			CorrelationID: inst.CorrelationID,
		}}, DropNone

	case TypeWidgetClose:
		next := inst
		next.Phase = PhaseClosed
		next.Hidden = true
		return next, []Effect{Hide{}}, DropNone

	case TypeParentReady:
		// parent_ready travels parent -> child; an inbound copy is an
		// echo or a forgery and is never acted on.
		return inst, nil, DropUnexpectedType

	default:
		return inst, nil, DropUnknownType
	}
}
