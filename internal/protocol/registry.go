package protocol

import "sync"

// Applier receives the effects produced by a transition together with
// the state that transition produced. In a browser adapter it touches
// the DOM; server side it feeds diagnostics.
type Applier func(Instance, []Effect)

type entry struct {
	instance Instance
	apply    Applier
}

// Registry is the page-scoped table of mounted widget instances, keyed
// by widgetId. One registry dispatches for every instance on the page,
// so there is a single listener to remove instead of one per widget,
// and unmounting removes state and handler together.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Mount inserts an instance. Mounting a widgetId that is already present
// is a no-op returning false, which is what makes the self-installing
// script safe to include twice on one page.
func (r *Registry) Mount(inst Instance, apply Applier) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[inst.WidgetID]; exists {
		return false
	}
	r.entries[inst.WidgetID] = &entry{instance: inst, apply: apply}
	setInstances(len(r.entries))
	return true
}

// Unmount removes the instance and its applier in one step. Unknown ids
// are ignored.
func (r *Registry) Unmount(widgetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[widgetID]; !exists {
		return
	}
	delete(r.entries, widgetID)
	setInstances(len(r.entries))
}

// Dispatch routes one envelope to the instance its widgetId names and
// applies the reducer. Messages for unknown widgetIds, and messages the
// reducer drops, are counted and otherwise ignored; nothing is ever
// reported back to the sender.
func (r *Registry) Dispatch(env Envelope) {
	r.mu.Lock()
	ent, exists := r.entries[env.Message.WidgetID]
	if !exists {
		r.mu.Unlock()
		countDrop(DropUnregistered)
		return
	}

	next, effects, reason := Reduce(ent.instance, env)
	if reason != DropNone {
		r.mu.Unlock()
		countDrop(reason)
		return
	}
	ent.instance = next
	apply := ent.apply
	r.mu.Unlock()

	countMessage(env.Message.Type)
	if apply != nil {
		apply(next, effects)
	}
}

// Advance runs a caller-provided transition (Attach, AnnounceReady)
// against the stored instance and applies its effects.
func (r *Registry) Advance(widgetID string, transition func(Instance) (Instance, []Effect)) bool {
	r.mu.Lock()
	ent, exists := r.entries[widgetID]
	if !exists {
		r.mu.Unlock()
		return false
	}
	next, effects := transition(ent.instance)
	ent.instance = next
	apply := ent.apply
	r.mu.Unlock()

	if apply != nil && len(effects) > 0 {
		apply(next, effects)
	}
	return true
}

// Snapshot returns a copy of the tracked state for one widgetId.
func (r *Registry) Snapshot(widgetID string) (Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent, exists := r.entries[widgetID]
	if !exists {
		return Instance{}, false
	}
	return ent.instance, true
}

// Len reports how many instances are mounted.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
