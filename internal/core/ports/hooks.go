package ports

import "context"

// HookEvent is a host lifecycle signal.
type HookEvent uint8

const (
	// HookLoadPost fires after a scene document has been loaded.
	HookLoadPost HookEvent = iota
	// HookRenderPre fires before a render starts.
	HookRenderPre
	// HookRenderPost fires after a render completed.
	HookRenderPost
	// HookRenderCancel fires when a render was cancelled.
	HookRenderCancel
)

// String returns the host-style handler list name.
func (e HookEvent) String() string {
	switch e {
	case HookLoadPost:
		return "load_post"
	case HookRenderPre:
		return "render_pre"
	case HookRenderPost:
		return "render_post"
	case HookRenderCancel:
		return "render_cancel"
	default:
		return "unknown"
	}
}

// HookFunc handles a lifecycle signal. Handlers carry no payload beyond the trigger.
type HookFunc func(ctx context.Context)

// Hooks lets the core subscribe to host lifecycle signals.
type Hooks interface {
	// Subscribe registers fn for event and returns a function that removes it.
	Subscribe(event HookEvent, fn HookFunc) (unsubscribe func())
}
