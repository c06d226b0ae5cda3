package renderer

import (
	"sync/atomic"

	"GopherView/internal/logger"

	"go.uber.org/zap"
)

type RenderMode int

const (
	// ModeViewport is interactive viewport drawing.
	ModeViewport RenderMode = iota
	// ModeImageRender is final image rendering, the only mode with a
	// default view.
	ModeImageRender
)

func (m RenderMode) String() string {
	if m == ModeImageRender {
		return "image"
	}
	return "viewport"
}

// DrawContext carries the active and default view through one render
// invocation. It holds plain pointers and owns none of the views.
type DrawContext struct {
	mode        RenderMode
	active      *View
	defaultView *View
}

func NewDrawContext(mode RenderMode) *DrawContext {
	return &DrawContext{mode: mode}
}

func (c *DrawContext) Mode() RenderMode {
	return c.mode
}

// SetActive makes v the view used by draw submission. The caller keeps
// ownership of v.
func (c *DrawContext) SetActive(v *View) {
	c.active = v
}

// Active returns the active view. During image render the default view
// stands in when no view was activated.
func (c *DrawContext) Active() (*View, error) {
	if c.active != nil {
		return c.active, nil
	}
	if c.mode == ModeImageRender && c.defaultView != nil {
		return c.defaultView, nil
	}
	return nil, ErrNoActiveView
}

// SetDefault sets the default view. It may be called once per render and
// only in image render mode; use Reset before setting it again.
func (c *DrawContext) SetDefault(v *View) error {
	if c.mode != ModeImageRender {
		logger.Log.Warn("Default view set outside image render", zap.Stringer("mode", c.mode))
		return ErrNotImageRender
	}
	if c.defaultView != nil {
		logger.Log.Warn("Default view set twice in one render")
		return ErrDefaultViewSet
	}
	c.defaultView = v
	return nil
}

func (c *DrawContext) Default() *View {
	return c.defaultView
}

// Reset clears both the active and the default view.
func (c *DrawContext) Reset() {
	c.active = nil
	c.defaultView = nil
}

// Resolve returns v, or the default view when v is nil.
func (c *DrawContext) Resolve(v *View) *View {
	if v != nil {
		return v
	}
	return c.defaultView
}

// current is bound between BeginDraw and EndDraw for code that cannot get
// the context passed down.
var current atomic.Pointer[DrawContext]

// BeginDraw binds ctx as the process-wide draw context until EndDraw.
func BeginDraw(ctx *DrawContext) error {
	if !current.CompareAndSwap(nil, ctx) {
		return ErrDrawInProgress
	}
	return nil
}

func EndDraw() {
	current.Store(nil)
}

func CurrentDrawContext() (*DrawContext, error) {
	if ctx := current.Load(); ctx != nil {
		return ctx, nil
	}
	return nil, ErrNoDrawContext
}
