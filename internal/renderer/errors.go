package renderer

import "errors"

var (
	// ErrInvalidProjection is returned when the view or projection matrix
	// cannot be inverted.
	ErrInvalidProjection = errors.New("renderer: non-invertible view or projection matrix")
	// ErrDanglingParent is returned when a sub-view is created from a nil or
	// freed view.
	ErrDanglingParent     = errors.New("renderer: culling parent is nil or freed")
	ErrSubViewUpdate      = errors.New("renderer: Update called on a sub-view, use UpdateSub")
	ErrNotSubView         = errors.New("renderer: UpdateSub called on a view that owns its culling data")
	ErrTooManyClipPlanes  = errors.New("renderer: too many clip planes")
	ErrNoActiveView       = errors.New("renderer: no active view")
	ErrDefaultViewSet     = errors.New("renderer: default view already set for this render")
	ErrNotImageRender     = errors.New("renderer: default view can only be set during image render")
	ErrDrawInProgress     = errors.New("renderer: a draw context is already bound")
	ErrNoDrawContext      = errors.New("renderer: no draw context bound")
	ErrInvalidCullingConf = errors.New("renderer: invalid culling config")
)
