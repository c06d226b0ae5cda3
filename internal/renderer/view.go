package renderer

import (
	"fmt"
	"math"

	"GopherView/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// MaxClipPlanes is the number of user clip planes a view accepts.
const MaxClipPlanes = 6

// CullingMatrices replaces the render matrices of a view for culling only.
type CullingMatrices struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

type viewMatrices struct {
	viewMat, viewInv mgl32.Mat4
	winMat, winInv   mgl32.Mat4
	persMat, persInv mgl32.Mat4
}

// View is a camera setup used for drawing and culling.
//
// A view either owns its culling frustum or, when created with NewSubView,
// culls with the frustum of the root view it was derived from. That link
// is non-owning: the root must stay alive and must not be updated while
// sub-views are queried concurrently. Update and queries are not
// synchronized; finish all updates before culling from several goroutines.
type View struct {
	mats       viewMatrices
	convention ClipConvention

	// cullOwner is nil when the view owns frustum.
	cullOwner *View
	frustum   Frustum

	clipPlanes []Plane
	freed      bool
}

// NewView creates a view with the OpenGL clip convention. When culling is
// nil the frustum is derived from viewMat and winMat.
func NewView(viewMat, winMat mgl32.Mat4, culling *CullingMatrices) (*View, error) {
	return NewViewWithConvention(ClipNegOneToOne, viewMat, winMat, culling)
}

func NewViewWithConvention(conv ClipConvention, viewMat, winMat mgl32.Mat4, culling *CullingMatrices) (*View, error) {
	v := &View{convention: conv}
	if err := v.set(viewMat, winMat, culling); err != nil {
		logger.Log.Debug("View creation failed", zap.Error(err), zap.Stringer("convention", conv))
		return nil, err
	}
	return v, nil
}

// NewSubView creates a view drawing with its own matrices and culling with
// the frustum of parent. Sub-views of sub-views resolve to the root owner.
func NewSubView(parent *View, viewMat, winMat mgl32.Mat4) (*View, error) {
	if parent == nil || parent.freed {
		return nil, ErrDanglingParent
	}
	owner := parent
	if parent.cullOwner != nil {
		owner = parent.cullOwner
	}
	if owner.freed {
		return nil, ErrDanglingParent
	}

	mats, err := computeMatrices(viewMat, winMat)
	if err != nil {
		logger.Log.Debug("Sub-view creation failed", zap.Error(err))
		return nil, err
	}
	return &View{
		mats:       mats,
		convention: owner.convention,
		cullOwner:  owner,
	}, nil
}

// Update replaces the matrices of a view created with NewView and
// recomputes its frustum. On error the view keeps its previous state.
func (v *View) Update(viewMat, winMat mgl32.Mat4, culling *CullingMatrices) error {
	if v.cullOwner != nil {
		return ErrSubViewUpdate
	}
	if err := v.set(viewMat, winMat, culling); err != nil {
		logger.Log.Debug("View update failed", zap.Error(err))
		return err
	}
	return nil
}

// UpdateSub replaces the render matrices of a sub-view. The culling frustum
// it shares with its owner is left alone.
func (v *View) UpdateSub(viewMat, winMat mgl32.Mat4) error {
	if v.cullOwner == nil {
		return ErrNotSubView
	}
	mats, err := computeMatrices(viewMat, winMat)
	if err != nil {
		logger.Log.Debug("Sub-view update failed", zap.Error(err))
		return err
	}
	v.mats = mats
	return nil
}

func (v *View) set(viewMat, winMat mgl32.Mat4, culling *CullingMatrices) error {
	mats, err := computeMatrices(viewMat, winMat)
	if err != nil {
		return err
	}
	cullView, cullWin := viewMat, winMat
	if culling != nil {
		cullView, cullWin = culling.View, culling.Projection
	}
	f, err := DeriveFrustum(cullView, cullWin, v.convention)
	if err != nil {
		return fmt.Errorf("culling matrices: %w", err)
	}
	v.mats = mats
	v.frustum = f
	return nil
}

func computeMatrices(viewMat, winMat mgl32.Mat4) (viewMatrices, error) {
	view64, win64 := mat32To64(viewMat), mat32To64(winMat)
	viewInv, ok := invert(view64)
	if !ok {
		return viewMatrices{}, fmt.Errorf("view matrix: %w", ErrInvalidProjection)
	}
	winInv, ok := invert(win64)
	if !ok {
		return viewMatrices{}, fmt.Errorf("projection matrix: %w", ErrInvalidProjection)
	}
	pers64 := win64.Mul4(view64)
	persInv, ok := invert(pers64)
	if !ok {
		return viewMatrices{}, fmt.Errorf("view projection matrix: %w", ErrInvalidProjection)
	}
	return viewMatrices{
		viewMat: viewMat,
		viewInv: mat64To32(viewInv),
		winMat:  winMat,
		winInv:  mat64To32(winInv),
		persMat: mat64To32(pers64),
		persInv: mat64To32(persInv),
	}, nil
}

// cullingSource returns the view holding the culling data, or nil if that
// view was freed.
func (v *View) cullingSource() *View {
	src := v
	if v.cullOwner != nil {
		src = v.cullOwner
	}
	if v.freed || src.freed {
		logger.Log.DPanic("View queried after its culling data was freed",
			zap.Error(ErrDanglingParent),
			zap.Bool("subView", v.cullOwner != nil))
		return nil
	}
	return src
}

// Free marks the view as destroyed. Any later query on it or on a sub-view
// culling with it is a lifetime bug.
func (v *View) Free() {
	v.freed = true
	v.frustum = Frustum{}
	v.clipPlanes = nil
}

func (v *View) IsSubView() bool {
	return v.cullOwner != nil
}

// Parent returns the view owning the culling data of a sub-view, nil for
// owning views.
func (v *View) Parent() *View {
	return v.cullOwner
}

func (v *View) Convention() ClipConvention {
	return v.convention
}

func (v *View) ViewMatrix(inverse bool) mgl32.Mat4 {
	if inverse {
		return v.mats.viewInv
	}
	return v.mats.viewMat
}

func (v *View) ProjectionMatrix(inverse bool) mgl32.Mat4 {
	if inverse {
		return v.mats.winInv
	}
	return v.mats.winMat
}

// PerspMatrix returns projection * view.
func (v *View) PerspMatrix(inverse bool) mgl32.Mat4 {
	if inverse {
		return v.mats.persInv
	}
	return v.mats.persMat
}

// CullingFrustum returns the frustum objects are culled against.
func (v *View) CullingFrustum() Frustum {
	if src := v.cullingSource(); src != nil {
		return src.frustum
	}
	return Frustum{}
}

func (v *View) FrustumPlanes() [6]Plane {
	return v.CullingFrustum().Planes
}

func (v *View) FrustumCorners() BoundBox {
	return v.CullingFrustum().Corners
}

func (v *View) BoundSphere() BoundSphere {
	return v.CullingFrustum().Sphere
}

// ViewFrustum derives the frustum of the view's own matrices. For a
// sub-view or a view with culling matrices this differs from
// CullingFrustum.
func (v *View) ViewFrustum() (Frustum, error) {
	return DeriveFrustum(v.mats.viewMat, v.mats.winMat, v.convention)
}

func (v *View) IsPerspective() bool {
	return v.mats.winMat.At(3, 3) == 0
}

// NearDistance returns the view space z of the near plane. A camera looking
// down -Z with a positive clip start reports a negative value.
func (v *View) NearDistance() float32 {
	return v.depthToViewZ(v.convention.nearDepth())
}

// FarDistance returns the view space z of the far plane, -Inf for an
// infinite perspective projection.
func (v *View) FarDistance() float32 {
	return v.depthToViewZ(1)
}

// depthToViewZ solves the projection for the view space z landing on NDC
// depth d.
func (v *View) depthToViewZ(d float64) float32 {
	m := v.mats.winMat
	a, b := float64(m.At(2, 2)), float64(m.At(2, 3))
	if v.IsPerspective() {
		c := float64(m.At(3, 2))
		denom := a - d*c
		if denom == 0 {
			near := -b / (a - v.convention.nearDepth()*c)
			return float32(math.Copysign(math.Inf(1), near))
		}
		return float32(-b / denom)
	}
	return float32((d*float64(m.At(3, 3)) - b) / a)
}

// SetClipPlanes installs world space user clip planes composed with the
// frustum by SphereTest and BoxTest. An empty slice clears them.
func (v *View) SetClipPlanes(planes []mgl32.Vec4) error {
	if len(planes) > MaxClipPlanes {
		return fmt.Errorf("%w: %d > %d", ErrTooManyClipPlanes, len(planes), MaxClipPlanes)
	}
	v.clipPlanes = v.clipPlanes[:0]
	for _, p := range planes {
		v.clipPlanes = append(v.clipPlanes, PlaneFromVec4(p))
	}
	return nil
}

func (v *View) ClipPlanes() []Plane {
	out := make([]Plane, len(v.clipPlanes))
	copy(out, v.clipPlanes)
	return out
}
