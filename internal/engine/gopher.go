package engine

import (
	"context"
	"fmt"

	"GopherView/internal/logger"
	"GopherView/internal/renderer"

	mgl "github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Submitter receives the models that survived culling for a view. It is
// the draw submission side and may issue GPU commands.
type Submitter interface {
	Submit(pass string, view *renderer.View, model *renderer.Model)
}

// MainPass is the name of the camera pass.
const MainPass = "main"

type subPass struct {
	name string
	view *renderer.View
}

// PassStats counts culling results of one pass.
type PassStats struct {
	Name    string
	Tested  int
	Visible int
}

type FrameStats struct {
	Frame  int
	Passes []PassStats
}

// Gopher drives frames: it keeps the main view in sync with the camera,
// culls every pass and hands the visible models to a Submitter.
type Gopher struct {
	Camera *renderer.Camera
	Models []*renderer.Model
	Config renderer.CullingConfig

	culler    *renderer.Culler
	mainView  *renderer.View
	subPasses []*subPass
	frame     int
}

func NewGopher(config renderer.CullingConfig) (*Gopher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	conv, _ := config.Convention()

	if config.Development {
		logger.InitDevelopment()
	} else {
		logger.Init()
	}
	logger.Log.Info("Gopher initializing...",
		zap.Bool("frustumCulling", config.FrustumCullingEnabled),
		zap.Stringer("convention", conv),
		zap.Int("workers", config.Workers))

	camera := renderer.NewDefaultCamera(768, 1024)
	camera.SetConvention(conv)

	mainView, err := camera.NewView()
	if err != nil {
		return nil, fmt.Errorf("creating main view: %w", err)
	}

	return &Gopher{
		Camera:   camera,
		Config:   config,
		culler:   renderer.NewCuller(config.Workers, config.BatchSize),
		mainView: mainView,
	}, nil
}

// MainView returns the view following the camera. It is updated at the
// start of every RenderFrame.
func (gopher *Gopher) MainView() *renderer.View {
	return gopher.mainView
}

func (gopher *Gopher) AddModel(model *renderer.Model) {
	gopher.Models = append(gopher.Models, model)
}

func (gopher *Gopher) AddModelBatch(models []*renderer.Model) {
	gopher.Models = append(gopher.Models, models...)
}

func (gopher *Gopher) RemoveModel(model *renderer.Model) {
	for i, m := range gopher.Models {
		if m == model {
			gopher.Models = append(gopher.Models[:i], gopher.Models[i+1:]...)
			break
		}
	}
}

// AddSubPass adds a pass that draws with its own matrices but culls with
// the camera frustum, as shadow and reflection passes do to stay consistent
// with what the camera sees.
func (gopher *Gopher) AddSubPass(name string, viewMat, winMat mgl.Mat4) error {
	if name == MainPass || gopher.findSubPass(name) != nil {
		return fmt.Errorf("pass %q already exists", name)
	}
	view, err := renderer.NewSubView(gopher.mainView, viewMat, winMat)
	if err != nil {
		return fmt.Errorf("creating pass %q: %w", name, err)
	}
	gopher.subPasses = append(gopher.subPasses, &subPass{name: name, view: view})
	return nil
}

func (gopher *Gopher) UpdateSubPass(name string, viewMat, winMat mgl.Mat4) error {
	pass := gopher.findSubPass(name)
	if pass == nil {
		return fmt.Errorf("pass %q not found", name)
	}
	return pass.view.UpdateSub(viewMat, winMat)
}

func (gopher *Gopher) RemoveSubPass(name string) {
	for i, pass := range gopher.subPasses {
		if pass.name == name {
			pass.view.Free()
			gopher.subPasses = append(gopher.subPasses[:i], gopher.subPasses[i+1:]...)
			return
		}
	}
}

func (gopher *Gopher) findSubPass(name string) *subPass {
	for _, pass := range gopher.subPasses {
		if pass.name == name {
			return pass
		}
	}
	return nil
}

// RenderFrame culls the main pass and every sub-pass and submits the
// visible models. All view and model updates happen before the parallel
// culling starts.
func (gopher *Gopher) RenderFrame(ctx context.Context, submit Submitter) (FrameStats, error) {
	stats := FrameStats{Frame: gopher.frame}
	gopher.frame++

	if err := gopher.Camera.UpdateView(gopher.mainView); err != nil {
		return stats, fmt.Errorf("updating main view: %w", err)
	}
	for _, model := range gopher.Models {
		model.Refresh()
	}

	drawCtx := renderer.NewDrawContext(gopher.Config.RenderMode())
	if err := renderer.BeginDraw(drawCtx); err != nil {
		return stats, err
	}
	defer renderer.EndDraw()

	if drawCtx.Mode() == renderer.ModeImageRender {
		if err := drawCtx.SetDefault(gopher.mainView); err != nil {
			return stats, err
		}
	}

	passes := make([]subPass, 0, len(gopher.subPasses)+1)
	passes = append(passes, subPass{name: MainPass, view: gopher.mainView})
	for _, pass := range gopher.subPasses {
		passes = append(passes, *pass)
	}

	for _, pass := range passes {
		drawCtx.SetActive(pass.view)
		visible, err := gopher.cull(ctx, drawCtx)
		if err != nil {
			return stats, fmt.Errorf("culling pass %q: %w", pass.name, err)
		}
		for _, model := range visible {
			submit.Submit(pass.name, pass.view, model)
		}
		stats.Passes = append(stats.Passes, PassStats{
			Name:    pass.name,
			Tested:  len(gopher.Models),
			Visible: len(visible),
		})
	}

	logger.Log.Debug("Frame rendered",
		zap.Int("frame", stats.Frame),
		zap.Int("models", len(gopher.Models)),
		zap.Int("passes", len(stats.Passes)))
	return stats, nil
}

// cull tests the models against the active view of drawCtx.
func (gopher *Gopher) cull(ctx context.Context, drawCtx *renderer.DrawContext) ([]*renderer.Model, error) {
	view, err := drawCtx.Active()
	if err != nil {
		return nil, err
	}
	if !gopher.Config.FrustumCullingEnabled {
		return gopher.Models, nil
	}
	return gopher.culler.CullModels(ctx, view, gopher.Models)
}

func (gopher *Gopher) SetFrustumCulling(enabled bool) {
	gopher.Config.FrustumCullingEnabled = enabled
}

// Close stops the culling workers and frees every view.
func (gopher *Gopher) Close() {
	gopher.culler.Close()
	for _, pass := range gopher.subPasses {
		pass.view.Free()
	}
	gopher.subPasses = nil
	gopher.mainView.Free()
	logger.Sync()
}
