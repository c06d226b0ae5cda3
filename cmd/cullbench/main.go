package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"reflect"
	"syscall"
	"time"

	"GopherView/internal/engine"
	"GopherView/internal/logger"
	"GopherView/internal/renderer"

	"github.com/aquilax/go-perlin"
	"github.com/aukilabs/go-tooling/pkg/cli"
	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
	worldSize   = 2000.0
	terrainAmp  = 150.0
)

// Keeps the option names readable when the binary is obfuscated.
var _ = reflect.TypeOf(config{})

type config struct {
	Config      string `cli:""        env:"CULLBENCH_CONFIG"       help:"Path to a JSON culling config."`
	Models      int    `cli:""        env:"CULLBENCH_MODELS"       help:"Number of models to scatter."`
	Frames      int    `cli:""        env:"CULLBENCH_FRAMES"       help:"Number of frames to render."`
	Seed        int64  `cli:",hidden" env:"CULLBENCH_SEED"         help:"Scatter seed."`
	MetricsAddr string `cli:""        env:"CULLBENCH_METRICS_ADDR" help:"Serve Prometheus metrics on this address, e.g. :9100."`
	Help        bool   `cli:""        env:"-"                      help:"Show help."`
}

type countingSubmitter struct {
	submitted map[string]int
}

func (s *countingSubmitter) Submit(pass string, _ *renderer.View, _ *renderer.Model) {
	s.submitted[pass]++
}

func newConfig() config {
	return config{
		Models: 20000,
		Frames: 120,
		Seed:   42,
	}
}

func main() {
	conf := newConfig()

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Culls a scattered scene from an orbiting camera and a shadow pass.").
		Options(&conf)
	cli.Load()
	logger.Init()

	if conf.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(conf.MetricsAddr, mux); err != nil {
				logger.Log.Error("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	if err := run(ctx, conf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, conf config) error {
	cullingConfig := renderer.DefaultCullingConfig()
	if conf.Config != "" {
		var err error
		cullingConfig, err = renderer.LoadCullingConfig(conf.Config)
		if err != nil {
			return err
		}
	}

	gopher, err := engine.NewGopher(cullingConfig)
	if err != nil {
		return err
	}
	defer gopher.Close()

	gopher.AddModelBatch(scatterModels(conf.Models, conf.Seed))
	setupCamera(gopher.Camera)

	// Shadow pass: a light looking straight down, culled with the camera so
	// only shadows of visible objects are drawn.
	lightView := mgl.LookAtV(mgl.Vec3{0, 1000, 0}, mgl.Vec3{0, 0, 0}, mgl.Vec3{0, 0, -1})
	lightProj := mgl.Ortho(-worldSize/2, worldSize/2, -worldSize/2, worldSize/2, 1, 2000)
	if err := gopher.AddSubPass("shadow", lightView, lightProj); err != nil {
		return fmt.Errorf("adding shadow pass: %w", err)
	}

	submitter := &countingSubmitter{submitted: make(map[string]int)}
	start := time.Now()
	for frame := 0; frame < conf.Frames; frame++ {
		gopher.Camera.Rotate(360.0/float32(conf.Frames), 0)
		stats, err := gopher.RenderFrame(ctx, submitter)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		for _, pass := range stats.Passes {
			logger.Log.Debug("Pass culled",
				zap.Int("frame", stats.Frame),
				zap.String("pass", pass.Name),
				zap.Int("tested", pass.Tested),
				zap.Int("visible", pass.Visible))
		}
	}

	elapsed := time.Since(start)
	logger.Log.Info("Culling bench finished",
		zap.Int("frames", conf.Frames),
		zap.Int("models", conf.Models),
		zap.Duration("elapsed", elapsed),
		zap.Duration("perFrame", elapsed/time.Duration(max(conf.Frames, 1))),
		zap.Int("mainSubmitted", submitter.submitted[engine.MainPass]),
		zap.Int("shadowSubmitted", submitter.submitted["shadow"]))
	return nil
}

// scatterModels places unit-ish boxes on a perlin heightfield.
func scatterModels(count int, seed int64) []*renderer.Model {
	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed)
	side := int(math.Ceil(math.Sqrt(float64(count))))
	spacing := worldSize / float64(side)

	models := make([]*renderer.Model, 0, count)
	for i := 0; i < count; i++ {
		gx, gz := i%side, i/side
		x := float64(gx)*spacing - worldSize/2
		z := float64(gz)*spacing - worldSize/2
		y := noise.Noise2D(x/worldSize*4, z/worldSize*4) * terrainAmp

		size := float32(1 + 2*math.Abs(noise.Noise2D(z/50, x/50)))
		model := renderer.CreateBoxModel(fmt.Sprintf("box-%d", i),
			mgl.Vec3{-size, -size, -size}, mgl.Vec3{size, size, size})
		model.Id = i
		model.SetPosition(float32(x), float32(y), float32(z))
		models = append(models, model)
	}
	return models
}

func setupCamera(camera *renderer.Camera) {
	camera.Position = mgl.Vec3{0, 200, 0}
	camera.SetFar(1500)
	camera.LookAt(mgl.Vec3{500, 0, 0})
}
