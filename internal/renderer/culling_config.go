package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// CullingConfig configures view culling for one engine instance.
type CullingConfig struct {
	FrustumCullingEnabled bool   `json:"frustumCullingEnabled"`
	ClipConvention        string `json:"clipConvention"` // "opengl" or "vulkan"
	Workers               int    `json:"workers"`        // Culling goroutines
	BatchSize             int    `json:"batchSize"`      // Models per culling task
	ImageRender           bool   `json:"imageRender"`    // Final render instead of viewport
	Development           bool   `json:"development"`    // Development logger, DPanic panics
}

// DefaultCullingConfig returns sensible defaults: culling on, one worker per
// CPU.
func DefaultCullingConfig() CullingConfig {
	return CullingConfig{
		FrustumCullingEnabled: true,
		ClipConvention:        ClipNegOneToOne.String(),
		Workers:               runtime.NumCPU(),
		BatchSize:             256,
		ImageRender:           false,
		Development:           false,
	}
}

// SingleThreadedCullingConfig culls on one worker, for debugging and small
// scenes.
func SingleThreadedCullingConfig() CullingConfig {
	config := DefaultCullingConfig()
	config.Workers = 1
	config.BatchSize = 1024
	return config
}

// LoadCullingConfig reads a JSON config. Fields missing from the file keep
// their default value.
func LoadCullingConfig(path string) (CullingConfig, error) {
	config := DefaultCullingConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading culling config: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing culling config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c CullingConfig) Validate() error {
	if _, err := c.Convention(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidCullingConf, c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batchSize must be positive, got %d", ErrInvalidCullingConf, c.BatchSize)
	}
	return nil
}

// Convention parses ClipConvention. An empty value means OpenGL.
func (c CullingConfig) Convention() (ClipConvention, error) {
	switch c.ClipConvention {
	case "", ClipNegOneToOne.String():
		return ClipNegOneToOne, nil
	case ClipZeroToOne.String():
		return ClipZeroToOne, nil
	}
	return ClipNegOneToOne, fmt.Errorf("%w: unknown clip convention %q", ErrInvalidCullingConf, c.ClipConvention)
}

func (c CullingConfig) RenderMode() RenderMode {
	if c.ImageRender {
		return ModeImageRender
	}
	return ModeViewport
}
