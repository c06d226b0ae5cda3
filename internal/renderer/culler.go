package renderer

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
)

// Culler tests models against a view on a worker pool. Views and model
// bounds must be final before CullModels is called; the workers only read
// them.
type Culler struct {
	pool      pond.Pool
	batchSize int
}

func NewCuller(workers, batchSize int) *Culler {
	if workers < 1 {
		workers = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &Culler{
		pool:      pond.NewPool(workers),
		batchSize: batchSize,
	}
}

// CullModels returns the models that may be visible from v, in input
// order. Cancelling ctx stops batches that have not started yet.
func (c *Culler) CullModels(ctx context.Context, v *View, models []*Model) ([]*Model, error) {
	if len(models) == 0 {
		return nil, ctx.Err()
	}

	visible := make([]bool, len(models))
	group := c.pool.NewGroupContext(ctx)
	for lo := 0; lo < len(models); lo += c.batchSize {
		hi := min(lo+c.batchSize, len(models))
		group.Submit(func() {
			start := time.Now()
			for i := lo; i < hi; i++ {
				visible[i] = models[i].Cull(v)
			}
			observeBatchLatency(v, start)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*Model, 0, len(models))
	for i, ok := range visible {
		if ok {
			out = append(out, models[i])
		}
	}
	countCulled(v, len(models), len(models)-len(out))
	return out, nil
}

// Close waits for running batches and stops the workers.
func (c *Culler) Close() {
	c.pool.StopAndWait()
}
