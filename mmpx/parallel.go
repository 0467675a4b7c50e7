package mmpx

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// DefaultBandRows is the number of source rows one pool task upscales.
const DefaultBandRows = 16

// Scaler runs Upscale2x over bands of rows on a worker pool. Bands write
// disjoint output rows, so a Scaler can serve concurrent calls.
type Scaler struct {
	pool     worker.DynamicWorkerPool
	bandRows int
	nextID   atomic.Int64
}

// NewScaler starts a pool of workers goroutines; zero means one per CPU.
func NewScaler(workers, bandRows int) *Scaler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if bandRows <= 0 {
		bandRows = DefaultBandRows
	}
	return &Scaler{
		pool:     worker.NewDynamicWorkerPool(workers, 256, time.Second),
		bandRows: bandRows,
	}
}

func (s *Scaler) Upscale2x(src *Image) (*Image, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	dst := NewImage(src.Width*2, src.Height*2, src.Format)

	var wg sync.WaitGroup
	for y0 := 0; y0 < src.Height; y0 += s.bandRows {
		y1 := min(y0+s.bandRows, src.Height)
		wg.Add(1)
		s.pool.SubmitTask(worker.Task{
			ID:      int(s.nextID.Add(1)),
			Payload: [2]int{y0, y1},
			Do: func() (any, error) {
				defer wg.Done()
				upscaleRows(src, dst, y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return dst, nil
}

// Close stops the pool's workers.
func (s *Scaler) Close() {
	s.pool.Stop()
}
