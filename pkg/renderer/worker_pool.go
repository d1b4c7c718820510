package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/output"
)

// WorkerPool renders an image with a fixed set of goroutines.
// Rows are striped across workers: worker k owns rows k, k+N, k+2N, ...
// No two workers write the same pixel, so the image needs no lock.
type WorkerPool struct {
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
}

// Worker renders the rows it owns with its own sampler
type Worker struct {
	ID        int
	raytracer *RayTracer
	image     *output.Image
	sampler   core.Sampler
	rows      []int
	stats     RenderStats
}

// NewWorkerPool creates a pool for img. Zero workers means runtime.NumCPU();
// the count is capped at the number of rows.
func NewWorkerPool(rt *RayTracer, img *output.Image, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > img.Height() {
		numWorkers = img.Height()
	}

	wp := &WorkerPool{numWorkers: numWorkers}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			raytracer: rt,
			image:     img,
			sampler:   core.NewSeededSampler(core.DeriveSeed(rt.config.Seed, i)),
			rows:      StripeRows(i, numWorkers, img.Height()),
		})
	}
	return wp
}

// StripeRows returns the rows owned by worker in a pool of numWorkers
func StripeRows(worker, numWorkers, totalRows int) []int {
	var rows []int
	for row := worker; row < totalRows; row += numWorkers {
		rows = append(rows, row)
	}
	return rows
}

// Start launches all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Wait blocks until every worker is done and returns their merged stats
func (wp *WorkerPool) Wait() RenderStats {
	wp.wg.Wait()

	stats := RenderStats{Workers: wp.numWorkers}
	for _, worker := range wp.workers {
		stats.Merge(worker.stats)
	}
	return stats
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run renders every owned row, left to right
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	width, height := w.image.Width(), w.image.Height()
	for _, row := range w.rows {
		for col := 0; col < width; col++ {
			c := w.raytracer.renderPixel(col, row, width, height, w.sampler, &w.stats)
			w.image.SetPixel(col, row, c)
		}
		if w.raytracer.config.OnRowComplete != nil {
			w.raytracer.config.OnRowComplete(row)
		}
	}
}
