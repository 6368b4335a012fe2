package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests     uint64
	errorRequests     uint64
	calculationsTotal uint64
	calculationErrors uint64
	batchRunsTotal    uint64
	totalDurationMs   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordCalculation(err error) {
	atomic.AddUint64(&c.calculationsTotal, 1)
	if err != nil {
		atomic.AddUint64(&c.calculationErrors, 1)
	}
}

func (c *Collector) RecordBatchRun() {
	atomic.AddUint64(&c.batchRunsTotal, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	calcs := atomic.LoadUint64(&c.calculationsTotal)
	calcErrs := atomic.LoadUint64(&c.calculationErrors)
	batches := atomic.LoadUint64(&c.batchRunsTotal)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":     total,
		"errorsTotal":       errs,
		"calculationsTotal": calcs,
		"calculationErrors": calcErrs,
		"batchRunsTotal":    batches,
		"avgDurationMs":     avg,
		"totalDurationMs":   totalMs,
	}
}
