package payroll

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"nomina/internal/domain/audit"
)

type BatchError struct {
	EmployeeID string `json:"employeeId"`
	Error      string `json:"error"`
}

type BatchResult struct {
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Succeeded int          `json:"succeeded"`
	Errors    []BatchError `json:"errors"`
}

// Progress is a point-in-time snapshot a caller can render while a run is in
// flight. Completed only ever grows.
type Progress struct {
	Total             int          `json:"total"`
	Completed         int          `json:"completed"`
	CurrentEmployeeID string       `json:"currentEmployeeId,omitempty"`
	Errors            []BatchError `json:"errors,omitempty"`
}

// BulkProcessor runs the weekly calculation over many employees. One failure
// never aborts the batch; it lands in Errors and the run moves on. Workers <= 1
// processes employees sequentially in caller order, which also keeps the
// per-employee audit entries in that order. Larger values use a bounded pool.
type BulkProcessor struct {
	Service *Service
	Workers int
}

func NewBulkProcessor(svc *Service, workers int) *BulkProcessor {
	if workers < 1 {
		workers = 1
	}
	return &BulkProcessor{Service: svc, Workers: workers}
}

// Run processes employeeIDs for the given week. onProgress, when non-nil, is
// invoked after every employee. Cancellation is honored between employees; a
// canceled run returns the partial result together with ctx.Err().
func (p *BulkProcessor) Run(ctx context.Context, actor string, employeeIDs []string, week WeekRange, rates RateConfiguration, onProgress func(Progress)) (BatchResult, error) {
	result := BatchResult{Total: len(employeeIDs)}
	aggregate := decimal.Zero

	var runID string
	if p.Service.Runs != nil {
		id, err := p.Service.Runs.CreateBatchRun(ctx, actor)
		if err != nil {
			return result, err
		}
		runID = id
	}

	var runErr error
	if p.Workers <= 1 {
		aggregate, runErr = p.runSequential(ctx, actor, employeeIDs, week, rates, &result, onProgress)
	} else {
		aggregate, runErr = p.runPool(ctx, actor, employeeIDs, week, rates, &result, onProgress)
	}

	if runID != "" {
		status := "completed"
		if runErr != nil {
			status = "canceled"
		}
		if err := p.Service.Runs.FinishBatchRun(context.WithoutCancel(ctx), runID, status, result); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return result, runErr
	}

	// One summary entry for the whole batch, after the per-employee entries.
	if err := p.Service.Audit.Append(ctx, audit.Entry{
		Action:      audit.ActionBulkCalculate,
		EmployeeRef: fmt.Sprintf("%d employees", result.Total),
		Amount:      aggregate,
		User:        actor,
		Details:     fmt.Sprintf("succeeded=%d failed=%d", result.Succeeded, len(result.Errors)),
	}); err != nil {
		return result, fmt.Errorf("%w: %v", ErrUnaudited, err)
	}
	return result, nil
}

func (p *BulkProcessor) runSequential(ctx context.Context, actor string, employeeIDs []string, week WeekRange, rates RateConfiguration, result *BatchResult, onProgress func(Progress)) (decimal.Decimal, error) {
	aggregate := decimal.Zero
	for _, employeeID := range employeeIDs {
		select {
		case <-ctx.Done():
			return aggregate, ctx.Err()
		default:
		}

		record, err := p.Service.CalculateForEmployee(ctx, actor, employeeID, week, rates)
		result.Completed++
		if err != nil {
			result.Errors = append(result.Errors, BatchError{EmployeeID: employeeID, Error: err.Error()})
		} else {
			result.Succeeded++
			aggregate = aggregate.Add(record.NetPay)
		}

		if onProgress != nil {
			onProgress(Progress{
				Total:             result.Total,
				Completed:         result.Completed,
				CurrentEmployeeID: employeeID,
				Errors:            result.Errors,
			})
		}
	}
	return aggregate, nil
}

func (p *BulkProcessor) runPool(ctx context.Context, actor string, employeeIDs []string, week WeekRange, rates RateConfiguration, result *BatchResult, onProgress func(Progress)) (decimal.Decimal, error) {
	type outcome struct {
		employeeID string
		net        decimal.Decimal
		err        error
	}

	jobs := make(chan string)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for employeeID := range jobs {
				record, err := p.Service.CalculateForEmployee(ctx, actor, employeeID, week, rates)
				outcomes <- outcome{employeeID: employeeID, net: record.NetPay, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, employeeID := range employeeIDs {
			select {
			case <-ctx.Done():
				return
			case jobs <- employeeID:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	aggregate := decimal.Zero
	for out := range outcomes {
		result.Completed++
		if out.err != nil {
			result.Errors = append(result.Errors, BatchError{EmployeeID: out.employeeID, Error: out.err.Error()})
		} else {
			result.Succeeded++
			aggregate = aggregate.Add(out.net)
		}
		if onProgress != nil {
			onProgress(Progress{
				Total:             result.Total,
				Completed:         result.Completed,
				CurrentEmployeeID: out.employeeID,
				Errors:            result.Errors,
			})
		}
	}

	if result.Completed < result.Total {
		return aggregate, ctx.Err()
	}
	return aggregate, nil
}
