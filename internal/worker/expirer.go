package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// CommerceFacade exposes the subset of application functionality required by
// the worker.
type CommerceFacade interface {
	ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error)
	ExpireOrder(ctx context.Context, order model.Order) error
}

// ReservationExpirer sweeps online-payment orders whose payment deadline has
// passed, cancelling them and returning their stock holds. This is the
// reconciliation path for payments that were started but never confirmed.
type ReservationExpirer struct {
	facade       CommerceFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReservationExpirer constructs the expiry worker pool.
func NewReservationExpirer(facade CommerceFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *ReservationExpirer {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &ReservationExpirer{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (p *ReservationExpirer) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *ReservationExpirer) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *ReservationExpirer) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *ReservationExpirer) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.ExpiredOrders(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch expired orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *ReservationExpirer) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.facade.ExpireOrder(ctx, order); err != nil {
				p.logger.Error("expire order failed", slog.String("order", order.ID), slog.String("error", err.Error()))
			}
		}
	}
}
