package scheduler

import (
	"context"
	"time"

	"pet-hotel-api/internal/domain/inventory"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler corre los jobs periódicos de inventario: reconciliación del
// balance cacheado contra el ledger y reporte de stock bajo.
type Scheduler struct {
	cron *cron.Cron
	inv  *inventory.Service
	log  *zap.Logger
}

func New(inv *inventory.Service, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		inv:  inv,
		log:  log,
	}
}

// Start registra el job con la expresión cron dada y arranca el loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runReconcile); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("cron", spec))
	return nil
}

// Stop frena el loop y espera a que termine el job en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	drifts, err := s.inv.Reconcile(ctx)
	if err != nil {
		s.log.Error("inventory reconcile failed", zap.Error(err))
		return
	}
	// Solo reporta: la corrección del balance es una decisión operativa.
	for _, d := range drifts {
		s.log.Error("stock drift detected",
			zap.String("product_id", d.ProductID),
			zap.String("product", d.ProductName),
			zap.Int("cached", d.Cached),
			zap.Int("ledger_sum", d.LedgerSum),
		)
	}

	alerts, err := s.inv.LowStockAlerts(ctx)
	if err != nil {
		s.log.Error("low stock scan failed", zap.Error(err))
		return
	}
	for _, a := range alerts {
		s.log.Warn("low stock",
			zap.String("product_id", a.Product.ID),
			zap.String("product", a.Product.Name),
			zap.Int("stock", a.Product.StockQuantity),
			zap.String("severity", string(a.Severity)),
		)
	}

	s.log.Info("inventory reconcile finished",
		zap.Int("drifts", len(drifts)),
		zap.Int("alerts", len(alerts)),
	)
}
