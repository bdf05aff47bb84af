package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/logger"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/report"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// Worker consumes background tasks. It runs in the same process as the
// HTTP server but independently of the request path; a failed task is
// retried by asynq's own policy.
type Worker struct {
	server *asynq.Server
	db     *gorm.DB
	cfg    *config.Config
}

func NewWorker(cfg *config.Config, db *gorm.DB) *Worker {
	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 5,
	})
	return &Worker{server: server, db: db, cfg: cfg}
}

// Start runs the worker loop on its own goroutine.
func (w *Worker) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeScanProcess, w.handleScanProcess)
	mux.HandleFunc(TypeReportGenerate, w.handleReportGenerate)

	go func() {
		if err := w.server.Run(mux); err != nil {
			logger.Sugar().Errorw("task worker stopped", "error", err)
		}
	}()
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleScanProcess re-reads the stock summary after a scan and logs a
// warning when the item has fallen to or below its threshold.
func (w *Worker) handleScanProcess(ctx context.Context, t *asynq.Task) error {
	var p ScanProcessPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("scan payload: %w", err)
	}

	var summary models.StockSummary
	err := w.db.WithContext(ctx).
		Preload("Material").
		Preload("Product").
		First(&summary, "barcode = ?", p.Barcode).Error
	if err != nil {
		return fmt.Errorf("summary for %s: %w", p.Barcode, err)
	}

	log := logger.Sugar()
	if summary.LowStock() {
		log.Warnw("low stock after scan",
			"barcode", p.Barcode,
			"currentStock", summary.CurrentStock,
			"minStock", summary.MinStock(),
			"transactionId", p.TransactionID,
		)
	} else {
		log.Infow("scan processed", "barcode", p.Barcode, "transactionId", p.TransactionID)
	}
	return nil
}

// handleReportGenerate pre-renders a report file to the report directory
// so a later download can be served from disk.
func (w *Worker) handleReportGenerate(ctx context.Context, t *asynq.Task) error {
	var p ReportGeneratePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("report payload: %w", err)
	}

	transactions, err := report.FetchTransactions(w.db.WithContext(ctx), p.StartDate, p.EndDate, "", 0)
	if err != nil {
		return fmt.Errorf("report data: %w", err)
	}

	name := fmt.Sprintf("inventory_report_%d", time.Now().Unix())
	var path string
	switch p.Kind {
	case "pdf":
		buf, err := report.BuildPDF(transactions, p.StartDate, p.EndDate)
		if err != nil {
			return err
		}
		path = filepath.Join(w.cfg.ReportDir, name+".pdf")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
	default:
		f, err := report.BuildExcel(transactions)
		if err != nil {
			return err
		}
		path = filepath.Join(w.cfg.ReportDir, name+".xlsx")
		if err := f.SaveAs(path); err != nil {
			return err
		}
	}

	logger.Sugar().Infow("report generated", "kind", p.Kind, "path", path, "rows", len(transactions))
	return nil
}
