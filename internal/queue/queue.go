package queue

import (
	"encoding/json"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/logger"
	"warehouse-backend/internal/models"

	"github.com/hibiken/asynq"
)

// Task types handled by the background workers.
const (
	TypeScanProcess    = "scan:process"
	TypeReportGenerate = "report:generate"
)

type ScanProcessPayload struct {
	TransactionID uint   `json:"transactionId"`
	Barcode       string `json:"barcode"`
	Type          string `json:"type"`
}

type ReportGeneratePayload struct {
	Kind      string `json:"kind"` // excel | pdf
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB}
}

// Client enqueues background tasks. Enqueueing is never on the critical
// path: failures are logged and dropped, the HTTP response does not wait.
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{inner: asynq.NewClient(redisOpt(cfg))}
}

func (c *Client) Close() error {
	return c.inner.Close()
}

func (c *Client) enqueue(taskType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar().Warnw("task payload marshal failed", "type", taskType, "error", err)
		return
	}
	if _, err := c.inner.Enqueue(asynq.NewTask(taskType, raw)); err != nil {
		logger.Sugar().Warnw("task enqueue failed", "type", taskType, "error", err)
	}
}

// EnqueueScanProcess implements inventory.TaskEnqueuer.
func (c *Client) EnqueueScanProcess(transactionID uint, barcode string, txType models.TransactionType) {
	c.enqueue(TypeScanProcess, ScanProcessPayload{
		TransactionID: transactionID,
		Barcode:       barcode,
		Type:          string(txType),
	})
}

func (c *Client) EnqueueReportGenerate(kind, startDate, endDate string) {
	c.enqueue(TypeReportGenerate, ReportGeneratePayload{
		Kind:      kind,
		StartDate: startDate,
		EndDate:   endDate,
	})
}
