package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/logging"
	"github.com/septivank/energy-insights/internal/metrics"
	"github.com/septivank/energy-insights/internal/mq"
	"github.com/septivank/energy-insights/internal/validator"
	"go.uber.org/zap"
)

const (
	ScanKindBill   = "bill"
	ScanKindDevice = "device"
)

// ScanMessage represents the incoming scan result from RabbitMQ
type ScanMessage struct {
	RequestID  string          `json:"request_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Kind       string          `json:"kind"`
	ImagePath  string          `json:"image_path"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`
}

// ScanProcessor stores vision-AI scan results and refreshes the user's insights
type ScanProcessor struct {
	store     ScanStore
	validator *validator.Validator
	insights  *InsightsService
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewScanProcessor creates a new scan processor
func NewScanProcessor(
	store ScanStore,
	v *validator.Validator,
	insightsService *InsightsService,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ScanProcessor {
	return &ScanProcessor{
		store:     store,
		validator: v,
		insights:  insightsService,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// ProcessMessage handles one scan message. Returned errors dead-letter it.
func (p *ScanProcessor) ProcessMessage(ctx context.Context, routingKey string, body []byte) error {
	var msg ScanMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		p.metrics.ScanProcessed("unknown", metrics.ScanRejected)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	reqLogger := logging.WithUserID(logging.WithRequestID(p.logger, msg.RequestID), msg.UserID)
	reqLogger.Info("processing scan",
		zap.String("kind", msg.Kind),
		zap.String("routing_key", routingKey),
	)

	if msg.UserID == uuid.Nil {
		p.metrics.ScanProcessed(msg.Kind, metrics.ScanRejected)
		return fmt.Errorf("%w: missing user_id", validator.ErrInvalidPayload)
	}

	var (
		recordID uuid.UUID
		outcome  string
		err      error
	)
	switch msg.Kind {
	case ScanKindBill:
		recordID, outcome, err = p.storeBill(ctx, msg, reqLogger)
	case ScanKindDevice:
		recordID, outcome, err = p.storeDeviceAnalysis(ctx, msg, reqLogger)
	default:
		p.metrics.ScanProcessed("unknown", metrics.ScanRejected)
		return fmt.Errorf("%w: unknown kind %q", validator.ErrInvalidPayload, msg.Kind)
	}
	p.metrics.ScanProcessed(msg.Kind, outcome)
	if err != nil {
		reqLogger.Error("failed to store scan", zap.Error(err))
		return err
	}

	// The record is committed from here on; later failures are logged only
	// so a redelivery cannot store it twice.
	stats, err := p.insights.Refresh(ctx, msg.UserID)
	if err != nil {
		reqLogger.Error("failed to refresh insights", zap.Error(err))
		return nil
	}

	event := mq.InsightsRefreshedEvent{
		UserID:       msg.UserID.String(),
		Kind:         msg.Kind,
		RecordID:     recordID.String(),
		TotalDevices: stats.Summary.TotalDevices,
		TotalBills:   stats.Summary.TotalBillsAnalyzed,
		GeneratedAt:  stats.GeneratedAt,
	}
	if stats.LatestBill != nil {
		event.LatestBillTotal = stats.LatestBill.TotalCost
	}

	if err := p.publisher.PublishInsightsRefreshed(ctx, event); err != nil {
		reqLogger.Error("failed to publish event", zap.Error(err), zap.String("record_id", event.RecordID))
	}

	reqLogger.Info("scan processed successfully",
		zap.String("kind", msg.Kind),
		zap.String("record_id", event.RecordID),
		zap.String("outcome", outcome),
	)
	return nil
}

func (p *ScanProcessor) storeBill(ctx context.Context, msg ScanMessage, logger *zap.Logger) (uuid.UUID, string, error) {
	scan, result := p.validator.ParseBillScan(msg.Payload)
	if !result.IsValid {
		return uuid.Nil, metrics.ScanRejected, fmt.Errorf("%w: %s", validator.ErrInvalidPayload, result.Reason)
	}

	outcome := metrics.ScanStored
	raw := rawPayload(msg.Payload)
	if result.Fallback {
		outcome = metrics.ScanFallback
		raw = marshalFallback(scan)
		logger.Warn("bill could not be read, storing fallback", zap.String("reason", result.Reason))
	}

	bill := p.validator.BillFromScan(msg.UserID, msg.ImagePath, scan, raw)
	if err := p.store.InsertBill(ctx, bill); err != nil {
		return uuid.Nil, metrics.ScanFailed, fmt.Errorf("failed to insert bill: %w", err)
	}
	return bill.ID, outcome, nil
}

func (p *ScanProcessor) storeDeviceAnalysis(ctx context.Context, msg ScanMessage, logger *zap.Logger) (uuid.UUID, string, error) {
	scan, result := p.validator.ParseDeviceScan(msg.Payload)

	outcome := metrics.ScanStored
	raw := rawPayload(msg.Payload)
	if result.Fallback {
		outcome = metrics.ScanFallback
		raw = marshalFallback(scan)
		logger.Warn("device could not be identified, storing fallback", zap.String("reason", result.Reason))
	}

	analysis := p.validator.DeviceAnalysisFromScan(msg.UserID, msg.ImagePath, scan, raw)
	if err := p.store.InsertDeviceAnalysis(ctx, analysis); err != nil {
		return uuid.Nil, metrics.ScanFailed, fmt.Errorf("failed to insert device analysis: %w", err)
	}
	return analysis.ID, outcome, nil
}

// rawPayload keeps the payload for the JSONB column only when it is valid JSON.
func rawPayload(payload json.RawMessage) []byte {
	if len(payload) == 0 || !json.Valid(payload) {
		return nil
	}
	return payload
}

func marshalFallback(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
