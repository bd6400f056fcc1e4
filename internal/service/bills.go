package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/insights"
)

// BillService serves the stored bills of a user
type BillService struct {
	bills   BillStore
	devices DeviceStore
}

// NewBillService creates a new bill service
func NewBillService(bills BillStore, devices DeviceStore) *BillService {
	return &BillService{bills: bills, devices: devices}
}

// List returns bill summaries, newest first
func (s *BillService) List(ctx context.Context, userID uuid.UUID) ([]insights.BillSummary, error) {
	bills, err := s.bills.ListBills(ctx, userID)
	if err != nil {
		return nil, err
	}
	return insights.BillSummaries(bills), nil
}

// Get returns one stored bill
func (s *BillService) Get(ctx context.Context, userID, billID uuid.UUID) (*db.Bill, error) {
	return s.bills.GetBill(ctx, userID, billID)
}

// Breakdown correlates one bill with the user's active devices
func (s *BillService) Breakdown(ctx context.Context, userID, billID uuid.UUID) (insights.BillBreakdown, error) {
	bill, err := s.bills.GetBill(ctx, userID, billID)
	if err != nil {
		return insights.BillBreakdown{}, err
	}

	devices, err := s.devices.ListActiveDevices(ctx, userID)
	if err != nil {
		return insights.BillBreakdown{}, fmt.Errorf("failed to load devices: %w", err)
	}

	return insights.BillBreakdownFor(*bill, devices), nil
}
