package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/septivank/energy-insights/internal/db"
)

const billColumns = `
	id, user_id, image_path, period_label, period_start,
	total_kwh, day_kwh, night_kwh, peak_day_kwh, peak_night_kwh,
	day_price, night_price, peak_day_price, peak_night_price,
	day_amount, night_amount, peak_day_amount, peak_night_amount,
	fixed_charge, net_total, tax, bill_total, debt,
	breakdown, device_estimates, insights, raw_response, created_at`

func scanBill(row pgx.Row) (*db.Bill, error) {
	var b db.Bill
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ImagePath,
		&b.PeriodLabel,
		&b.PeriodStart,
		&b.TotalKWh,
		&b.DayKWh,
		&b.NightKWh,
		&b.PeakDayKWh,
		&b.PeakNightKWh,
		&b.DayPrice,
		&b.NightPrice,
		&b.PeakDayPrice,
		&b.PeakNightPrice,
		&b.DayAmount,
		&b.NightAmount,
		&b.PeakDayAmount,
		&b.PeakNightAmount,
		&b.FixedCharge,
		&b.NetTotal,
		&b.Tax,
		&b.BillTotal,
		&b.Debt,
		&b.Breakdown,
		&b.DeviceEstimates,
		&b.Insights,
		&b.RawResponse,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// InsertBill inserts a bill and fills its generated fields
func (r *Repository) InsertBill(ctx context.Context, bill *db.Bill) error {
	query := `
		INSERT INTO bill_analyses (
			user_id, image_path, period_label, period_start,
			total_kwh, day_kwh, night_kwh, peak_day_kwh, peak_night_kwh,
			day_price, night_price, peak_day_price, peak_night_price,
			day_amount, night_amount, peak_day_amount, peak_night_amount,
			fixed_charge, net_total, tax, bill_total, debt,
			breakdown, device_estimates, insights, raw_response
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING id, created_at
	`

	insights := bill.Insights
	if insights == nil {
		insights = []string{}
	}

	err := r.pool.QueryRow(ctx, query,
		bill.UserID,
		bill.ImagePath,
		bill.PeriodLabel,
		bill.PeriodStart,
		bill.TotalKWh,
		bill.DayKWh,
		bill.NightKWh,
		bill.PeakDayKWh,
		bill.PeakNightKWh,
		bill.DayPrice,
		bill.NightPrice,
		bill.PeakDayPrice,
		bill.PeakNightPrice,
		bill.DayAmount,
		bill.NightAmount,
		bill.PeakDayAmount,
		bill.PeakNightAmount,
		bill.FixedCharge,
		bill.NetTotal,
		bill.Tax,
		bill.BillTotal,
		bill.Debt,
		bill.Breakdown,
		bill.DeviceEstimates,
		insights,
		bill.RawResponse,
	).Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	return nil
}

// ListBills returns the user's bills, newest first
func (r *Repository) ListBills(ctx context.Context, userID uuid.UUID) ([]db.Bill, error) {
	query := `SELECT ` + billColumns + `
		FROM bill_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := []db.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return bills, nil
}

// GetBill returns one of the user's bills
func (r *Repository) GetBill(ctx context.Context, userID, billID uuid.UUID) (*db.Bill, error) {
	query := `SELECT ` + billColumns + `
		FROM bill_analyses
		WHERE id = $1 AND user_id = $2
	`

	b, err := scanBill(r.pool.QueryRow(ctx, query, billID, userID))
	if err != nil {
		return nil, notFound(err, "bill")
	}
	return b, nil
}
