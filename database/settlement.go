/*
Copyright 2024 Lorrybook Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

// RecordSettlement persists a calculated settlement and claims its trips in
// one transaction. Claiming updates only rows whose settlement_id is still
// NULL; if the rowcount comes back short, another settlement got there first
// and the whole transaction rolls back.
func (d Datasource) RecordSettlement(ctx context.Context, s *model.Settlement) error {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Saving settlement to db")
	defer span.End()

	tripBreakdownJSON, err := json.Marshal(s.TripBreakdown)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal trip breakdown", err)
	}
	amountBreakdownJSON, err := json.Marshal(s.AmountBreakdown)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal amount breakdown", err)
	}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lorrybook.settlements
			(settlement_id, owner_a_id, owner_b_id, from_date, to_date, trip_ids,
			 trip_breakdown, amount_breakdown, net_amount, status, notes, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, $12)
	`, s.SettlementID, s.OwnerAID, s.OwnerBID, s.FromDate, s.ToDate, pq.Array(s.TripIDs),
		tripBreakdownJSON, amountBreakdownJSON, s.NetAmount, s.Status, s.Notes, s.CreatedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "Settlement already exists", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to save settlement", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE lorrybook.trips
		SET settlement_id = $1
		WHERE trip_id = ANY($2) AND settlement_id IS NULL
	`, s.SettlementID, pq.Array(s.TripIDs))
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to claim trips for settlement", err)
	}
	claimed, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to claim trips for settlement", err)
	}
	if claimed != int64(len(s.TripIDs)) {
		return apierror.NewAPIError(apierror.ErrConflict, "One or more trips were settled concurrently", nil)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit settlement", err)
	}

	return nil
}

const settlementColumns = `
	id, settlement_id, owner_a_id, owner_b_id, from_date, to_date, trip_ids,
	trip_breakdown, amount_breakdown, net_amount, status, COALESCE(notes, ''), version, created_at`

func scanSettlement(scanner interface{ Scan(...interface{}) error }) (*model.Settlement, error) {
	s := model.Settlement{}
	var tripBreakdownJSON, amountBreakdownJSON []byte
	err := scanner.Scan(&s.ID, &s.SettlementID, &s.OwnerAID, &s.OwnerBID, &s.FromDate, &s.ToDate,
		pq.Array(&s.TripIDs), &tripBreakdownJSON, &amountBreakdownJSON, &s.NetAmount,
		&s.Status, &s.Notes, &s.Version, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tripBreakdownJSON, &s.TripBreakdown); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(amountBreakdownJSON, &s.AmountBreakdown); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSettlement fetches a settlement and its full payment ledger.
func (d Datasource) GetSettlement(ctx context.Context, settlementID string) (*model.Settlement, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Fetching settlement from db")
	defer span.End()

	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+settlementColumns+`
		FROM lorrybook.settlements
		WHERE settlement_id = $1
	`, settlementID)

	s, err := scanSettlement(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Settlement not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve settlement", err)
	}

	payments, err := d.getPayments(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	s.Payments = payments

	return s, nil
}

func (d Datasource) getPayments(ctx context.Context, settlementID string) ([]model.Payment, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, payment_id, settlement_id, amount, payment_date, payment_mode,
			COALESCE(reference_number, ''), COALESCE(notes, ''), paid_by, paid_to, status,
			approved_at, COALESCE(rejection_reason, ''), COALESCE(review_notes, ''), created_at
		FROM lorrybook.settlement_payments
		WHERE settlement_id = $1
		ORDER BY created_at, id
	`, settlementID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payments", err)
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		p := model.Payment{}
		err = rows.Scan(&p.ID, &p.PaymentID, &p.SettlementID, &p.Amount, &p.PaymentDate, &p.PaymentMode,
			&p.ReferenceNumber, &p.Notes, &p.PaidBy, &p.PaidTo, &p.Status,
			&p.ApprovedAt, &p.RejectionReason, &p.ReviewNotes, &p.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan payment data", err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over payments", err)
	}

	return payments, nil
}

// ListSettlements returns the settlements an owner is a party to, newest
// first, optionally filtered by status. Payments are not loaded.
func (d Datasource) ListSettlements(ctx context.Context, ownerID string, status string, limit, offset int) ([]*model.Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM lorrybook.settlements
		WHERE (owner_a_id = $1 OR owner_b_id = $1)`
	args := []interface{}{ownerID}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	args = append(args, limit, offset)
	query += ` ORDER BY created_at DESC`
	if status != "" {
		query += ` LIMIT $3 OFFSET $4`
	} else {
		query += ` LIMIT $2 OFFSET $3`
	}

	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve settlements", err)
	}
	defer rows.Close()

	settlements := []*model.Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan settlement data", err)
		}
		settlements = append(settlements, s)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over settlements", err)
	}

	return settlements, nil
}

// ListSettlementsBetween returns all non-cancelled settlements between the
// pair ordered by period, oldest first. The range suggester walks these to
// find gaps.
func (d Datasource) ListSettlementsBetween(ctx context.Context, ownerA, ownerB string) ([]*model.Settlement, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+settlementColumns+`
		FROM lorrybook.settlements
		WHERE status <> 'cancelled'
		  AND ((owner_a_id = $1 AND owner_b_id = $2) OR (owner_a_id = $2 AND owner_b_id = $1))
		ORDER BY to_date, created_at
	`, ownerA, ownerB)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve settlements", err)
	}
	defer rows.Close()

	settlements := []*model.Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan settlement data", err)
		}
		settlements = append(settlements, s)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over settlements", err)
	}

	return settlements, nil
}

// GetLatestSettlementBetween returns the non-cancelled settlement with the
// most recent to_date, or a not-found error when the pair has never settled.
func (d Datasource) GetLatestSettlementBetween(ctx context.Context, ownerA, ownerB string) (*model.Settlement, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+settlementColumns+`
		FROM lorrybook.settlements
		WHERE status <> 'cancelled'
		  AND ((owner_a_id = $1 AND owner_b_id = $2) OR (owner_a_id = $2 AND owner_b_id = $1))
		ORDER BY to_date DESC, created_at DESC
		LIMIT 1
	`, ownerA, ownerB)

	s, err := scanSettlement(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "No settlement between these owners", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve settlement", err)
	}

	return s, nil
}

// bumpVersion is the optimistic concurrency gate shared by every settlement
// mutation. It advances the version only if the row still carries the version
// the caller read; a zero rowcount means a concurrent writer won.
func bumpVersion(ctx context.Context, tx *sql.Tx, settlementID string, version int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE lorrybook.settlements
		SET version = version + 1
		WHERE settlement_id = $1 AND version = $2
	`, settlementID, version)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update settlement version", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update settlement version", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrConflict, "Settlement was modified concurrently, retry the operation", nil)
	}
	return nil
}

// AddPayment appends a payment to the ledger under the version gate.
func (d Datasource) AddPayment(ctx context.Context, settlementID string, version int, p *model.Payment) error {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Saving payment to db")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := bumpVersion(ctx, tx, settlementID, version); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lorrybook.settlement_payments
			(payment_id, settlement_id, amount, payment_date, payment_mode, reference_number,
			 notes, paid_by, paid_to, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.PaymentID, p.SettlementID, p.Amount, p.PaymentDate, p.PaymentMode, p.ReferenceNumber,
		p.Notes, p.PaidBy, p.PaidTo, p.Status, p.CreatedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return apierror.NewAPIError(apierror.ErrConflict, "Payment already exists", err)
			case "check_violation":
				return apierror.NewAPIError(apierror.ErrBadRequest, "Payment amount must be positive", err)
			}
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to save payment", err)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit payment", err)
	}

	return nil
}

// UpdatePaymentStatus applies a review outcome to a single payment and moves
// the settlement status in the same version-gated transaction.
func (d Datasource) UpdatePaymentStatus(ctx context.Context, settlementID string, version int, p *model.Payment, settlementStatus string) error {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Updating payment status")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := bumpVersion(ctx, tx, settlementID, version); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE lorrybook.settlement_payments
		SET status = $3, approved_at = $4, rejection_reason = $5, review_notes = $6
		WHERE payment_id = $1 AND settlement_id = $2
	`, p.PaymentID, settlementID, p.Status, p.ApprovedAt, p.RejectionReason, p.ReviewNotes)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update payment", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update payment", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Payment not found", nil)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lorrybook.settlements SET status = $2 WHERE settlement_id = $1
	`, settlementID, settlementStatus)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update settlement status", err)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit payment update", err)
	}

	return nil
}

// CancelSettlement marks the settlement cancelled and releases its trips so
// they become available for a future settlement.
func (d Datasource) CancelSettlement(ctx context.Context, settlementID string, version int) error {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Cancelling settlement")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := bumpVersion(ctx, tx, settlementID, version); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lorrybook.settlements SET status = 'cancelled' WHERE settlement_id = $1
	`, settlementID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to cancel settlement", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lorrybook.trips SET settlement_id = NULL WHERE settlement_id = $1
	`, settlementID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to release settled trips", err)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit cancellation", err)
	}

	return nil
}

// GetSettlementStats aggregates an owner's settlements created inside the
// period. Payable/receivable are from the owner's point of view; settled is
// the sum of approved payments on those settlements.
func (d Datasource) GetSettlementStats(ctx context.Context, ownerID string, from, to time.Time) (*model.SettlementStats, error) {
	stats := model.SettlementStats{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE s.status = 'pending'),
			COUNT(*) FILTER (WHERE s.status = 'partially_paid'),
			COUNT(*) FILTER (WHERE s.status = 'completed'),
			COUNT(*) FILTER (WHERE s.status = 'cancelled'),
			COALESCE(SUM(s.net_amount) FILTER (WHERE s.status <> 'cancelled'
				AND ((s.amount_breakdown->>'net_payable_by' = 'owner_A' AND s.owner_a_id = $1)
				  OR (s.amount_breakdown->>'net_payable_by' = 'owner_B' AND s.owner_b_id = $1))), 0),
			COALESCE(SUM(s.net_amount) FILTER (WHERE s.status <> 'cancelled'
				AND ((s.amount_breakdown->>'net_payable_by' = 'owner_A' AND s.owner_b_id = $1)
				  OR (s.amount_breakdown->>'net_payable_by' = 'owner_B' AND s.owner_a_id = $1))), 0),
			COALESCE((
				SELECT SUM(p.amount)
				FROM lorrybook.settlement_payments p
				JOIN lorrybook.settlements ps ON ps.settlement_id = p.settlement_id
				WHERE p.status = 'approved'
				  AND (ps.owner_a_id = $1 OR ps.owner_b_id = $1)
				  AND ps.created_at >= $2 AND ps.created_at <= $3
			), 0)
		FROM lorrybook.settlements s
		WHERE (s.owner_a_id = $1 OR s.owner_b_id = $1)
		  AND s.created_at >= $2 AND s.created_at <= $3
	`, ownerID, from, to)

	err := row.Scan(&stats.TotalSettlements, &stats.Pending, &stats.PartiallyPaid, &stats.Completed,
		&stats.Cancelled, &stats.TotalPayable, &stats.TotalReceivable, &stats.TotalSettled)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to compute settlement stats", err)
	}

	return &stats, nil
}

// GetSettlementsWithPendingPayments returns settlements that carry at least
// one pending payment created before the cutoff. The reminder worker sweeps
// these daily.
func (d Datasource) GetSettlementsWithPendingPayments(ctx context.Context, olderThan time.Time) ([]*model.Settlement, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT DISTINCT ON (s.settlement_id) `+settlementColumns2("s")+`
		FROM lorrybook.settlements s
		JOIN lorrybook.settlement_payments p ON p.settlement_id = s.settlement_id
		WHERE p.status = 'pending' AND p.created_at < $1
		ORDER BY s.settlement_id
	`, olderThan)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve settlements with pending payments", err)
	}
	defer rows.Close()

	settlements := []*model.Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan settlement data", err)
		}
		settlements = append(settlements, s)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over settlements", err)
	}

	return settlements, nil
}

func settlementColumns2(alias string) string {
	return alias + `.id, ` + alias + `.settlement_id, ` + alias + `.owner_a_id, ` + alias + `.owner_b_id, ` +
		alias + `.from_date, ` + alias + `.to_date, ` + alias + `.trip_ids, ` + alias + `.trip_breakdown, ` +
		alias + `.amount_breakdown, ` + alias + `.net_amount, ` + alias + `.status, COALESCE(` + alias + `.notes, ''), ` +
		alias + `.version, ` + alias + `.created_at`
}
