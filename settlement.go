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

package lorrybook

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/lorrybook/lorrybook/internal/apierror"
	redlock "github.com/lorrybook/lorrybook/internal/lock"
	"github.com/lorrybook/lorrybook/internal/notification"
	"github.com/lorrybook/lorrybook/model"
)

// pairLockKey is stable regardless of which party initiates, so concurrent
// settlement creation for the same pair always contends on one lock.
func pairLockKey(ownerA, ownerB string) string {
	if ownerB < ownerA {
		ownerA, ownerB = ownerB, ownerA
	}
	return fmt.Sprintf("settlement:pair:%s:%s", ownerA, ownerB)
}

// requireCollaboration verifies that the acting owner and the partner have an
// accepted collaboration. Settlement operations are forbidden without one.
func (l *Lorrybook) requireCollaboration(ctx context.Context, actingOwnerID, partnerID string) error {
	if actingOwnerID == partnerID {
		return apierror.NewAPIError(apierror.ErrBadRequest, "Cannot settle with yourself", nil)
	}
	_, err := l.datasource.GetAcceptedCollaboration(ctx, actingOwnerID, partnerID)
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			return apierror.NewAPIError(apierror.ErrForbidden, "No accepted collaboration with this owner", err)
		}
		return err
	}
	return nil
}

// CalculateSettlement runs the net settlement calculator for the period
// without persisting anything. The acting owner becomes owner A of the
// calculation; directions and the payable side are relative to that ordering.
func (l *Lorrybook) CalculateSettlement(ctx context.Context, actingOwnerID, partnerID string, from, to time.Time) (*model.CalculationResult, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Calculating settlement")
	defer span.End()

	if to.Before(from) {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "from_date must not be after to_date", nil)
	}
	if err := l.requireCollaboration(ctx, actingOwnerID, partnerID); err != nil {
		return nil, err
	}

	trips, err := l.datasource.GetUnsettledTripsBetween(ctx, actingOwnerID, partnerID, from, to)
	if err != nil {
		return nil, err
	}

	return buildCalculation(actingOwnerID, partnerID, from, to, trips), nil
}

// buildCalculation folds the trips into directional buckets and nets the two
// totals. The debtor pays: when A delivered more value for B than the other
// way around, owner B owes the difference.
func buildCalculation(ownerA, ownerB string, from, to time.Time, trips []*model.Trip) *model.CalculationResult {
	result := &model.CalculationResult{
		OwnerAID: ownerA,
		OwnerBID: ownerB,
		FromDate: from,
		ToDate:   to,
		AToB:     model.DirectionBucket{Trips: []model.TripSummary{}},
		BToA:     model.DirectionBucket{Trips: []model.TripSummary{}},
	}

	for _, trip := range trips {
		direction := trip.DirectionBetween(ownerA, ownerB)
		if direction == "" {
			continue
		}
		summary := model.TripSummary{
			TripID:       trip.TripID,
			TripNumber:   trip.TripNumber,
			Direction:    direction,
			Amount:       trip.Amount,
			Material:     trip.Material,
			FromLocation: trip.FromLocation,
			ToLocation:   trip.ToLocation,
			TripDate:     trip.TripDate,
			Notes:        trip.Notes,
		}
		switch direction {
		case model.DirectionAToB:
			result.AToB.Trips = append(result.AToB.Trips, summary)
			result.AToB.Total = result.AToB.Total.Add(trip.Amount)
			result.AToB.TripCount++
		case model.DirectionBToA:
			result.BToA.Trips = append(result.BToA.Trips, summary)
			result.BToA.Total = result.BToA.Total.Add(trip.Amount)
			result.BToA.TripCount++
		}
		result.TripBreakdown = append(result.TripBreakdown, summary)
		result.TripCount++
	}

	diff := result.AToB.Total.Sub(result.BToA.Total)
	switch {
	case diff.IsPositive():
		result.NetAmount = diff
		result.NetPayableBy = model.PayableByOwnerB
	case diff.IsNegative():
		result.NetAmount = diff.Neg()
		result.NetPayableBy = model.PayableByOwnerA
	default:
		result.NetAmount = diff
		result.NetPayableBy = model.PayableByNone
	}

	result.AmountBreakdown = model.AmountBreakdown{
		AToBTotal:    result.AToB.Total,
		BToATotal:    result.BToA.Total,
		NetPayableBy: result.NetPayableBy,
	}

	return result
}

// CreateSettlement calculates and persists a settlement for the period. The
// pair lock plus the trip-claim transaction guarantee no trip lands in two
// settlements even when both parties hit create at once.
func (l *Lorrybook) CreateSettlement(ctx context.Context, actingOwnerID, partnerID string, from, to time.Time, notes string) (*model.Settlement, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Creating settlement")
	defer span.End()

	if err := l.requireCollaboration(ctx, actingOwnerID, partnerID); err != nil {
		return nil, err
	}

	locker := redlock.NewLocker(l.redis, pairLockKey(actingOwnerID, partnerID), model.GenerateUUIDWithSuffix("loc"))
	if err := locker.WaitLock(ctx, 30*time.Second, 10*time.Second); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Another settlement for this pair is in progress", err)
	}
	defer func() {
		if err := locker.Unlock(ctx); err != nil {
			notification.NotifyError(err)
		}
	}()

	calc, err := l.CalculateSettlement(ctx, actingOwnerID, partnerID, from, to)
	if err != nil {
		return nil, err
	}
	if calc.TripCount == 0 {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "No unsettled trips in the selected period", nil)
	}

	settlement := &model.Settlement{
		SettlementID:    model.GenerateUUIDWithSuffix("stl"),
		OwnerAID:        actingOwnerID,
		OwnerBID:        partnerID,
		FromDate:        from,
		ToDate:          to,
		TripBreakdown:   calc.TripBreakdown,
		AmountBreakdown: calc.AmountBreakdown,
		NetAmount:       calc.NetAmount,
		Payments:        []model.Payment{},
		Status:          model.SettlementPending,
		Notes:           notes,
		CreatedAt:       time.Now(),
	}
	for _, summary := range calc.TripBreakdown {
		settlement.TripIDs = append(settlement.TripIDs, summary.TripID)
	}
	// a zero-sum period needs no payments
	if settlement.NetAmount.IsZero() {
		settlement.Status = model.SettlementCompleted
	}

	if err := l.datasource.RecordSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	go func() {
		if err := notification.PushWebhook("settlement.created", settlement); err != nil {
			notification.NotifyError(err)
		}
	}()

	return settlement, nil
}

// GetSettlement returns a settlement with its payment ledger. Only the two
// parties may read it.
func (l *Lorrybook) GetSettlement(ctx context.Context, actingOwnerID, settlementID string) (*model.Settlement, error) {
	settlement, err := l.datasource.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if !settlement.IsParty(actingOwnerID) {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Not a party to this settlement", nil)
	}
	return settlement, nil
}

// ListSettlements returns the acting owner's settlements, optionally filtered
// by status.
func (l *Lorrybook) ListSettlements(ctx context.Context, actingOwnerID, status string, limit, offset int) ([]*model.Settlement, error) {
	if status != "" {
		switch status {
		case model.SettlementPending, model.SettlementPartiallyPaid, model.SettlementCompleted, model.SettlementCancelled:
		default:
			return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid settlement status filter", nil)
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return l.datasource.ListSettlements(ctx, actingOwnerID, status, limit, offset)
}

// AddPayment records a pending payment against the settlement. Only the party
// owing the net amount can record one, and it only counts once the receiving
// side approves.
func (l *Lorrybook) AddPayment(ctx context.Context, actingOwnerID, settlementID string, payment *model.Payment) (*model.Settlement, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Recording payment")
	defer span.End()

	return l.mutateSettlement(ctx, settlementID, func(settlement *model.Settlement) error {
		if !settlement.IsParty(actingOwnerID) {
			return apierror.NewAPIError(apierror.ErrForbidden, "Not a party to this settlement", nil)
		}
		if settlement.Status == model.SettlementCancelled || settlement.Status == model.SettlementCompleted {
			return apierror.NewAPIError(apierror.ErrConflict, "Settlement is closed", nil)
		}
		if actingOwnerID != settlement.PayerID() {
			return apierror.NewAPIError(apierror.ErrForbidden, "Only the owing party can record a payment", nil)
		}
		if !payment.Amount.IsPositive() {
			return apierror.NewAPIError(apierror.ErrBadRequest, "Payment amount must be positive", nil)
		}
		if payment.Amount.GreaterThan(settlement.RemainingDue()) {
			return apierror.NewAPIError(apierror.ErrBadRequest, "Payment exceeds the remaining due", nil)
		}
		if !validPaymentMode(payment.PaymentMode) {
			return apierror.NewAPIError(apierror.ErrBadRequest, "Invalid payment mode", nil)
		}

		payment.PaymentID = model.GenerateUUIDWithSuffix("pay")
		payment.SettlementID = settlementID
		payment.PaidBy = actingOwnerID
		payment.PaidTo = settlement.PayeeID()
		payment.Status = model.PaymentPending
		payment.CreatedAt = time.Now()
		if payment.PaymentDate.IsZero() {
			payment.PaymentDate = payment.CreatedAt
		}

		return l.datasource.AddPayment(ctx, settlementID, settlement.Version, payment)
	})
}

// ApprovePayment lets the receiving party confirm a pending payment. On
// approval the settlement moves to partially_paid, or completed once the
// approved total covers the net amount exactly.
func (l *Lorrybook) ApprovePayment(ctx context.Context, actingOwnerID, settlementID, paymentID, reviewNotes string) (*model.Settlement, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Approving payment")
	defer span.End()

	return l.reviewPayment(ctx, actingOwnerID, settlementID, paymentID, func(settlement *model.Settlement, payment *model.Payment) error {
		if payment.Amount.GreaterThan(settlement.RemainingDue()) {
			return apierror.NewAPIError(apierror.ErrConflict, "Approval would exceed the remaining due", nil)
		}
		now := time.Now()
		payment.Status = model.PaymentApproved
		payment.ApprovedAt = &now
		payment.ReviewNotes = reviewNotes
		return nil
	})
}

// RejectPayment lets the receiving party dispute a pending payment. A reason
// is required so the payer knows what to fix.
func (l *Lorrybook) RejectPayment(ctx context.Context, actingOwnerID, settlementID, paymentID, reason string) (*model.Settlement, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Rejecting payment")
	defer span.End()

	if reason == "" {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "A rejection reason is required", nil)
	}
	return l.reviewPayment(ctx, actingOwnerID, settlementID, paymentID, func(_ *model.Settlement, payment *model.Payment) error {
		payment.Status = model.PaymentRejected
		payment.RejectionReason = reason
		return nil
	})
}

// CancelPayment lets the payer withdraw their own pending payment before the
// other side reviews it.
func (l *Lorrybook) CancelPayment(ctx context.Context, actingOwnerID, settlementID, paymentID string) (*model.Settlement, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Cancelling payment")
	defer span.End()

	return l.mutateSettlement(ctx, settlementID, func(settlement *model.Settlement) error {
		payment := settlement.FindPayment(paymentID)
		if payment == nil {
			return apierror.NewAPIError(apierror.ErrNotFound, "Payment not found", nil)
		}
		if payment.PaidBy != actingOwnerID {
			return apierror.NewAPIError(apierror.ErrForbidden, "Only the payer can cancel a payment", nil)
		}
		if payment.IsTerminal() {
			return apierror.NewAPIError(apierror.ErrConflict, "Payment has already been reviewed", nil)
		}
		payment.Status = model.PaymentCancelled
		return l.datasource.UpdatePaymentStatus(ctx, settlementID, settlement.Version, payment, settlementStatusFor(settlement))
	})
}

// reviewPayment applies an approve/reject outcome. The reviewer must be a
// party other than the payer, the settlement must still be open, and the
// payment must still be pending.
func (l *Lorrybook) reviewPayment(ctx context.Context, actingOwnerID, settlementID, paymentID string, apply func(*model.Settlement, *model.Payment) error) (*model.Settlement, error) {
	return l.mutateSettlement(ctx, settlementID, func(settlement *model.Settlement) error {
		if !settlement.IsParty(actingOwnerID) {
			return apierror.NewAPIError(apierror.ErrForbidden, "Not a party to this settlement", nil)
		}
		if settlement.Status == model.SettlementCancelled || settlement.Status == model.SettlementCompleted {
			return apierror.NewAPIError(apierror.ErrConflict, "Settlement is closed", nil)
		}
		payment := settlement.FindPayment(paymentID)
		if payment == nil {
			return apierror.NewAPIError(apierror.ErrNotFound, "Payment not found", nil)
		}
		if payment.PaidBy == actingOwnerID {
			return apierror.NewAPIError(apierror.ErrForbidden, "The payer cannot review their own payment", nil)
		}
		if payment.IsTerminal() {
			return apierror.NewAPIError(apierror.ErrConflict, "Payment has already been reviewed", nil)
		}

		if err := apply(settlement, payment); err != nil {
			return err
		}
		return l.datasource.UpdatePaymentStatus(ctx, settlementID, settlement.Version, payment, settlementStatusFor(settlement))
	})
}

// CancelSettlement voids a settlement that has no approved money on it and
// releases its trips back to the unsettled pool.
func (l *Lorrybook) CancelSettlement(ctx context.Context, actingOwnerID, settlementID string) (*model.Settlement, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Cancelling settlement")
	defer span.End()

	return l.mutateSettlement(ctx, settlementID, func(settlement *model.Settlement) error {
		if !settlement.IsParty(actingOwnerID) {
			return apierror.NewAPIError(apierror.ErrForbidden, "Not a party to this settlement", nil)
		}
		if settlement.Status == model.SettlementCancelled {
			return apierror.NewAPIError(apierror.ErrConflict, "Settlement is already cancelled", nil)
		}
		if !settlement.ApprovedTotal().IsZero() {
			return apierror.NewAPIError(apierror.ErrConflict, "Settlement has approved payments and cannot be cancelled", nil)
		}
		return l.datasource.CancelSettlement(ctx, settlementID, settlement.Version)
	})
}

// mutateSettlement serializes mutations per settlement: take the settlement
// lock, fetch fresh state, apply. The version gate in the store is the second
// line of defense against writers outside this process.
func (l *Lorrybook) mutateSettlement(ctx context.Context, settlementID string, mutate func(*model.Settlement) error) (*model.Settlement, error) {
	locker := redlock.NewLocker(l.redis, fmt.Sprintf("settlement:%s", settlementID), model.GenerateUUIDWithSuffix("loc"))
	if err := locker.WaitLock(ctx, 30*time.Second, 10*time.Second); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Settlement is being modified, retry shortly", err)
	}
	defer func() {
		if err := locker.Unlock(ctx); err != nil {
			notification.NotifyError(err)
		}
	}()

	settlement, err := l.datasource.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := mutate(settlement); err != nil {
		return nil, err
	}

	updated, err := l.datasource.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := notification.PushWebhook("settlement.updated", updated); err != nil {
			notification.NotifyError(err)
		}
	}()

	return updated, nil
}

// settlementStatusFor derives the settlement status from its ledger after the
// in-memory payment mutation has been applied. Submission and approval both
// cap a payment at the remaining due, so the approved total lands on the net
// amount exactly, never past it.
func settlementStatusFor(settlement *model.Settlement) string {
	approved := settlement.ApprovedTotal()
	switch {
	case approved.Equal(settlement.NetAmount) && !settlement.NetAmount.IsZero():
		return model.SettlementCompleted
	case approved.IsPositive():
		return model.SettlementPartiallyPaid
	default:
		return model.SettlementPending
	}
}

func validPaymentMode(mode string) bool {
	for _, m := range model.PaymentModes {
		if m == mode {
			return true
		}
	}
	return false
}
