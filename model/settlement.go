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
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DirectionAToB = "a_to_b"
	DirectionBToA = "b_to_a"
)

const (
	PayableByOwnerA = "owner_A"
	PayableByOwnerB = "owner_B"
	PayableByNone   = "none"
)

const (
	SettlementPending       = "pending"
	SettlementPartiallyPaid = "partially_paid"
	SettlementCompleted     = "completed"
	SettlementCancelled     = "cancelled"
)

const (
	PaymentPending   = "pending"
	PaymentApproved  = "approved"
	PaymentRejected  = "rejected"
	PaymentCancelled = "cancelled"
)

// PaymentModes enumerates the accepted payment_mode values.
var PaymentModes = []string{"cash", "bank_transfer", "cheque", "upi", "online", "other"}

// TripSummary is the denormalized per-trip snapshot captured when a settlement
// is created, so later trip edits do not retroactively change a closed
// settlement.
type TripSummary struct {
	TripID       string          `json:"trip_id"`
	TripNumber   string          `json:"trip_number"`
	Direction    string          `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	Material     string          `json:"material"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	TripDate     time.Time       `json:"trip_date"`
	Notes        string          `json:"notes,omitempty"`
}

// DirectionBucket aggregates one direction of a calculation.
type DirectionBucket struct {
	TripCount int             `json:"trip_count"`
	Total     decimal.Decimal `json:"total"`
	Trips     []TripSummary   `json:"trips"`
}

// AmountBreakdown is the persisted snapshot of both directional totals and
// the resulting payable direction.
type AmountBreakdown struct {
	AToBTotal    decimal.Decimal `json:"a_to_b_total"`
	BToATotal    decimal.Decimal `json:"b_to_a_total"`
	NetPayableBy string          `json:"net_payable_by"`
}

// CalculationResult is the read-only output of the net settlement calculator.
// Nothing is persisted until a settlement is created from it.
type CalculationResult struct {
	OwnerAID        string          `json:"owner_a_id"`
	OwnerBID        string          `json:"owner_b_id"`
	FromDate        time.Time       `json:"from_date"`
	ToDate          time.Time       `json:"to_date"`
	AToB            DirectionBucket `json:"a_to_b"`
	BToA            DirectionBucket `json:"b_to_a"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	NetPayableBy    string          `json:"net_payable_by"`
	TripCount       int             `json:"trip_count"`
	TripBreakdown   []TripSummary   `json:"trip_breakdown"`
	AmountBreakdown AmountBreakdown `json:"amount_breakdown"`
}

// Payment is one entry in a settlement's payment ledger. Entries are
// append-only; review outcomes are status transitions, never deletions.
type Payment struct {
	ID              int64           `json:"-"`
	PaymentID       string          `json:"payment_id"`
	SettlementID    string          `json:"settlement_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	PaymentMode     string          `json:"payment_mode"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	PaidBy          string          `json:"paid_by"`
	PaidTo          string          `json:"paid_to"`
	Status          string          `json:"status"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ReviewNotes     string          `json:"review_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsTerminal reports whether the payment can no longer transition.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentApproved || p.Status == PaymentRejected || p.Status == PaymentCancelled
}

// Settlement is one reconciliation period between two collaborating owners.
// OwnerAID is the creator. Version guards concurrent mutation: every write
// carries the version it read and fails if the row has moved on.
type Settlement struct {
	ID              int64           `json:"-"`
	SettlementID    string          `json:"settlement_id"`
	OwnerAID        string          `json:"owner_a_id"`
	OwnerBID        string          `json:"owner_b_id"`
	FromDate        time.Time       `json:"from_date"`
	ToDate          time.Time       `json:"to_date"`
	TripIDs         []string        `json:"trip_ids"`
	TripBreakdown   []TripSummary   `json:"trip_breakdown"`
	AmountBreakdown AmountBreakdown `json:"amount_breakdown"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Payments        []Payment       `json:"payments"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	Version         int             `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ApprovedTotal sums all approved payments.
func (s *Settlement) ApprovedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.Status == PaymentApproved {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// RemainingDue is the net amount minus all approved payments.
func (s *Settlement) RemainingDue() decimal.Decimal {
	return s.NetAmount.Sub(s.ApprovedTotal())
}

// PayerID resolves net_payable_by to a concrete owner ID, empty when the
// settlement nets to zero.
func (s *Settlement) PayerID() string {
	switch s.AmountBreakdown.NetPayableBy {
	case PayableByOwnerA:
		return s.OwnerAID
	case PayableByOwnerB:
		return s.OwnerBID
	}
	return ""
}

// PayeeID is the party receiving the net amount.
func (s *Settlement) PayeeID() string {
	switch s.AmountBreakdown.NetPayableBy {
	case PayableByOwnerA:
		return s.OwnerBID
	case PayableByOwnerB:
		return s.OwnerAID
	}
	return ""
}

// IsParty reports whether ownerID is one of the two settlement parties.
func (s *Settlement) IsParty(ownerID string) bool {
	return ownerID == s.OwnerAID || ownerID == s.OwnerBID
}

// FindPayment returns the payment with the given stable ID, or nil.
func (s *Settlement) FindPayment(paymentID string) *Payment {
	for i := range s.Payments {
		if s.Payments[i].PaymentID == paymentID {
			return &s.Payments[i]
		}
	}
	return nil
}

const (
	SuggestionFirstSettlement = "first_settlement"
	SuggestionContinuation    = "continuation"
	SuggestionUnsettledTrips  = "unsettled_trips"
)

const (
	PriorityNormal   = "normal"
	PriorityCritical = "critical"
)

// RangeSuggestion proposes a date range for the next settlement between a
// pair of owners. Advisory only; the caller supplies the final range.
type RangeSuggestion struct {
	SuggestionType string           `json:"suggestion_type"`
	FromDate       time.Time        `json:"from_date"`
	ToDate         time.Time        `json:"to_date"`
	TripCount      int              `json:"trip_count"`
	Priority       string           `json:"priority"`
	Alternatives   []SuggestedRange `json:"alternatives,omitempty"`
}

// SuggestedRange is a supplementary unsettled gap between prior settlements.
type SuggestedRange struct {
	FromDate  time.Time `json:"from_date"`
	ToDate    time.Time `json:"to_date"`
	TripCount int       `json:"trip_count"`
}

// SettlementStats aggregates an owner's settlements over a period.
type SettlementStats struct {
	Period           string          `json:"period"`
	TotalSettlements int             `json:"total_settlements"`
	Pending          int             `json:"pending"`
	PartiallyPaid    int             `json:"partially_paid"`
	Completed        int             `json:"completed"`
	Cancelled        int             `json:"cancelled"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	TotalReceivable  decimal.Decimal `json:"total_receivable"`
	TotalSettled     decimal.Decimal `json:"total_settled"`
}
