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
	TripScheduled = "scheduled"
	TripInTransit = "in_transit"
	TripDelivered = "delivered"
	TripCancelled = "cancelled"
)

// Trip is one freight movement. DeliveredBy is the owner whose lorry carried
// the load; CustomerOwnerID is set when the trip was run on behalf of a
// collaborating owner, making Amount payable between the two owners.
// SettlementID is non-empty once the trip has been included in a settlement;
// a trip belongs to at most one settlement.
type Trip struct {
	ID              int64           `json:"-"`
	TripID          string          `json:"trip_id"`
	TripNumber      string          `json:"trip_number"`
	DeliveredBy     string          `json:"delivered_by"`
	CustomerOwnerID string          `json:"customer_owner_id,omitempty"`
	CustomerID      string          `json:"customer_id,omitempty"`
	LorryID         string          `json:"lorry_id"`
	DriverID        string          `json:"driver_id,omitempty"`
	Material        string          `json:"material"`
	FromLocation    string          `json:"from_location"`
	ToLocation      string          `json:"to_location"`
	TripDate        time.Time       `json:"trip_date"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	SettlementID    string          `json:"settlement_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsSettled reports whether the trip is already part of a settlement.
func (t *Trip) IsSettled() bool {
	return t.SettlementID != ""
}

// DirectionBetween returns the settlement direction of this trip relative to
// the (ownerA, ownerB) ordering: "a_to_b" when ownerA delivered for ownerB,
// "b_to_a" for the reverse, and "" when the trip is not between the pair.
func (t *Trip) DirectionBetween(ownerA, ownerB string) string {
	if t.DeliveredBy == ownerA && t.CustomerOwnerID == ownerB {
		return DirectionAToB
	}
	if t.DeliveredBy == ownerB && t.CustomerOwnerID == ownerA {
		return DirectionBToA
	}
	return ""
}
