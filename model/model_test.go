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
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("stl")
	assert.True(t, strings.HasPrefix(id, "stl_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("stl"))
}

func TestTripDirectionBetween(t *testing.T) {
	trip := &Trip{DeliveredBy: "own_a", CustomerOwnerID: "own_b"}

	assert.Equal(t, DirectionAToB, trip.DirectionBetween("own_a", "own_b"))
	assert.Equal(t, DirectionBToA, trip.DirectionBetween("own_b", "own_a"))
	assert.Equal(t, "", trip.DirectionBetween("own_a", "own_c"))
}

func TestSettlementApprovedTotalAndRemainingDue(t *testing.T) {
	s := &Settlement{
		NetAmount: decimal.NewFromInt(17000),
		Payments: []Payment{
			{Amount: decimal.NewFromInt(5000), Status: PaymentApproved},
			{Amount: decimal.NewFromInt(4000), Status: PaymentPending},
			{Amount: decimal.NewFromInt(3000), Status: PaymentRejected},
			{Amount: decimal.NewFromInt(2000), Status: PaymentApproved},
		},
	}

	assert.True(t, s.ApprovedTotal().Equal(decimal.NewFromInt(7000)))
	assert.True(t, s.RemainingDue().Equal(decimal.NewFromInt(10000)))
}

func TestSettlementPayerPayee(t *testing.T) {
	s := &Settlement{
		OwnerAID:        "own_a",
		OwnerBID:        "own_b",
		AmountBreakdown: AmountBreakdown{NetPayableBy: PayableByOwnerB},
	}

	assert.Equal(t, "own_b", s.PayerID())
	assert.Equal(t, "own_a", s.PayeeID())

	s.AmountBreakdown.NetPayableBy = PayableByNone
	assert.Equal(t, "", s.PayerID())
	assert.Equal(t, "", s.PayeeID())
}

func TestSettlementFindPayment(t *testing.T) {
	s := &Settlement{Payments: []Payment{
		{PaymentID: "pay_1"},
		{PaymentID: "pay_2"},
	}}

	p := s.FindPayment("pay_2")
	assert.NotNil(t, p)
	assert.Equal(t, "pay_2", p.PaymentID)
	assert.Nil(t, s.FindPayment("pay_9"))
}

func TestCollaborationInvolves(t *testing.T) {
	c := &Collaboration{OwnerAID: "own_a", OwnerBID: "own_b"}
	assert.True(t, c.Involves("own_a", "own_b"))
	assert.True(t, c.Involves("own_b", "own_a"))
	assert.False(t, c.Involves("own_a", "own_c"))
}

func TestTruncateToDay(t *testing.T) {
	ts := time.Date(2024, 1, 15, 18, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), TruncateToDay(ts))
}
