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
	"time"

	"github.com/lorrybook/lorrybook/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	owner
	collaboration
	lorry
	driver
	customer
	trip
	expense
	salary
	settlement
}

// owner defines methods for handling owner accounts.
type owner interface {
	CreateOwner(ctx context.Context, owner *model.Owner) (*model.Owner, error)
	GetOwnerByID(ctx context.Context, ownerID string) (*model.Owner, error)
	GetOwnerByEmail(ctx context.Context, email string) (*model.Owner, error)
	UpdateOwner(ctx context.Context, owner *model.Owner) error
}

// collaboration defines methods for owner partnerships.
type collaboration interface {
	CreateCollaboration(ctx context.Context, c *model.Collaboration) (*model.Collaboration, error)
	GetCollaboration(ctx context.Context, collaborationID string) (*model.Collaboration, error)
	GetAcceptedCollaboration(ctx context.Context, ownerA, ownerB string) (*model.Collaboration, error)
	UpdateCollaborationStatus(ctx context.Context, collaborationID, status string) error
	ListCollaborationsForOwner(ctx context.Context, ownerID string) ([]*model.Collaboration, error)
	ListPartners(ctx context.Context, ownerID string) ([]*model.Partner, error)
}

type lorry interface {
	CreateLorry(ctx context.Context, l *model.Lorry) (*model.Lorry, error)
	GetLorry(ctx context.Context, ownerID, lorryID string) (*model.Lorry, error)
	ListLorries(ctx context.Context, ownerID string) ([]*model.Lorry, error)
	UpdateLorry(ctx context.Context, l *model.Lorry) error
	DeactivateLorry(ctx context.Context, ownerID, lorryID string) error
}

type driver interface {
	CreateDriver(ctx context.Context, dr *model.Driver) (*model.Driver, error)
	GetDriver(ctx context.Context, ownerID, driverID string) (*model.Driver, error)
	ListDrivers(ctx context.Context, ownerID string) ([]*model.Driver, error)
	UpdateDriver(ctx context.Context, dr *model.Driver) error
	DeactivateDriver(ctx context.Context, ownerID, driverID string) error
}

type customer interface {
	CreateCustomer(ctx context.Context, c *model.Customer) (*model.Customer, error)
	GetCustomer(ctx context.Context, ownerID, customerID string) (*model.Customer, error)
	ListCustomers(ctx context.Context, ownerID string) ([]*model.Customer, error)
	UpdateCustomer(ctx context.Context, c *model.Customer) error
	DeactivateCustomer(ctx context.Context, ownerID, customerID string) error
}

// trip defines methods for trip records, including the settlement-facing
// queries over the collaboration pair.
type trip interface {
	RecordTrip(ctx context.Context, t *model.Trip) (*model.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*model.Trip, error)
	ListTrips(ctx context.Context, ownerID string, from, to *time.Time, limit, offset int) ([]*model.Trip, error)
	UpdateTrip(ctx context.Context, t *model.Trip) error
	UpdateTripStatus(ctx context.Context, tripID, status string) error
	DeactivateTrip(ctx context.Context, ownerID, tripID string) error
	GetUnsettledTripsBetween(ctx context.Context, ownerA, ownerB string, from, to time.Time) ([]*model.Trip, error)
	CountTripsBetweenAfter(ctx context.Context, ownerA, ownerB string, after time.Time) (int, error)
	CountTripsBetweenInRange(ctx context.Context, ownerA, ownerB string, from, to time.Time) (int, error)
}

type expense interface {
	RecordExpense(ctx context.Context, e *model.Expense) (*model.Expense, error)
	GetExpense(ctx context.Context, ownerID, expenseID string) (*model.Expense, error)
	ListExpenses(ctx context.Context, ownerID string, from, to *time.Time, limit, offset int) ([]*model.Expense, error)
	UpdateExpense(ctx context.Context, e *model.Expense) error
	DeactivateExpense(ctx context.Context, ownerID, expenseID string) error
}

type salary interface {
	RecordSalaryEntry(ctx context.Context, s *model.SalaryEntry) (*model.SalaryEntry, error)
	ListSalaryEntries(ctx context.Context, ownerID, driverID string, limit, offset int) ([]*model.SalaryEntry, error)
	DeactivateSalaryEntry(ctx context.Context, ownerID, entryID string) error
}

// settlement defines methods for the settlement reconciliation engine and its
// payment ledger. Mutations carry the version read by the caller; the store
// rejects writes against a stale version.
type settlement interface {
	RecordSettlement(ctx context.Context, s *model.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*model.Settlement, error)
	ListSettlements(ctx context.Context, ownerID string, status string, limit, offset int) ([]*model.Settlement, error)
	ListSettlementsBetween(ctx context.Context, ownerA, ownerB string) ([]*model.Settlement, error)
	GetLatestSettlementBetween(ctx context.Context, ownerA, ownerB string) (*model.Settlement, error)
	AddPayment(ctx context.Context, settlementID string, version int, p *model.Payment) error
	UpdatePaymentStatus(ctx context.Context, settlementID string, version int, p *model.Payment, settlementStatus string) error
	CancelSettlement(ctx context.Context, settlementID string, version int) error
	GetSettlementStats(ctx context.Context, ownerID string, from, to time.Time) (*model.SettlementStats, error)
	GetSettlementsWithPendingPayments(ctx context.Context, olderThan time.Time) ([]*model.Settlement, error)
}
