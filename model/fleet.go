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

// Lorry is a vehicle in an owner's fleet.
type Lorry struct {
	ID                 int64     `json:"-"`
	LorryID            string    `json:"lorry_id"`
	OwnerID            string    `json:"owner_id"`
	RegistrationNumber string    `json:"registration_number"`
	Model              string    `json:"model"`
	Capacity           string    `json:"capacity"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

// Driver is employed by an owner and may be assigned to trips.
type Driver struct {
	ID            int64           `json:"-"`
	DriverID      string          `json:"driver_id"`
	OwnerID       string          `json:"owner_id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	LicenseNumber string          `json:"license_number"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Customer is an owner's freight customer.
type Customer struct {
	ID         int64     `json:"-"`
	CustomerID string    `json:"customer_id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Expense categories are free-form but these cover the common cases.
const (
	ExpenseFuel        = "fuel"
	ExpenseMaintenance = "maintenance"
	ExpenseToll        = "toll"
	ExpenseOther       = "other"
)

// Expense is an owner-scoped running cost, optionally tied to a lorry or trip.
type Expense struct {
	ID          int64           `json:"-"`
	ExpenseID   string          `json:"expense_id"`
	OwnerID     string          `json:"owner_id"`
	LorryID     string          `json:"lorry_id,omitempty"`
	TripID      string          `json:"trip_id,omitempty"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	Notes       string          `json:"notes,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

const (
	SalaryAdvance = "advance"
	SalaryPayment = "payment"
	SalaryBonus   = "bonus"
	SalaryDeduct  = "deduction"
)

// SalaryEntry is one line in a driver's salary ledger.
type SalaryEntry struct {
	ID        int64           `json:"-"`
	EntryID   string          `json:"entry_id"`
	OwnerID   string          `json:"owner_id"`
	DriverID  string          `json:"driver_id"`
	EntryType string          `json:"entry_type"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate time.Time       `json:"entry_date"`
	Notes     string          `json:"notes,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}
