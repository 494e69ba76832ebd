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

	"github.com/lorrybook/lorrybook/model"
)

type RegisterOwner struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r *RegisterOwner) ToOwner() *model.Owner {
	return &model.Owner{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Role:  model.RoleOwner,
	}
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type RequestCollaboration struct {
	PartnerID string `json:"partner_id"`
}

type RespondCollaboration struct {
	Action string `json:"action"` // accept or reject
}

type CreateLorry struct {
	RegistrationNumber string `json:"registration_number"`
	Model              string `json:"model"`
	Capacity           string `json:"capacity"`
}

func (r *CreateLorry) ToLorry(ownerID string) *model.Lorry {
	return &model.Lorry{
		OwnerID:            ownerID,
		RegistrationNumber: r.RegistrationNumber,
		Model:              r.Model,
		Capacity:           r.Capacity,
	}
}

type CreateDriver struct {
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	LicenseNumber string          `json:"license_number"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
}

func (r *CreateDriver) ToDriver(ownerID string) *model.Driver {
	return &model.Driver{
		OwnerID:       ownerID,
		Name:          r.Name,
		Phone:         r.Phone,
		LicenseNumber: r.LicenseNumber,
		MonthlySalary: r.MonthlySalary,
	}
}

type CreateCustomer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r *CreateCustomer) ToCustomer(ownerID string) *model.Customer {
	return &model.Customer{
		OwnerID: ownerID,
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

type RecordTrip struct {
	TripNumber      string          `json:"trip_number"`
	CustomerOwnerID string          `json:"customer_owner_id"`
	CustomerID      string          `json:"customer_id"`
	LorryID         string          `json:"lorry_id"`
	DriverID        string          `json:"driver_id"`
	Material        string          `json:"material"`
	FromLocation    string          `json:"from_location"`
	ToLocation      string          `json:"to_location"`
	TripDate        string          `json:"trip_date"`
	Amount          decimal.Decimal `json:"amount"`
	Notes           string          `json:"notes"`
}

func (r *RecordTrip) ToTrip() *model.Trip {
	return &model.Trip{
		TripNumber:      r.TripNumber,
		CustomerOwnerID: r.CustomerOwnerID,
		CustomerID:      r.CustomerID,
		LorryID:         r.LorryID,
		DriverID:        r.DriverID,
		Material:        r.Material,
		FromLocation:    r.FromLocation,
		ToLocation:      r.ToLocation,
		TripDate:        parseDate(r.TripDate),
		Amount:          r.Amount,
		Notes:           r.Notes,
	}
}

type UpdateTripStatus struct {
	Status string `json:"status"`
}

type RecordExpense struct {
	LorryID     string          `json:"lorry_id"`
	TripID      string          `json:"trip_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expense_date"`
	Notes       string          `json:"notes"`
}

func (r *RecordExpense) ToExpense(ownerID string) *model.Expense {
	return &model.Expense{
		OwnerID:     ownerID,
		LorryID:     r.LorryID,
		TripID:      r.TripID,
		Category:    r.Category,
		Amount:      r.Amount,
		ExpenseDate: parseDate(r.ExpenseDate),
		Notes:       r.Notes,
	}
}

type RecordSalaryEntry struct {
	EntryType string          `json:"entry_type"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate string          `json:"entry_date"`
	Notes     string          `json:"notes"`
}

func (r *RecordSalaryEntry) ToSalaryEntry(ownerID, driverID string) *model.SalaryEntry {
	return &model.SalaryEntry{
		OwnerID:   ownerID,
		DriverID:  driverID,
		EntryType: r.EntryType,
		Amount:    r.Amount,
		EntryDate: parseDate(r.EntryDate),
		Notes:     r.Notes,
	}
}

// SettlementPeriod drives both the dry-run calculation and settlement
// creation.
type SettlementPeriod struct {
	PartnerID string `json:"partner_id"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Notes     string `json:"notes"`
}

func (r *SettlementPeriod) ParsedPeriod() (from, to time.Time) {
	return parseDate(r.FromDate), parseDate(r.ToDate)
}

type RecordPayment struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"payment_date"`
	PaymentMode     string          `json:"payment_mode"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

func (r *RecordPayment) ToPayment() *model.Payment {
	return &model.Payment{
		Amount:          r.Amount,
		PaymentDate:     parseDate(r.PaymentDate),
		PaymentMode:     r.PaymentMode,
		ReferenceNumber: r.ReferenceNumber,
		Notes:           r.Notes,
	}
}

// ReviewPayment carries the outcome of a payment review. Reason is required
// when rejecting.
type ReviewPayment struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`

	requireReason bool
}

// RequireReason marks the review as a rejection, which makes Reason
// mandatory.
func (r *ReviewPayment) RequireReason() *ReviewPayment {
	r.requireReason = true
	return r
}
