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
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"github.com/lorrybook/lorrybook/model"
)

func validateDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateOnly, s); err != nil {
		return errors.New("please format the date as 'YYYY-MM-DD' (e.g., 2024-01-31)")
	}
	return nil
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(model.DateOnly, s)
	return t
}

func positiveAmount(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("invalid amount")
	}
	if !d.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

func (r *RegisterOwner) ValidateRegisterOwner() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

func (r *Login) ValidateLogin() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r *RequestCollaboration) ValidateRequestCollaboration() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PartnerID, validation.Required),
	)
}

func (r *RespondCollaboration) ValidateRespondCollaboration() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action, validation.Required, validation.In("accept", "reject")),
	)
}

func (r *CreateLorry) ValidateCreateLorry() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RegistrationNumber, validation.Required),
	)
}

func (r *CreateDriver) ValidateCreateDriver() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
	)
}

func (r *CreateCustomer) ValidateCreateCustomer() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
	)
}

func (r *RecordTrip) ValidateRecordTrip() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TripNumber, validation.Required),
		validation.Field(&r.TripDate, validation.Required, validation.By(validateDate)),
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

func (r *UpdateTripStatus) ValidateUpdateTripStatus() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required,
			validation.In(model.TripScheduled, model.TripInTransit, model.TripDelivered, model.TripCancelled)),
	)
}

func (r *RecordExpense) ValidateRecordExpense() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
		validation.Field(&r.ExpenseDate, validation.Required, validation.By(validateDate)),
	)
}

func (r *RecordSalaryEntry) ValidateRecordSalaryEntry() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EntryType, validation.Required,
			validation.In(model.SalaryAdvance, model.SalaryPayment, model.SalaryBonus, model.SalaryDeduct)),
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
		validation.Field(&r.EntryDate, validation.Required, validation.By(validateDate)),
	)
}

func (r *SettlementPeriod) ValidateSettlementPeriod() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PartnerID, validation.Required),
		validation.Field(&r.FromDate, validation.Required, validation.By(validateDate)),
		validation.Field(&r.ToDate, validation.Required, validation.By(validateDate)),
	)
}

func (r *RecordPayment) ValidateRecordPayment() error {
	modes := make([]interface{}, len(model.PaymentModes))
	for i, m := range model.PaymentModes {
		modes[i] = m
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
		validation.Field(&r.PaymentMode, validation.Required, validation.In(modes...)),
		validation.Field(&r.PaymentDate, validation.By(validateDate)),
	)
}

func (r *ReviewPayment) ValidateReviewPayment() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reason, validation.When(r.requireReason, validation.Required)),
	)
}
