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
	"time"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func (l *Lorrybook) RecordExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	if !expense.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Expense amount must be positive", nil)
	}
	if expense.Category == "" {
		expense.Category = model.ExpenseOther
	}
	expense.ExpenseDate = model.TruncateToDay(expense.ExpenseDate)
	return l.datasource.RecordExpense(ctx, expense)
}

func (l *Lorrybook) GetExpense(ctx context.Context, actingOwnerID, expenseID string) (*model.Expense, error) {
	return l.datasource.GetExpense(ctx, actingOwnerID, expenseID)
}

func (l *Lorrybook) ListExpenses(ctx context.Context, actingOwnerID string, from, to *time.Time, limit, offset int) ([]*model.Expense, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return l.datasource.ListExpenses(ctx, actingOwnerID, from, to, limit, offset)
}

func (l *Lorrybook) UpdateExpense(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	if !expense.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Expense amount must be positive", nil)
	}
	if err := l.datasource.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return l.datasource.GetExpense(ctx, expense.OwnerID, expense.ExpenseID)
}

func (l *Lorrybook) DeleteExpense(ctx context.Context, actingOwnerID, expenseID string) error {
	return l.datasource.DeactivateExpense(ctx, actingOwnerID, expenseID)
}

// RecordSalaryEntry appends a line to one of the acting owner's drivers'
// salary ledgers.
func (l *Lorrybook) RecordSalaryEntry(ctx context.Context, entry *model.SalaryEntry) (*model.SalaryEntry, error) {
	switch entry.EntryType {
	case model.SalaryAdvance, model.SalaryPayment, model.SalaryBonus, model.SalaryDeduct:
	default:
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid salary entry type", nil)
	}
	if !entry.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Salary amount must be positive", nil)
	}
	if _, err := l.datasource.GetDriver(ctx, entry.OwnerID, entry.DriverID); err != nil {
		return nil, err
	}
	entry.EntryDate = model.TruncateToDay(entry.EntryDate)
	return l.datasource.RecordSalaryEntry(ctx, entry)
}

func (l *Lorrybook) ListSalaryEntries(ctx context.Context, actingOwnerID, driverID string, limit, offset int) ([]*model.SalaryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return l.datasource.ListSalaryEntries(ctx, actingOwnerID, driverID, limit, offset)
}

func (l *Lorrybook) DeleteSalaryEntry(ctx context.Context, actingOwnerID, entryID string) error {
	return l.datasource.DeactivateSalaryEntry(ctx, actingOwnerID, entryID)
}
