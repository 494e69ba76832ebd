package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func (d Datasource) RecordExpense(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	e.ExpenseID = model.GenerateUUIDWithSuffix("exp")
	e.Active = true
	e.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.expenses (expense_id, owner_id, lorry_id, trip_id, category, amount, expense_date, notes, active, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10)
	`, e.ExpenseID, e.OwnerID, e.LorryID, e.TripID, e.Category, e.Amount, e.ExpenseDate, e.Notes, e.Active, e.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Owner does not exist", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record expense", err)
	}

	return e, nil
}

func (d Datasource) GetExpense(ctx context.Context, ownerID, expenseID string) (*model.Expense, error) {
	e := model.Expense{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, expense_id, owner_id, COALESCE(lorry_id, ''), COALESCE(trip_id, ''), category, amount, expense_date, COALESCE(notes, ''), active, created_at
		FROM lorrybook.expenses
		WHERE expense_id = $1 AND owner_id = $2
	`, expenseID, ownerID)

	err := row.Scan(&e.ID, &e.ExpenseID, &e.OwnerID, &e.LorryID, &e.TripID, &e.Category, &e.Amount, &e.ExpenseDate, &e.Notes, &e.Active, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Expense not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve expense", err)
	}

	return &e, nil
}

func (d Datasource) ListExpenses(ctx context.Context, ownerID string, from, to *time.Time, limit, offset int) ([]*model.Expense, error) {
	query := `
		SELECT id, expense_id, owner_id, COALESCE(lorry_id, ''), COALESCE(trip_id, ''), category, amount, expense_date, COALESCE(notes, ''), active, created_at
		FROM lorrybook.expenses
		WHERE owner_id = $1 AND active = TRUE`
	args := []interface{}{ownerID}
	if from != nil {
		args = append(args, *from)
		query += ` AND expense_date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND expense_date <= $3`
		} else {
			query += ` AND expense_date <= $2`
		}
	}
	args = append(args, limit, offset)
	query += ` ORDER BY expense_date DESC, created_at DESC`
	switch len(args) {
	case 3:
		query += ` LIMIT $2 OFFSET $3`
	case 4:
		query += ` LIMIT $3 OFFSET $4`
	case 5:
		query += ` LIMIT $4 OFFSET $5`
	}

	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve expenses", err)
	}
	defer rows.Close()

	expenses := []*model.Expense{}
	for rows.Next() {
		e := model.Expense{}
		err = rows.Scan(&e.ID, &e.ExpenseID, &e.OwnerID, &e.LorryID, &e.TripID, &e.Category, &e.Amount, &e.ExpenseDate, &e.Notes, &e.Active, &e.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan expense data", err)
		}
		expenses = append(expenses, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over expenses", err)
	}

	return expenses, nil
}

func (d Datasource) UpdateExpense(ctx context.Context, e *model.Expense) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.expenses
		SET lorry_id = NULLIF($3, ''), trip_id = NULLIF($4, ''), category = $5, amount = $6, expense_date = $7, notes = $8
		WHERE expense_id = $1 AND owner_id = $2
	`, "Expense not found", e.ExpenseID, e.OwnerID, e.LorryID, e.TripID, e.Category, e.Amount, e.ExpenseDate, e.Notes)
}

func (d Datasource) DeactivateExpense(ctx context.Context, ownerID, expenseID string) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.expenses SET active = FALSE WHERE expense_id = $1 AND owner_id = $2
	`, "Expense not found", expenseID, ownerID)
}
