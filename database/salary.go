package database

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func (d Datasource) RecordSalaryEntry(ctx context.Context, s *model.SalaryEntry) (*model.SalaryEntry, error) {
	s.EntryID = model.GenerateUUIDWithSuffix("sal")
	s.Active = true
	s.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.salary_entries (entry_id, owner_id, driver_id, entry_type, amount, entry_date, notes, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.EntryID, s.OwnerID, s.DriverID, s.EntryType, s.Amount, s.EntryDate, s.Notes, s.Active, s.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Driver does not exist", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record salary entry", err)
	}

	return s, nil
}

func (d Datasource) ListSalaryEntries(ctx context.Context, ownerID, driverID string, limit, offset int) ([]*model.SalaryEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, entry_id, owner_id, driver_id, entry_type, amount, entry_date, COALESCE(notes, ''), active, created_at
		FROM lorrybook.salary_entries
		WHERE owner_id = $1 AND driver_id = $2 AND active = TRUE
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`, ownerID, driverID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve salary entries", err)
	}
	defer rows.Close()

	entries := []*model.SalaryEntry{}
	for rows.Next() {
		s := model.SalaryEntry{}
		err = rows.Scan(&s.ID, &s.EntryID, &s.OwnerID, &s.DriverID, &s.EntryType, &s.Amount, &s.EntryDate, &s.Notes, &s.Active, &s.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan salary entry data", err)
		}
		entries = append(entries, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over salary entries", err)
	}

	return entries, nil
}

func (d Datasource) DeactivateSalaryEntry(ctx context.Context, ownerID, entryID string) error {
	return d.ownerScopedExec(ctx, `
		UPDATE lorrybook.salary_entries SET active = FALSE WHERE entry_id = $1 AND owner_id = $2
	`, "Salary entry not found", entryID, ownerID)
}
