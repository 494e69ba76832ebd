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
	"database/sql"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

const tripColumns = `
	id, trip_id, trip_number, delivered_by, COALESCE(customer_owner_id, ''),
	COALESCE(customer_id, ''), COALESCE(lorry_id, ''), COALESCE(driver_id, ''),
	COALESCE(material, ''), COALESCE(from_location, ''), COALESCE(to_location, ''),
	trip_date, amount, status, COALESCE(settlement_id, ''), COALESCE(notes, ''),
	active, created_at`

func scanTrip(scanner interface{ Scan(...interface{}) error }) (*model.Trip, error) {
	t := model.Trip{}
	err := scanner.Scan(&t.ID, &t.TripID, &t.TripNumber, &t.DeliveredBy, &t.CustomerOwnerID,
		&t.CustomerID, &t.LorryID, &t.DriverID, &t.Material, &t.FromLocation, &t.ToLocation,
		&t.TripDate, &t.Amount, &t.Status, &t.SettlementID, &t.Notes, &t.Active, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d Datasource) RecordTrip(ctx context.Context, t *model.Trip) (*model.Trip, error) {
	t.TripID = model.GenerateUUIDWithSuffix("trip")
	if t.Status == "" {
		t.Status = model.TripScheduled
	}
	t.Active = true
	t.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.trips
			(trip_id, trip_number, delivered_by, customer_owner_id, customer_id, lorry_id, driver_id,
			 material, from_location, to_location, trip_date, amount, status, notes, active, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			$8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, t.TripID, t.TripNumber, t.DeliveredBy, t.CustomerOwnerID, t.CustomerID, t.LorryID, t.DriverID,
		t.Material, t.FromLocation, t.ToLocation, t.TripDate, t.Amount, t.Status, t.Notes, t.Active, t.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "A trip with this ID already exists", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "Referenced owner, customer, lorry or driver does not exist", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record trip", err)
	}

	return t, nil
}

func (d Datasource) GetTrip(ctx context.Context, tripID string) (*model.Trip, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+tripColumns+`
		FROM lorrybook.trips
		WHERE trip_id = $1
	`, tripID)

	t, err := scanTrip(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Trip not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve trip", err)
	}

	return t, nil
}

// ListTrips returns an owner's trips, as deliverer or as billed party,
// newest first. The date filters apply to trip_date.
func (d Datasource) ListTrips(ctx context.Context, ownerID string, from, to *time.Time, limit, offset int) ([]*model.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM lorrybook.trips
		WHERE (delivered_by = $1 OR customer_owner_id = $1) AND active = TRUE`
	args := []interface{}{ownerID}
	if from != nil {
		args = append(args, *from)
		query += ` AND trip_date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND trip_date <= $3`
		} else {
			query += ` AND trip_date <= $2`
		}
	}
	args = append(args, limit, offset)
	query += ` ORDER BY trip_date DESC, created_at DESC`
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
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve trips", err)
	}
	defer rows.Close()

	trips := []*model.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan trip data", err)
		}
		trips = append(trips, t)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over trips", err)
	}

	return trips, nil
}

// UpdateTrip rewrites the mutable trip fields. Settled trips are immutable;
// the WHERE clause enforces that and the rowcount distinguishes the cases.
func (d Datasource) UpdateTrip(ctx context.Context, t *model.Trip) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE lorrybook.trips
		SET trip_number = $2, customer_id = NULLIF($3, ''), lorry_id = NULLIF($4, ''),
			driver_id = NULLIF($5, ''), material = $6, from_location = $7, to_location = $8,
			trip_date = $9, amount = $10, notes = $11
		WHERE trip_id = $1 AND settlement_id IS NULL
	`, t.TripID, t.TripNumber, t.CustomerID, t.LorryID, t.DriverID, t.Material,
		t.FromLocation, t.ToLocation, t.TripDate, t.Amount, t.Notes)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update trip", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update trip", err)
	}
	if rows == 0 {
		existing, getErr := d.GetTrip(ctx, t.TripID)
		if getErr != nil {
			return getErr
		}
		if existing.IsSettled() {
			return apierror.NewAPIError(apierror.ErrConflict, "Trip belongs to a settlement and can no longer be edited", nil)
		}
		return apierror.NewAPIError(apierror.ErrNotFound, "Trip not found", nil)
	}

	return nil
}

func (d Datasource) UpdateTripStatus(ctx context.Context, tripID, status string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE lorrybook.trips SET status = $2 WHERE trip_id = $1
	`, tripID, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update trip status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update trip status", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Trip not found", nil)
	}
	return nil
}

func (d Datasource) DeactivateTrip(ctx context.Context, ownerID, tripID string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE lorrybook.trips
		SET active = FALSE
		WHERE trip_id = $1 AND delivered_by = $2 AND settlement_id IS NULL
	`, tripID, ownerID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete trip", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete trip", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrConflict, "Trip not found or already settled", nil)
	}
	return nil
}

// GetUnsettledTripsBetween returns every delivered, unsettled cross-owner
// trip between the pair whose trip_date falls inside [from, to], in either
// direction, ordered by trip_date.
func (d Datasource) GetUnsettledTripsBetween(ctx context.Context, ownerA, ownerB string, from, to time.Time) ([]*model.Trip, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Fetching unsettled trips between owners")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM lorrybook.trips
		WHERE status = 'delivered'
		  AND settlement_id IS NULL
		  AND active = TRUE
		  AND trip_date >= $3 AND trip_date <= $4
		  AND ((delivered_by = $1 AND customer_owner_id = $2) OR (delivered_by = $2 AND customer_owner_id = $1))
		ORDER BY trip_date, created_at
	`, ownerA, ownerB, from, to)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve unsettled trips", err)
	}
	defer rows.Close()

	trips := []*model.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan trip data", err)
		}
		trips = append(trips, t)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over trips", err)
	}

	return trips, nil
}

// CountTripsBetweenAfter counts delivered, unsettled cross-owner trips dated
// strictly after the given date. Used by the range suggester.
func (d Datasource) CountTripsBetweenAfter(ctx context.Context, ownerA, ownerB string, after time.Time) (int, error) {
	var count int
	err := d.Conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM lorrybook.trips
		WHERE status = 'delivered'
		  AND settlement_id IS NULL
		  AND active = TRUE
		  AND trip_date > $3
		  AND ((delivered_by = $1 AND customer_owner_id = $2) OR (delivered_by = $2 AND customer_owner_id = $1))
	`, ownerA, ownerB, after).Scan(&count)
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to count trips", err)
	}
	return count, nil
}

// CountTripsBetweenInRange counts delivered, unsettled cross-owner trips with
// trip_date inside [from, to] inclusive.
func (d Datasource) CountTripsBetweenInRange(ctx context.Context, ownerA, ownerB string, from, to time.Time) (int, error) {
	var count int
	err := d.Conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM lorrybook.trips
		WHERE status = 'delivered'
		  AND settlement_id IS NULL
		  AND active = TRUE
		  AND trip_date >= $3 AND trip_date <= $4
		  AND ((delivered_by = $1 AND customer_owner_id = $2) OR (delivered_by = $2 AND customer_owner_id = $1))
	`, ownerA, ownerB, from, to).Scan(&count)
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to count trips", err)
	}
	return count, nil
}
