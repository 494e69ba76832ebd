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

// RecordTrip records a freight movement delivered by the acting owner. A
// cross-owner trip requires an accepted collaboration with the billed owner.
func (l *Lorrybook) RecordTrip(ctx context.Context, actingOwnerID string, trip *model.Trip) (*model.Trip, error) {
	trip.DeliveredBy = actingOwnerID
	if !trip.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Trip amount must be positive", nil)
	}
	if trip.CustomerOwnerID != "" {
		if err := l.requireCollaboration(ctx, actingOwnerID, trip.CustomerOwnerID); err != nil {
			return nil, err
		}
	}
	trip.TripDate = model.TruncateToDay(trip.TripDate)
	return l.datasource.RecordTrip(ctx, trip)
}

// GetTrip returns a trip visible to the acting owner, either as deliverer or
// as the billed party.
func (l *Lorrybook) GetTrip(ctx context.Context, actingOwnerID, tripID string) (*model.Trip, error) {
	trip, err := l.datasource.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DeliveredBy != actingOwnerID && trip.CustomerOwnerID != actingOwnerID {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Trip not found", nil)
	}
	return trip, nil
}

func (l *Lorrybook) ListTrips(ctx context.Context, actingOwnerID string, from, to *time.Time, limit, offset int) ([]*model.Trip, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return l.datasource.ListTrips(ctx, actingOwnerID, from, to, limit, offset)
}

// UpdateTrip edits an unsettled trip. Only the delivering owner may edit, and
// a trip locked into a settlement is immutable.
func (l *Lorrybook) UpdateTrip(ctx context.Context, actingOwnerID string, trip *model.Trip) (*model.Trip, error) {
	existing, err := l.datasource.GetTrip(ctx, trip.TripID)
	if err != nil {
		return nil, err
	}
	if existing.DeliveredBy != actingOwnerID {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only the delivering owner can edit a trip", nil)
	}
	if !trip.Amount.IsPositive() {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Trip amount must be positive", nil)
	}
	trip.TripDate = model.TruncateToDay(trip.TripDate)
	if err := l.datasource.UpdateTrip(ctx, trip); err != nil {
		return nil, err
	}
	return l.datasource.GetTrip(ctx, trip.TripID)
}

// UpdateTripStatus moves a trip through its delivery lifecycle.
func (l *Lorrybook) UpdateTripStatus(ctx context.Context, actingOwnerID, tripID, status string) (*model.Trip, error) {
	switch status {
	case model.TripScheduled, model.TripInTransit, model.TripDelivered, model.TripCancelled:
	default:
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid trip status", nil)
	}

	trip, err := l.datasource.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DeliveredBy != actingOwnerID {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only the delivering owner can update a trip", nil)
	}
	if trip.IsSettled() {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Trip belongs to a settlement and can no longer be edited", nil)
	}
	if err := l.datasource.UpdateTripStatus(ctx, tripID, status); err != nil {
		return nil, err
	}
	return l.datasource.GetTrip(ctx, tripID)
}

// DeleteTrip soft-deletes an unsettled trip.
func (l *Lorrybook) DeleteTrip(ctx context.Context, actingOwnerID, tripID string) error {
	return l.datasource.DeactivateTrip(ctx, actingOwnerID, tripID)
}
