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

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func (d Datasource) CreateCollaboration(ctx context.Context, c *model.Collaboration) (*model.Collaboration, error) {
	c.CollaborationID = model.GenerateUUIDWithSuffix("col")
	c.Status = model.CollaborationRequested
	c.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.collaborations (collaboration_id, owner_a_id, owner_b_id, requested_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.CollaborationID, c.OwnerAID, c.OwnerBID, c.RequestedBy, c.Status, c.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Collaboration already exists", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "One of the owners does not exist", err)
			case "check_violation":
				return nil, apierror.NewAPIError(apierror.ErrBadRequest, "An owner cannot collaborate with themselves", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create collaboration", err)
	}

	return c, nil
}

func (d Datasource) GetCollaboration(ctx context.Context, collaborationID string) (*model.Collaboration, error) {
	c := model.Collaboration{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, collaboration_id, owner_a_id, owner_b_id, requested_by, status, created_at, responded_at
		FROM lorrybook.collaborations
		WHERE collaboration_id = $1
	`, collaborationID)

	err := row.Scan(&c.ID, &c.CollaborationID, &c.OwnerAID, &c.OwnerBID, &c.RequestedBy, &c.Status, &c.CreatedAt, &c.RespondedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Collaboration not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve collaboration", err)
	}

	return &c, nil
}

// GetAcceptedCollaboration looks the pair up in either orientation. Settlement
// operations use this as their authorization gate.
func (d Datasource) GetAcceptedCollaboration(ctx context.Context, ownerA, ownerB string) (*model.Collaboration, error) {
	c := model.Collaboration{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, collaboration_id, owner_a_id, owner_b_id, requested_by, status, created_at, responded_at
		FROM lorrybook.collaborations
		WHERE status = 'accepted'
		  AND ((owner_a_id = $1 AND owner_b_id = $2) OR (owner_a_id = $2 AND owner_b_id = $1))
	`, ownerA, ownerB)

	err := row.Scan(&c.ID, &c.CollaborationID, &c.OwnerAID, &c.OwnerBID, &c.RequestedBy, &c.Status, &c.CreatedAt, &c.RespondedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "No accepted collaboration between these owners", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve collaboration", err)
	}

	return &c, nil
}

func (d Datasource) UpdateCollaborationStatus(ctx context.Context, collaborationID, status string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE lorrybook.collaborations
		SET status = $2, responded_at = NOW()
		WHERE collaboration_id = $1 AND status = 'requested'
	`, collaborationID, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update collaboration status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update collaboration status", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrConflict, "Collaboration has already been responded to", nil)
	}

	return nil
}

func (d Datasource) ListCollaborationsForOwner(ctx context.Context, ownerID string) ([]*model.Collaboration, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, collaboration_id, owner_a_id, owner_b_id, requested_by, status, created_at, responded_at
		FROM lorrybook.collaborations
		WHERE owner_a_id = $1 OR owner_b_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve collaborations", err)
	}
	defer rows.Close()

	collaborations := []*model.Collaboration{}
	for rows.Next() {
		c := model.Collaboration{}
		err = rows.Scan(&c.ID, &c.CollaborationID, &c.OwnerAID, &c.OwnerBID, &c.RequestedBy, &c.Status, &c.CreatedAt, &c.RespondedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan collaboration data", err)
		}
		collaborations = append(collaborations, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over collaborations", err)
	}

	return collaborations, nil
}

// ListPartners returns the counterparty of every accepted collaboration the
// owner is part of.
func (d Datasource) ListPartners(ctx context.Context, ownerID string) ([]*model.Partner, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT o.owner_id, o.name, o.phone, c.collaboration_id, c.responded_at
		FROM lorrybook.collaborations c
		JOIN lorrybook.owners o
		  ON o.owner_id = CASE WHEN c.owner_a_id = $1 THEN c.owner_b_id ELSE c.owner_a_id END
		WHERE c.status = 'accepted' AND (c.owner_a_id = $1 OR c.owner_b_id = $1)
		ORDER BY c.responded_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve partners", err)
	}
	defer rows.Close()

	partners := []*model.Partner{}
	for rows.Next() {
		p := model.Partner{}
		var since sql.NullTime
		err = rows.Scan(&p.OwnerID, &p.Name, &p.Phone, &p.CollaborationID, &since)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan partner data", err)
		}
		if since.Valid {
			p.Since = since.Time
		}
		partners = append(partners, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over partners", err)
	}

	return partners, nil
}
