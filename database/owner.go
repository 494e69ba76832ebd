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

func (d Datasource) CreateOwner(ctx context.Context, owner *model.Owner) (*model.Owner, error) {
	owner.OwnerID = model.GenerateUUIDWithSuffix("own")
	owner.CreatedAt = time.Now()
	if owner.Role == "" {
		owner.Role = model.RoleOwner
	}
	owner.Active = true

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO lorrybook.owners (owner_id, name, email, phone, role, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, owner.OwnerID, owner.Name, owner.Email, owner.Phone, owner.Role, owner.PasswordHash, owner.Active, owner.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "An owner with this email already exists", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create owner", err)
	}

	return owner, nil
}

func (d Datasource) GetOwnerByID(ctx context.Context, ownerID string) (*model.Owner, error) {
	return d.getOwner(ctx, "owner_id", ownerID)
}

func (d Datasource) GetOwnerByEmail(ctx context.Context, email string) (*model.Owner, error) {
	return d.getOwner(ctx, "email", email)
}

func (d Datasource) getOwner(ctx context.Context, column, value string) (*model.Owner, error) {
	owner := model.Owner{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, owner_id, name, email, phone, role, password_hash, active, created_at
		FROM lorrybook.owners
		WHERE `+column+` = $1
	`, value)

	err := row.Scan(&owner.ID, &owner.OwnerID, &owner.Name, &owner.Email, &owner.Phone, &owner.Role, &owner.PasswordHash, &owner.Active, &owner.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Owner not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve owner", err)
	}

	return &owner, nil
}

func (d Datasource) UpdateOwner(ctx context.Context, owner *model.Owner) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE lorrybook.owners
		SET name = $2, phone = $3, password_hash = $4, active = $5
		WHERE owner_id = $1
	`, owner.OwnerID, owner.Name, owner.Phone, owner.PasswordHash, owner.Active)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update owner", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update owner", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Owner not found", nil)
	}

	return nil
}
