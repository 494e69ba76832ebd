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

	"golang.org/x/crypto/bcrypt"

	"github.com/lorrybook/lorrybook/config"
	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/internal/token"
	"github.com/lorrybook/lorrybook/model"
)

// RegisterOwner creates a new owner account with a hashed password.
func (l *Lorrybook) RegisterOwner(ctx context.Context, owner *model.Owner, password string) (*model.Owner, error) {
	if len(password) < 8 {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Password must be at least 8 characters", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to hash password", err)
	}
	owner.PasswordHash = string(hash)
	return l.datasource.CreateOwner(ctx, owner)
}

// Login verifies credentials and issues a signed token carrying the owner's
// identity and role.
func (l *Lorrybook) Login(ctx context.Context, email, password string) (string, *model.Owner, error) {
	owner, err := l.datasource.GetOwnerByEmail(ctx, email)
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			return "", nil, apierror.NewAPIError(apierror.ErrUnauthorized, "Invalid email or password", nil)
		}
		return "", nil, err
	}
	if !owner.Active {
		return "", nil, apierror.NewAPIError(apierror.ErrUnauthorized, "Account is deactivated", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)); err != nil {
		return "", nil, apierror.NewAPIError(apierror.ErrUnauthorized, "Invalid email or password", nil)
	}

	cnf, err := config.Fetch()
	if err != nil {
		return "", nil, err
	}
	ttl := time.Duration(cnf.Auth.TokenTTLMins) * time.Minute
	signed, err := token.Generate(cnf.Auth.JwtSecret, owner.OwnerID, owner.Name, owner.Role, ttl)
	if err != nil {
		return "", nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to issue token", err)
	}

	return signed, owner, nil
}

// GetOwner returns the owner's own profile.
func (l *Lorrybook) GetOwner(ctx context.Context, ownerID string) (*model.Owner, error) {
	return l.datasource.GetOwnerByID(ctx, ownerID)
}

// UpdateOwnerProfile updates the mutable profile fields.
func (l *Lorrybook) UpdateOwnerProfile(ctx context.Context, ownerID, name, phone string) (*model.Owner, error) {
	owner, err := l.datasource.GetOwnerByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		owner.Name = name
	}
	if phone != "" {
		owner.Phone = phone
	}
	if err := l.datasource.UpdateOwner(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}
