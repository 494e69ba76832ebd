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

import "time"

const (
	RoleOwner  = "owner"
	RoleDriver = "driver"
)

// Owner is a tenant of the system. Every lorry, trip, customer and settlement
// is scoped to the owner that created it.
type Owner struct {
	ID           int64     `json:"-"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	CollaborationRequested = "requested"
	CollaborationAccepted  = "accepted"
	CollaborationRejected  = "rejected"
)

// Collaboration is an accepted partnership between two owners that allows
// cross-owner trip delivery and settlement. RequestedBy is always one of the
// two owner IDs.
type Collaboration struct {
	ID              int64      `json:"-"`
	CollaborationID string     `json:"collaboration_id"`
	OwnerAID        string     `json:"owner_a_id"`
	OwnerBID        string     `json:"owner_b_id"`
	RequestedBy     string     `json:"requested_by"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

// Involves reports whether both owners are parties to this collaboration.
func (c *Collaboration) Involves(ownerA, ownerB string) bool {
	return (c.OwnerAID == ownerA && c.OwnerBID == ownerB) ||
		(c.OwnerAID == ownerB && c.OwnerBID == ownerA)
}

// Partner is a collaboration partner eligible for settlement, as returned by
// the partners listing.
type Partner struct {
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	CollaborationID string    `json:"collaboration_id"`
	Since           time.Time `json:"since"`
}
