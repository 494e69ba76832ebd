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

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/internal/notification"
	"github.com/lorrybook/lorrybook/model"
)

// RequestCollaboration sends a partnership request to another owner.
func (l *Lorrybook) RequestCollaboration(ctx context.Context, actingOwnerID, partnerID string) (*model.Collaboration, error) {
	if actingOwnerID == partnerID {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Cannot collaborate with yourself", nil)
	}
	if _, err := l.datasource.GetOwnerByID(ctx, partnerID); err != nil {
		return nil, err
	}
	if _, err := l.datasource.GetAcceptedCollaboration(ctx, actingOwnerID, partnerID); err == nil {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Collaboration already exists", nil)
	}

	collaboration := &model.Collaboration{
		OwnerAID:    actingOwnerID,
		OwnerBID:    partnerID,
		RequestedBy: actingOwnerID,
	}
	created, err := l.datasource.CreateCollaboration(ctx, collaboration)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := notification.PushWebhook("collaboration.requested", created); err != nil {
			notification.NotifyError(err)
		}
	}()

	return created, nil
}

// RespondToCollaboration accepts or rejects a pending request. Only the owner
// who did not send the request may respond.
func (l *Lorrybook) RespondToCollaboration(ctx context.Context, actingOwnerID, collaborationID string, accept bool) (*model.Collaboration, error) {
	collaboration, err := l.datasource.GetCollaboration(ctx, collaborationID)
	if err != nil {
		return nil, err
	}
	if collaboration.OwnerAID != actingOwnerID && collaboration.OwnerBID != actingOwnerID {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Not a party to this collaboration", nil)
	}
	if collaboration.RequestedBy == actingOwnerID {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "The requester cannot respond to their own request", nil)
	}
	if collaboration.Status != model.CollaborationRequested {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Collaboration has already been responded to", nil)
	}

	status := model.CollaborationRejected
	if accept {
		status = model.CollaborationAccepted
	}
	if err := l.datasource.UpdateCollaborationStatus(ctx, collaborationID, status); err != nil {
		return nil, err
	}

	return l.datasource.GetCollaboration(ctx, collaborationID)
}

// ListCollaborations returns every collaboration the owner is part of, in any
// status.
func (l *Lorrybook) ListCollaborations(ctx context.Context, actingOwnerID string) ([]*model.Collaboration, error) {
	return l.datasource.ListCollaborationsForOwner(ctx, actingOwnerID)
}

// ListPartners returns the owners this owner can settle with.
func (l *Lorrybook) ListPartners(ctx context.Context, actingOwnerID string) ([]*model.Partner, error) {
	return l.datasource.ListPartners(ctx, actingOwnerID)
}
