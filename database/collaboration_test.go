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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func collaborationColumns() []string {
	return []string{"id", "collaboration_id", "owner_a_id", "owner_b_id", "requested_by", "status", "created_at", "responded_at"}
}

func TestCreateCollaboration_SetsRequestedStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO lorrybook.collaborations").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateCollaboration(context.Background(), &model.Collaboration{
		OwnerAID:    "own_a",
		OwnerBID:    "own_b",
		RequestedBy: "own_a",
	})
	require.NoError(t, err)
	assert.Contains(t, created.CollaborationID, "col_")
	assert.Equal(t, model.CollaborationRequested, created.Status)
}

func TestGetAcceptedCollaboration_EitherOrientation(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	ds := Datasource{Conn: db}

	// the stored pair is (own_b, own_a); the lookup flips it
	mock.ExpectQuery("SELECT .* FROM lorrybook.collaborations").
		WithArgs("own_a", "own_b").
		WillReturnRows(sqlmock.NewRows(collaborationColumns()).
			AddRow(1, "col_1", "own_b", "own_a", "own_b", model.CollaborationAccepted, time.Now(), time.Now()))

	collab, err := ds.GetAcceptedCollaboration(context.Background(), "own_a", "own_b")
	require.NoError(t, err)
	assert.Equal(t, model.CollaborationAccepted, collab.Status)
	assert.Equal(t, "own_b", collab.OwnerAID)
}

func TestUpdateCollaborationStatus_AlreadyResponded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE lorrybook.collaborations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateCollaborationStatus(context.Background(), "col_1", model.CollaborationAccepted)
	require.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}
