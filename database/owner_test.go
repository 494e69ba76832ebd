package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func TestCreateOwner_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	owner := &model.Owner{
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		Phone:        gofakeit.Phone(),
		PasswordHash: "hash",
	}

	mock.ExpectExec("INSERT INTO lorrybook.owners").
		WithArgs(sqlmock.AnyArg(), owner.Name, owner.Email, owner.Phone, model.RoleOwner,
			owner.PasswordHash, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateOwner(context.Background(), owner)
	assert.NoError(t, err)
	assert.Contains(t, created.OwnerID, "own_")
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestCreateOwner_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO lorrybook.owners").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = ds.CreateOwner(context.Background(), &model.Owner{Email: "dup@example.com"})
	assert.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestGetOwnerByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM lorrybook.owners").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = ds.GetOwnerByEmail(context.Background(), "missing@example.com")
	assert.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}
