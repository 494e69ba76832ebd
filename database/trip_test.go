package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

func TestRecordTrip_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	trip := &model.Trip{
		TripNumber:   "TRP-001",
		DeliveredBy:  "own_a",
		Material:     "cement",
		FromLocation: "Salem",
		ToLocation:   "Chennai",
		TripDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(25000),
	}

	mock.ExpectExec("INSERT INTO lorrybook.trips").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.RecordTrip(context.Background(), trip)
	assert.NoError(t, err)
	assert.Contains(t, created.TripID, "trip_")
	assert.Equal(t, model.TripScheduled, created.Status)
	assert.True(t, created.Active)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnsettledTripsBetween(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "trip_id", "trip_number", "delivered_by", "customer_owner_id",
		"customer_id", "lorry_id", "driver_id", "material", "from_location", "to_location",
		"trip_date", "amount", "status", "settlement_id", "notes", "active", "created_at",
	}).
		AddRow(1, "trip_1", "TRP-001", "own_a", "own_b", "", "", "", "cement", "Salem", "Chennai",
			from, "25000", model.TripDelivered, "", "", true, time.Now()).
		AddRow(2, "trip_2", "TRP-002", "own_b", "own_a", "", "", "", "sand", "Erode", "Salem",
			to, "8000", model.TripDelivered, "", "", true, time.Now())

	mock.ExpectQuery("SELECT .* FROM lorrybook.trips").
		WithArgs("own_a", "own_b", from, to).
		WillReturnRows(rows)

	trips, err := ds.GetUnsettledTripsBetween(context.Background(), "own_a", "own_b", from, to)
	assert.NoError(t, err)
	assert.Len(t, trips, 2)
	assert.Equal(t, model.DirectionAToB, trips[0].DirectionBetween("own_a", "own_b"))
	assert.Equal(t, model.DirectionBToA, trips[1].DirectionBetween("own_a", "own_b"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTrip_SettledTripRejected(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	trip := &model.Trip{TripID: "trip_1", Amount: decimal.NewFromInt(9000)}

	// the guarded UPDATE touches nothing because settlement_id is set
	mock.ExpectExec("UPDATE lorrybook.trips").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .* FROM lorrybook.trips").
		WithArgs("trip_1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trip_id", "trip_number", "delivered_by", "customer_owner_id",
			"customer_id", "lorry_id", "driver_id", "material", "from_location", "to_location",
			"trip_date", "amount", "status", "settlement_id", "notes", "active", "created_at",
		}).AddRow(1, "trip_1", "TRP-001", "own_a", "own_b", "", "", "", "cement", "Salem", "Chennai",
			time.Now(), "25000", model.TripDelivered, "stl_1", "", true, time.Now()))

	err = ds.UpdateTrip(context.Background(), trip)
	assert.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestCountTripsBetweenAfter(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	after := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("own_a", "own_b", after).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := ds.CountTripsBetweenAfter(context.Background(), "own_a", "own_b", after)
	assert.NoError(t, err)
	assert.Equal(t, 12, count)
}
