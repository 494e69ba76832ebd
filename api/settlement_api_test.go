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

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lorrybook/lorrybook"
	model2 "github.com/lorrybook/lorrybook/api/model"
	"github.com/lorrybook/lorrybook/config"
	"github.com/lorrybook/lorrybook/database"
	"github.com/lorrybook/lorrybook/internal/request"
	"github.com/lorrybook/lorrybook/internal/token"
	"github.com/lorrybook/lorrybook/model"
)

type TestRequest struct {
	Payload io.Reader
	Router  *gin.Engine
	Method  string
	Route   string
	Auth    string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func SetUpTestRequest(t *testing.T, s TestRequest) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	req.Header.Set("Content-Type", "application/json")
	if s.Auth != "" {
		req.Header.Set("Authorization", "Bearer "+s.Auth)
	}
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, string) {
	t.Helper()
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
		Queue: config.QueueConfig{ReminderQueue: "reminders"},
	})

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	newLorrybook, err := lorrybook.NewLorrybook(database.Datasource{Conn: db})
	require.NoError(t, err)

	bearerToken, err := token.Generate("test-secret", "own_a", "Asha Transports", model.RoleOwner, time.Hour)
	require.NoError(t, err)

	return NewAPI(newLorrybook).Router(), mock, bearerToken
}

func TestRegisterOwner(t *testing.T) {
	router, mock, _ := setupRouter(t)

	tests := []struct {
		name         string
		payload      model2.RegisterOwner
		prepare      func()
		expectedCode int
	}{
		{
			name: "valid registration",
			payload: model2.RegisterOwner{
				Name:     "Asha Transports",
				Email:    "asha@example.com",
				Phone:    "9876543210",
				Password: "long-enough-password",
			},
			prepare: func() {
				mock.ExpectExec("INSERT INTO lorrybook.owners").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "short password",
			payload: model2.RegisterOwner{
				Name:     "Asha Transports",
				Email:    "asha@example.com",
				Password: "short",
			},
			prepare:      func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "bad email",
			payload: model2.RegisterOwner{
				Name:     "Asha Transports",
				Email:    "not-an-email",
				Password: "long-enough-password",
			},
			prepare:      func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepare()
			payload, _ := request.ToJsonReq(&tt.payload)
			resp, env := SetUpTestRequest(t, TestRequest{
				Payload: payload,
				Router:  router,
				Method:  "POST",
				Route:   "/auth/register",
			})

			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedCode == http.StatusCreated, env.Success)

			if tt.expectedCode == http.StatusCreated {
				var owner model.Owner
				require.NoError(t, json.Unmarshal(env.Data, &owner))
				assert.NotEmpty(t, owner.OwnerID)
				assert.Equal(t, tt.payload.Email, owner.Email)
			}
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router, mock, _ := setupRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("the-real-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM lorrybook.owners").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "name", "email", "phone", "role", "password_hash", "active", "created_at",
		}).AddRow(1, "own_a", "Asha Transports", "asha@example.com", "", model.RoleOwner, string(hash), true, time.Now()))

	payload, _ := request.ToJsonReq(&model2.Login{Email: "asha@example.com", Password: "wrong-password"})
	resp, env := SetUpTestRequest(t, TestRequest{
		Payload: payload,
		Router:  router,
		Method:  "POST",
		Route:   "/auth/login",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email or password", env.Error)
}

func TestAuthRequired(t *testing.T) {
	router, _, _ := setupRouter(t)

	resp, env := SetUpTestRequest(t, TestRequest{
		Router: router,
		Method: "GET",
		Route:  "/settlements",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.False(t, env.Success)
}

func TestCalculateSettlementEndpoint(t *testing.T) {
	router, mock, bearerToken := setupRouter(t)

	mock.ExpectQuery("SELECT .* FROM lorrybook.collaborations").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "collaboration_id", "owner_a_id", "owner_b_id", "requested_by", "status", "created_at", "responded_at",
		}).AddRow(1, "col_1", "own_a", "own_b", "own_a", model.CollaborationAccepted, time.Now(), time.Now()))

	tripDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM lorrybook.trips").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trip_id", "trip_number", "delivered_by", "customer_owner_id",
			"customer_id", "lorry_id", "driver_id", "material", "from_location", "to_location",
			"trip_date", "amount", "status", "settlement_id", "notes", "active", "created_at",
		}).
			AddRow(1, "trip_1", "TRP-001", "own_a", "own_b", "", "", "", "cement", "Salem", "Chennai",
				tripDate, "25000", model.TripDelivered, "", "", true, time.Now()).
			AddRow(2, "trip_2", "TRP-002", "own_b", "own_a", "", "", "", "sand", "Erode", "Salem",
				tripDate, "8000", model.TripDelivered, "", "", true, time.Now()))

	payload, _ := request.ToJsonReq(&model2.SettlementPeriod{
		PartnerID: "own_b",
		FromDate:  "2024-01-01",
		ToDate:    "2024-01-31",
	})
	resp, env := SetUpTestRequest(t, TestRequest{
		Payload: payload,
		Router:  router,
		Method:  "POST",
		Route:   "/settlements/calculate",
		Auth:    bearerToken,
	})

	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, env.Success)

	var calc model.CalculationResult
	require.NoError(t, json.Unmarshal(env.Data, &calc))
	assert.True(t, calc.NetAmount.Equal(decimal.NewFromInt(17000)))
	assert.Equal(t, model.PayableByOwnerB, calc.NetPayableBy)
	assert.Equal(t, 2, calc.TripCount)
}

func TestCreateSettlement_MissingPartner(t *testing.T) {
	router, _, bearerToken := setupRouter(t)

	payload, _ := request.ToJsonReq(&model2.SettlementPeriod{
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
	})
	resp, env := SetUpTestRequest(t, TestRequest{
		Payload: payload,
		Router:  router,
		Method:  "POST",
		Route:   "/settlements",
		Auth:    bearerToken,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, env.Success)
}

func TestSuggestRange_MissingPartnerID(t *testing.T) {
	router, _, bearerToken := setupRouter(t)

	resp, env := SetUpTestRequest(t, TestRequest{
		Router: router,
		Method: "GET",
		Route:  "/settlements/suggest-range",
		Auth:   bearerToken,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "partner_id is required", env.Error)
}

func TestRejectPayment_MissingReason(t *testing.T) {
	router, _, bearerToken := setupRouter(t)

	payload, _ := request.ToJsonReq(&model2.ReviewPayment{Notes: "does not match the bank statement"})
	resp, env := SetUpTestRequest(t, TestRequest{
		Payload: payload,
		Router:  router,
		Method:  "POST",
		Route:   "/settlements/stl_1/payments/pay_1/reject",
		Auth:    bearerToken,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, env.Success)
}
