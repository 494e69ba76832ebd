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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lorrybook/lorrybook/api/middleware"
	model2 "github.com/lorrybook/lorrybook/api/model"
	"github.com/lorrybook/lorrybook/model"
)

// dateQuery parses an optional YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(model.DateOnly, raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func (a Api) RecordTrip(c *gin.Context) {
	var req model2.RecordTrip
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRecordTrip(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	trip, err := a.lorrybook.RecordTrip(c.Request.Context(), c.GetString(middleware.ContextOwnerID), req.ToTrip())
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, trip)
}

func (a Api) GetTrip(c *gin.Context) {
	trip, err := a.lorrybook.GetTrip(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, trip)
}

func (a Api) ListTrips(c *gin.Context) {
	from, ok := dateQuery(c, "from_date")
	if !ok {
		BadRequest(c, "from_date must be in YYYY-MM-DD format")
		return
	}
	to, ok := dateQuery(c, "to_date")
	if !ok {
		BadRequest(c, "to_date must be in YYYY-MM-DD format")
		return
	}

	limit, offset := pagination(c)
	trips, err := a.lorrybook.ListTrips(c.Request.Context(), c.GetString(middleware.ContextOwnerID), from, to, limit, offset)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, trips)
}

func (a Api) UpdateTrip(c *gin.Context) {
	var req model2.RecordTrip
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRecordTrip(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	trip := req.ToTrip()
	trip.TripID = c.Param("id")
	updated, err := a.lorrybook.UpdateTrip(c.Request.Context(), c.GetString(middleware.ContextOwnerID), trip)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, updated)
}

func (a Api) UpdateTripStatus(c *gin.Context) {
	var req model2.UpdateTripStatus
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateUpdateTripStatus(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	trip, err := a.lorrybook.UpdateTripStatus(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"), req.Status)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, trip)
}

func (a Api) DeleteTrip(c *gin.Context) {
	if err := a.lorrybook.DeleteTrip(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": true})
}
