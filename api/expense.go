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

	"github.com/gin-gonic/gin"

	"github.com/lorrybook/lorrybook/api/middleware"
	model2 "github.com/lorrybook/lorrybook/api/model"
)

func (a Api) RecordExpense(c *gin.Context) {
	var req model2.RecordExpense
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRecordExpense(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	expense, err := a.lorrybook.RecordExpense(c.Request.Context(), req.ToExpense(c.GetString(middleware.ContextOwnerID)))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, expense)
}

func (a Api) GetExpense(c *gin.Context) {
	expense, err := a.lorrybook.GetExpense(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, expense)
}

func (a Api) ListExpenses(c *gin.Context) {
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
	expenses, err := a.lorrybook.ListExpenses(c.Request.Context(), c.GetString(middleware.ContextOwnerID), from, to, limit, offset)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, expenses)
}

func (a Api) UpdateExpense(c *gin.Context) {
	var req model2.RecordExpense
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRecordExpense(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	expense := req.ToExpense(c.GetString(middleware.ContextOwnerID))
	expense.ExpenseID = c.Param("id")
	updated, err := a.lorrybook.UpdateExpense(c.Request.Context(), expense)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, updated)
}

func (a Api) DeleteExpense(c *gin.Context) {
	if err := a.lorrybook.DeleteExpense(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": true})
}
