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

func (a Api) CalculateSettlement(c *gin.Context) {
	var req model2.SettlementPeriod
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateSettlementPeriod(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	from, to := req.ParsedPeriod()
	result, err := a.lorrybook.CalculateSettlement(c.Request.Context(), c.GetString(middleware.ContextOwnerID), req.PartnerID, from, to)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, result)
}

func (a Api) SuggestSettlementRange(c *gin.Context) {
	partnerID := c.Query("partner_id")
	if partnerID == "" {
		BadRequest(c, "partner_id is required")
		return
	}

	suggestion, err := a.lorrybook.SuggestSettlementRange(c.Request.Context(), c.GetString(middleware.ContextOwnerID), partnerID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, suggestion)
}

func (a Api) CreateSettlement(c *gin.Context) {
	var req model2.SettlementPeriod
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateSettlementPeriod(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	from, to := req.ParsedPeriod()
	settlement, err := a.lorrybook.CreateSettlement(c.Request.Context(), c.GetString(middleware.ContextOwnerID), req.PartnerID, from, to, req.Notes)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, settlement)
}

func (a Api) ListSettlements(c *gin.Context) {
	limit, offset := pagination(c)
	settlements, err := a.lorrybook.ListSettlements(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Query("status"), limit, offset)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, settlements)
}

func (a Api) GetSettlement(c *gin.Context) {
	settlement, err := a.lorrybook.GetSettlement(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, settlement)
}

func (a Api) CancelSettlement(c *gin.Context) {
	settlement, err := a.lorrybook.CancelSettlement(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, settlement)
}

func (a Api) AddPayment(c *gin.Context) {
	var req model2.RecordPayment
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRecordPayment(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	settlement, err := a.lorrybook.AddPayment(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"), req.ToPayment())
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, settlement)
}

func (a Api) ApprovePayment(c *gin.Context) {
	var req model2.ReviewPayment
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	settlement, err := a.lorrybook.ApprovePayment(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"), c.Param("payment_id"), req.Notes)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, settlement)
}

func (a Api) RejectPayment(c *gin.Context) {
	var req model2.ReviewPayment
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.RequireReason().ValidateReviewPayment(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	settlement, err := a.lorrybook.RejectPayment(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"), c.Param("payment_id"), req.Reason)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, settlement)
}

// RunReminderSweep enqueues an immediate pending-payment reminder sweep.
func (a Api) RunReminderSweep(c *gin.Context) {
	if err := a.lorrybook.EnqueueReminderSweep(); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusAccepted, gin.H{"enqueued": true})
}

func (a Api) CancelPayment(c *gin.Context) {
	settlement, err := a.lorrybook.CancelPayment(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"), c.Param("payment_id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, settlement)
}
