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
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lorrybook/lorrybook/api/middleware"
	model2 "github.com/lorrybook/lorrybook/api/model"
)

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

func (a Api) CreateLorry(c *gin.Context) {
	var req model2.CreateLorry
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateCreateLorry(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	lorry, err := a.lorrybook.CreateLorry(c.Request.Context(), req.ToLorry(c.GetString(middleware.ContextOwnerID)))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, lorry)
}

func (a Api) ListLorries(c *gin.Context) {
	lorries, err := a.lorrybook.ListLorries(c.Request.Context(), c.GetString(middleware.ContextOwnerID))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, lorries)
}

func (a Api) GetLorry(c *gin.Context) {
	lorry, err := a.lorrybook.GetLorry(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, lorry)
}

func (a Api) UpdateLorry(c *gin.Context) {
	var req model2.CreateLorry
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateCreateLorry(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	lorry := req.ToLorry(c.GetString(middleware.ContextOwnerID))
	lorry.LorryID = c.Param("id")
	updated, err := a.lorrybook.UpdateLorry(c.Request.Context(), lorry)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, updated)
}

func (a Api) DeleteLorry(c *gin.Context) {
	if err := a.lorrybook.DeactivateLorry(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": true})
}

func (a Api) CreateDriver(c *gin.Context) {
	var req model2.CreateDriver
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateCreateDriver(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	driver, err := a.lorrybook.CreateDriver(c.Request.Context(), req.ToDriver(c.GetString(middleware.ContextOwnerID)))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, driver)
}

func (a Api) ListDrivers(c *gin.Context) {
	drivers, err := a.lorrybook.ListDrivers(c.Request.Context(), c.GetString(middleware.ContextOwnerID))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, drivers)
}

func (a Api) GetDriver(c *gin.Context) {
	driver, err := a.lorrybook.GetDriver(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, driver)
}

func (a Api) UpdateDriver(c *gin.Context) {
	var req model2.CreateDriver
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateCreateDriver(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	driver := req.ToDriver(c.GetString(middleware.ContextOwnerID))
	driver.DriverID = c.Param("id")
	updated, err := a.lorrybook.UpdateDriver(c.Request.Context(), driver)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, updated)
}

func (a Api) DeleteDriver(c *gin.Context) {
	if err := a.lorrybook.DeactivateDriver(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": true})
}

func (a Api) RecordSalaryEntry(c *gin.Context) {
	var req model2.RecordSalaryEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRecordSalaryEntry(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	entry, err := a.lorrybook.RecordSalaryEntry(c.Request.Context(), req.ToSalaryEntry(c.GetString(middleware.ContextOwnerID), c.Param("id")))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, entry)
}

func (a Api) ListSalaryEntries(c *gin.Context) {
	limit, offset := pagination(c)
	entries, err := a.lorrybook.ListSalaryEntries(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"), limit, offset)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, entries)
}

func (a Api) CreateCustomer(c *gin.Context) {
	var req model2.CreateCustomer
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateCreateCustomer(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	customer, err := a.lorrybook.CreateCustomer(c.Request.Context(), req.ToCustomer(c.GetString(middleware.ContextOwnerID)))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, customer)
}

func (a Api) ListCustomers(c *gin.Context) {
	customers, err := a.lorrybook.ListCustomers(c.Request.Context(), c.GetString(middleware.ContextOwnerID))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, customers)
}

func (a Api) GetCustomer(c *gin.Context) {
	customer, err := a.lorrybook.GetCustomer(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, customer)
}

func (a Api) UpdateCustomer(c *gin.Context) {
	var req model2.CreateCustomer
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateCreateCustomer(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	customer := req.ToCustomer(c.GetString(middleware.ContextOwnerID))
	customer.CustomerID = c.Param("id")
	updated, err := a.lorrybook.UpdateCustomer(c.Request.Context(), customer)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, updated)
}

func (a Api) DeleteCustomer(c *gin.Context) {
	if err := a.lorrybook.DeactivateCustomer(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": true})
}
