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

func (a Api) RegisterOwner(c *gin.Context) {
	var req model2.RegisterOwner
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRegisterOwner(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	owner, err := a.lorrybook.RegisterOwner(c.Request.Context(), req.ToOwner(), req.Password)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, owner)
}

func (a Api) Login(c *gin.Context) {
	var req model2.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateLogin(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	token, owner, err := a.lorrybook.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"token": token, "owner": owner})
}

func (a Api) GetProfile(c *gin.Context) {
	owner, err := a.lorrybook.GetOwner(c.Request.Context(), c.GetString(middleware.ContextOwnerID))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, owner)
}

func (a Api) UpdateProfile(c *gin.Context) {
	var req model2.UpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	owner, err := a.lorrybook.UpdateOwnerProfile(c.Request.Context(), c.GetString(middleware.ContextOwnerID), req.Name, req.Phone)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, owner)
}
