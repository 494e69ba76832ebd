package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lorrybook/lorrybook/api/middleware"
	model2 "github.com/lorrybook/lorrybook/api/model"
)

func (a Api) RequestCollaboration(c *gin.Context) {
	var req model2.RequestCollaboration
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRequestCollaboration(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	collaboration, err := a.lorrybook.RequestCollaboration(c.Request.Context(), c.GetString(middleware.ContextOwnerID), req.PartnerID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, collaboration)
}

func (a Api) RespondToCollaboration(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		BadRequest(c, "id is required. pass id in the route /:id")
		return
	}

	var req model2.RespondCollaboration
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.ValidateRespondCollaboration(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	collaboration, err := a.lorrybook.RespondToCollaboration(c.Request.Context(), c.GetString(middleware.ContextOwnerID), id, req.Action == "accept")
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, collaboration)
}

func (a Api) ListCollaborations(c *gin.Context) {
	collaborations, err := a.lorrybook.ListCollaborations(c.Request.Context(), c.GetString(middleware.ContextOwnerID))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, collaborations)
}

func (a Api) ListPartners(c *gin.Context) {
	partners, err := a.lorrybook.ListPartners(c.Request.Context(), c.GetString(middleware.ContextOwnerID))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, partners)
}
