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

	"github.com/lorrybook/lorrybook"
	"github.com/lorrybook/lorrybook/api/middleware"
	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

type Api struct {
	lorrybook *lorrybook.Lorrybook
	router    *gin.Engine
}

// Router wires every route. Everything except registration and login sits
// behind bearer auth with the owner role.
func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/auth/register", a.RegisterOwner)
	router.POST("/auth/login", a.Login)

	authed := router.Group("/", middleware.BearerAuthMiddleware(), middleware.RequireRole(model.RoleOwner))

	authed.GET("/profile", a.GetProfile)
	authed.PUT("/profile", a.UpdateProfile)

	authed.POST("/collaborations", a.RequestCollaboration)
	authed.POST("/collaborations/:id/respond", a.RespondToCollaboration)
	authed.GET("/collaborations", a.ListCollaborations)
	authed.GET("/partners", a.ListPartners)

	authed.POST("/lorries", a.CreateLorry)
	authed.GET("/lorries", a.ListLorries)
	authed.GET("/lorries/:id", a.GetLorry)
	authed.PUT("/lorries/:id", a.UpdateLorry)
	authed.DELETE("/lorries/:id", a.DeleteLorry)

	authed.POST("/drivers", a.CreateDriver)
	authed.GET("/drivers", a.ListDrivers)
	authed.GET("/drivers/:id", a.GetDriver)
	authed.PUT("/drivers/:id", a.UpdateDriver)
	authed.DELETE("/drivers/:id", a.DeleteDriver)
	authed.POST("/drivers/:id/salary", a.RecordSalaryEntry)
	authed.GET("/drivers/:id/salary", a.ListSalaryEntries)

	authed.POST("/customers", a.CreateCustomer)
	authed.GET("/customers", a.ListCustomers)
	authed.GET("/customers/:id", a.GetCustomer)
	authed.PUT("/customers/:id", a.UpdateCustomer)
	authed.DELETE("/customers/:id", a.DeleteCustomer)

	authed.POST("/trips", a.RecordTrip)
	authed.GET("/trips", a.ListTrips)
	authed.GET("/trips/:id", a.GetTrip)
	authed.PUT("/trips/:id", a.UpdateTrip)
	authed.PUT("/trips/:id/status", a.UpdateTripStatus)
	authed.DELETE("/trips/:id", a.DeleteTrip)

	authed.POST("/expenses", a.RecordExpense)
	authed.GET("/expenses", a.ListExpenses)
	authed.GET("/expenses/:id", a.GetExpense)
	authed.PUT("/expenses/:id", a.UpdateExpense)
	authed.DELETE("/expenses/:id", a.DeleteExpense)

	authed.POST("/settlements/calculate", a.CalculateSettlement)
	authed.GET("/settlements/suggest-range", a.SuggestSettlementRange)
	authed.POST("/settlements", a.CreateSettlement)
	authed.GET("/settlements", a.ListSettlements)
	authed.GET("/settlements/:id", a.GetSettlement)
	authed.POST("/settlements/:id/cancel", a.CancelSettlement)
	authed.POST("/settlements/:id/payments", a.AddPayment)
	authed.POST("/settlements/:id/payments/:payment_id/approve", a.ApprovePayment)
	authed.POST("/settlements/:id/payments/:payment_id/reject", a.RejectPayment)
	authed.POST("/settlements/:id/payments/:payment_id/cancel", a.CancelPayment)

	authed.POST("/settlements/reminders/run", a.RunReminderSweep)

	authed.GET("/stats/settlements", a.GetSettlementStats)

	return a.router
}

func NewAPI(l *lorrybook.Lorrybook) *Api {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{lorrybook: l, router: r}
}

// SuccessResponse wraps every successful payload.
func SuccessResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// ErrorResponse maps domain errors to status codes and wraps the message.
func ErrorResponse(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	message := err.Error()
	if apiErr, ok := err.(apierror.APIError); ok {
		message = apiErr.Message
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

// BadRequest is for request-shape failures before the domain is reached.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
