package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lorrybook/lorrybook/api/middleware"
)

func (a Api) GetSettlementStats(c *gin.Context) {
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

	stats, err := a.lorrybook.GetSettlementStats(c.Request.Context(), c.GetString(middleware.ContextOwnerID), c.DefaultQuery("period", "month"), from, to)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, stats)
}
