package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/middleware"
	"github.com/noah-isme/college-erp-api/internal/models"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

// actorFromContext builds the calling actor from the JWT claims. It writes a 401 and returns
// false when the request carries no claims.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Actor{}, false
	}
	return models.Actor{
		ID:        claims.UserID,
		Role:      claims.Role,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}, true
}

// bindJSON decodes the request body, answering 400 on malformed payloads.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return false
	}
	return true
}
