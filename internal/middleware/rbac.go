package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-erp-api/internal/authz"
	appErrors "github.com/noah-isme/college-erp-api/pkg/errors"
	"github.com/noah-isme/college-erp-api/pkg/response"
)

// Authorize lets the request through when the caller's role may perform action on resource.
func Authorize(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return authorize(resource, action, false)
}

// AuthorizeSelf is Authorize with the owner rule: a caller whose id equals the :id path
// parameter is treated as the owner of the record.
func AuthorizeSelf(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return authorize(resource, action, true)
}

func authorize(resource authz.Resource, action authz.Action, self bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}

		owner := self && c.Param("id") != "" && c.Param("id") == claims.UserID
		if !authz.AllowedAsOwner(claims.Role, resource, action, owner) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions"))
			return
		}
		c.Next()
	}
}
