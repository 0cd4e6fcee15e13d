package rest

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"medsched/pkg/auth"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"
	claimsCtx           = "claims"
	requestIDCtx        = "request_id"
)

func (h *Handler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDCtx, id)
		c.Writer.Header().Set(requestIDHeader, id)

		c.Next()
	}
}

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		logger := h.logger.With(
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDCtx)),
		)

		if status >= 500 {
			logger.Error("server error")
		} else if status >= 400 {
			logger.Warn("client error")
		} else {
			logger.Info("request processed")
		}
	}
}

func (h *Handler) errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			h.logger.Error("request error", zap.Error(err), zap.String("request_id", c.GetString(requestIDCtx)))
		}
	}
}

func (h *Handler) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route templates keep the label set bounded.
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		h.metrics.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Content-Length, Accept-Encoding, Origin, Accept, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if header == "" {
			errorResponse(c, http.StatusUnauthorized, "empty authorization header")
			return
		}

		headerParts := strings.Split(header, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" || headerParts[1] == "" {
			errorResponse(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := h.tokens.Parse(headerParts[1])
		if err != nil {
			errorResponse(c, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		c.Set(claimsCtx, claims)

		c.Next()
	}
}

func (h *Handler) requireRoles(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := getClaims(c)
		if !ok {
			unauthorizedResponse(c)
			return
		}

		if !slices.Contains(roles, claims.Role) {
			forbiddenResponse(c)
			return
		}

		c.Next()
	}
}

func getClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(claimsCtx)
	if !exists {
		return nil, false
	}

	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// canManageLocation is the location-scope check for write access to a location's data.
// Physicians may only touch their own records; patients never.
func canManageLocation(claims *auth.Claims, physicianID, locationID int64) bool {
	switch claims.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleStaff:
		return claims.CanAccessLocation(locationID)
	case auth.RolePhysician:
		return claims.PhysicianID != nil && *claims.PhysicianID == physicianID
	}
	return false
}

// canManagePhysician covers records without a location, such as location-agnostic
// exceptions. Staff need an unscoped token for those.
func canManagePhysician(claims *auth.Claims, physicianID int64) bool {
	switch claims.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleStaff:
		return len(claims.LocationIDs) == 0
	case auth.RolePhysician:
		return claims.PhysicianID != nil && *claims.PhysicianID == physicianID
	}
	return false
}
