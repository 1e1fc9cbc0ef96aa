package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/metrics"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	authorizationHeader = "Authorization"
	bearerSchema        = "Bearer "
	callerKey           = "caller" // Key to store the resolved caller in Gin context
)

// AuthMiddleware validates the bearer access token and resolves the calling account.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			abortWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.Header("WWW-Authenticate", "Bearer")
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerSchema))
		caller, err := authService.CurrentCaller(c.Request.Context(), tokenString)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RoleMiddleware lets through only callers holding one of the given roles.
// Must run after AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFromContext(c)
		if !ok {
			return
		}
		if err := auth.RequireRole(caller, allowedRoles...); err != nil {
			abortWithError(c, http.StatusForbidden, "Not enough permissions")
			return
		}
		c.Next()
	}
}

// callerFromContext returns the caller stored by AuthMiddleware, aborting with 401 when it is missing.
func callerFromContext(c *gin.Context) (*auth.Caller, bool) {
	value, exists := c.Get(callerKey)
	if !exists {
		abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	caller, ok := value.(*auth.Caller)
	if !ok || caller == nil {
		log.Errorf("unexpected caller type in context: %T", value)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return nil, false
	}
	return caller, true
}

// CORSMiddleware answers preflights and rejects origins outside the allow-list.
// Requests without an Origin header are not cross-origin and pass untouched.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := map[string]bool{}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if !allowAll && !allowed[origin] {
			log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", c.Request.URL.Path, origin)
			abortWithError(c, http.StatusForbidden, "Origin not allowed")
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestLogger logs every finished request with logrus fields.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Info("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// RequestMetrics records count and duration per matched route.
func RequestMetrics(instr *metrics.Instrumentation) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		instr.GaugeRequests.Inc()
		defer instr.GaugeRequests.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		instr.CounterRequests.WithLabelValues(c.Request.Method, route, fmt.Sprint(c.Writer.Status())).Inc()
		instr.HistRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// PanicRecovery turns a handler panic into a 500 and counts it.
func PanicRecovery(instr *metrics.Instrumentation) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				instr.CounterHandleRequestPanic.Inc()
				log.Errorf("panic while serving %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
			}
		}()
		c.Next()
	}
}
