package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	ctxKeyUser    = "auth.user"
	ctxKeyToken   = "auth.token"
	ctxKeyTraceID = "trace_id"

	traceParentHeader = "traceparent"
)

// bearerToken extracts the credential from the Authorization header.
// A missing header or a scheme other than Bearer yields "".
func bearerToken(c *gin.Context) string {
	h := c.GetHeader(common.AuthorizationHeader)
	if len(h) <= len(common.BearerPrefix) || !strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(common.BearerPrefix):])
}

// RequireAuth rejects requests without a usable bearer credential.
// Missing credential: 401. Bad signature or expiry: 403. Unknown user: 401.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			h.authEvent("validate", "missing_token")
			abortWithError(c, errMissingToken)
			return
		}

		user, err := h.auth.Validate(c.Request.Context(), token)
		if err != nil {
			_, body := classify(err)
			h.authEvent("validate", body.Code)
			abortWithError(c, err)
			return
		}

		c.Set(ctxKeyUser, user)
		c.Set(ctxKeyToken, token)
		c.Next()
	}
}

func currentUser(c *gin.Context) (*models.UserSummary, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.UserSummary)
	return u, ok
}

// traceID prefers the W3C traceparent header, then X-Trace-ID, then a fresh
// random id.
func traceID(c *gin.Context) string {
	if tp := c.GetHeader(traceParentHeader); tp != "" {
		if parts := strings.Split(tp, "-"); len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}
	if id := c.GetHeader(common.TraceIDHeader); id != "" {
		return id
	}
	id, err := common.MakeRandHexString(16)
	if err != nil {
		return "unknown"
	}
	return id
}

// LoggingMiddleware logs one line per request and places a trace-scoped
// zerolog logger into the request context for the layers below.
func LoggingMiddleware(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		id := traceID(c)
		c.Set(ctxKeyTraceID, id)

		logger := base.With().Str("trace_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Header(common.TraceIDHeader, id)

		c.Next()

		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.Last().Error())
		}

		event.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")
	}
}
