package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"messenger-service/internal/middleware"
	"messenger-service/pkg/apperrors"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *string {
	if id := c.GetInt(middleware.UserIDKey); id != 0 {
		value := strconv.Itoa(id)
		return &value
	}
	return nil
}

func traceIDFromContext(c *gin.Context) string {
	span := trace.SpanContextFromContext(c.Request.Context())
	if span.HasTraceID() {
		return span.TraceID().String()
	}
	return ""
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondErr(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed route=%s request_id=%s: %v", c.FullPath(), requestIDFromContext(c), err)
	}
	c.JSON(status, gin.H{"success": false, "message": apperrors.ClientMessage(err)})
}
