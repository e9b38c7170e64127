package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ferretek/procurement/internal/domain/shared"
	"github.com/ferretek/procurement/internal/interfaces/http/dto"
	"github.com/ferretek/procurement/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// ActorHeader carries the acting user for the audit trail
const ActorHeader = "X-Actor"

// IfMatchHeader carries the expected aggregate version for optimistic locking
const IfMatchHeader = "If-Match"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// getActor extracts the acting user from the request. A blank actor is
// fine; the audit log records it as "system".
func getActor(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(ActorHeader))
}

// getExpectedVersion parses the If-Match header into a version number.
// Accepts a bare number or a quoted one; a missing or garbled header is
// a malformed request, not a conflict.
func getExpectedVersion(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.GetHeader(IfMatchHeader))
	if raw == "" {
		return 0, false
	}
	raw = strings.Trim(raw, `"`)
	version, err := strconv.Atoi(raw)
	if err != nil || version < 0 {
		return 0, false
	}
	return version, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError maps a binding failure to a 400 response. Validator field
// errors carry per-field details; anything else reports the raw cause.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.BadRequest(c, "Invalid request payload: "+err.Error())
}

// MissingIfMatch sends a 400 response for an absent or unparsable If-Match header
func (h *BaseHandler) MissingIfMatch(c *gin.Context) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeMissingIfMatch,
		"If-Match header with the expected order version is required")
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleDomainError converts domain errors to HTTP responses. The domain
// error's details travel as machine-readable context so callers can act
// on conflicts without parsing messages.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		statusCode := dto.GetHTTPStatus(code)
		if len(domainErr.Details) > 0 {
			c.JSON(statusCode, dto.NewErrorResponseWithContext(code, domainErr.Message, requestID, domainErr.Details))
		} else {
			c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		}
		return
	}

	// Unknown error type - return as internal error
	h.InternalError(c, "An unexpected error occurred")
}
