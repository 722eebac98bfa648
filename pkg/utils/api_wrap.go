package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Machine-readable error kinds carried in APIResponse.Kind.
const (
	KindInvalidInput          = "invalid_input"
	KindUnauthenticated       = "unauthenticated"
	KindNotFound              = "not_found"
	KindConflict              = "conflict"
	KindQuotaExceeded         = "quota_exceeded"
	KindRateLimited           = "rate_limited"
	KindProviderError         = "provider_error"
	KindProviderNotConfigured = "provider_not_configured"
	KindStorageUnavailable    = "storage_unavailable"
	KindInternal              = "internal"
)

type QuotaErrorData struct {
	Kind  string `json:"kind"`
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorKind(c, code, kindForStatus(code), message, nil)
}

func RespondErrorKind(c *gin.Context, code int, kind, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Kind:    kind,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var quotaErr *QuotaExceededError

	switch {
	case errors.As(err, &quotaErr):
		RespondErrorKind(c, http.StatusPaymentRequired, KindQuotaExceeded,
			quotaErr.Kind+" generation limit reached (upgrade required)",
			QuotaErrorData{Kind: quotaErr.Kind, Used: quotaErr.Used, Limit: quotaErr.Limit})
	case errors.Is(err, ErrInvalidInput):
		RespondErrorKind(c, http.StatusBadRequest, KindInvalidInput, err.Error(), nil)
	case errors.Is(err, ErrUnauthenticated):
		RespondErrorKind(c, http.StatusUnauthorized, KindUnauthenticated, "Authentication required", nil)
	case errors.Is(err, ErrInvalidCredentials):
		RespondErrorKind(c, http.StatusUnauthorized, KindUnauthenticated, "Invalid email or password", nil)
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondErrorKind(c, http.StatusConflict, KindConflict, "Email already registered", nil)
	case errors.Is(err, ErrDreamNotFound):
		RespondErrorKind(c, http.StatusNotFound, KindNotFound, "Dream not found", nil)
	case errors.Is(err, ErrRateLimited):
		RespondErrorKind(c, http.StatusTooManyRequests, KindRateLimited, "Too many requests, slow down", nil)
	case errors.Is(err, ErrProviderNotConfigured):
		RespondErrorKind(c, http.StatusServiceUnavailable, KindProviderNotConfigured, err.Error(), nil)
	case errors.Is(err, ErrProviderFailure):
		RespondErrorKind(c, http.StatusBadGateway, KindProviderError, "Content provider failed, please retry", nil)
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondErrorKind(c, http.StatusInternalServerError, KindStorageUnavailable, "Storage unavailable", nil)
	default:
		zap.L().Error("unhandled service error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondErrorKind(c, http.StatusInternalServerError, KindInternal, "Internal server error", nil)
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindInternal
}
