package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-admin/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "tournament-admin"

	internalErrorMessage = "internal server error"
)

// envelope follows the Google JSON style guide: exactly one of data or error.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Errors  []errorDetail `json:"errors,omitempty"`
}

type errorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	target error
	code   int
	status string
	reason string
}

// errorClasses is checked in order; the first sentinel matched wins.
var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
	{usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "notFound"},
	{usecase.ErrConflict, http.StatusConflict, "ALREADY_EXISTS", "conflict"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
}

var internalClass = errorClass{code: http.StatusInternalServerError, status: "INTERNAL", reason: "internalError"}

func classify(err error) errorClass {
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c
		}
	}
	return internalClass
}

func isClientError(err error) bool {
	code := classify(err).code
	return code >= 400 && code < 500
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	body.APIVersion = apiVersion
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(body)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Data: data})
}

// writeError renders err with the status of its sentinel. Unclassified errors
// become a 500 whose message never leaks the underlying cause.
func writeError(_ context.Context, w http.ResponseWriter, err error) {
	class := classify(err)
	msg := internalErrorMessage
	if class.code != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, class.code, envelope{Error: &errorBody{
		Code:    class.code,
		Message: msg,
		Status:  class.status,
		Errors:  []errorDetail{{Domain: errorDomain, Reason: class.reason, Message: msg}},
	}})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeError(ctx, w, errors.New(internalErrorMessage))
}
