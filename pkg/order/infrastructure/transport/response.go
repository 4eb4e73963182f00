package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"orderservice/pkg/order/domain/model"
)

type errorResponse struct {
	StatusCode int                `json:"statusCode"`
	Message    string             `json:"message"`
	Errors     []fieldErrorOutput `json:"errors,omitempty"`
}

type fieldErrorOutput struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("write response body")
	}
}

// writeError is the single place where domain errors become HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Message: err.Error()}

	var validationErrs model.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		status = http.StatusBadRequest
		resp.Message = "validation failed"
		for _, fieldErr := range validationErrs {
			resp.Errors = append(resp.Errors, fieldErrorOutput{Field: fieldErr.Field, Message: fieldErr.Message})
		}
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInvalidOrderStatus):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrPersistenceConflict),
		errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		resp.Message = "request timed out"
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"url":    r.URL,
		}).Error("request failed")
		resp.Message = http.StatusText(status)
	}

	resp.StatusCode = status
	writeJSON(w, status, resp)
}

func badRequest(field, message string) error {
	var errs model.ValidationErrors
	errs.Add(field, message)
	return errs
}

func decodeBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return badRequest("body", "must be a valid JSON document: "+err.Error())
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, badRequest("id", "must be a valid UUID")
	}
	return id, nil
}

func queryUserID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		return uuid.Nil, badRequest("user_id", "must be a valid UUID")
	}
	return id, nil
}
