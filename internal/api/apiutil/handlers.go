package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/api/authz"
	"github.com/codr1/courtleague/internal/db"
	"github.com/codr1/courtleague/internal/leagues"
)

const maxBodyBytes = 1 << 20

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func BadRequest(err error) HandlerError {
	return HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("missing request body")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// Respond writes payload, logging a failed write.
func Respond(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

// ErrorStatus maps engine errors to HTTP statuses. Permission refusals are
// validation errors on the actor field.
func ErrorStatus(err error) int {
	var handlerErr HandlerError
	var validation *leagues.ValidationError
	switch {
	case errors.As(err, &handlerErr):
		return handlerErr.Status
	case errors.Is(err, authz.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &validation):
		if validation.Field == "actor" {
			return http.StatusForbidden
		}
		return http.StatusUnprocessableEntity
	case leagues.IsConflict(err), errors.Is(err, db.ErrVersionConflict):
		return http.StatusConflict
	case leagues.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body. Internal errors are logged
// and hidden from the caller.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())
	status := ErrorStatus(err)
	body := errorBody{Error: err.Error()}

	var validation *leagues.ValidationError
	if errors.As(err, &validation) {
		body.Field = validation.Field
	}
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		body = errorBody{Error: "internal server error"}
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	if writeErr := WriteJSON(w, status, body); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
