package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/leymap/pkg/errors"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidCriteria,
		errors.ErrCodeInvalidTimeframe, errors.ErrCodeInvalidPlanet, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeMissingData, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeStarvation, errors.ErrCodeIterationLimit:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeBusy:
		return http.StatusConflict
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSVG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}
