package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"blog-api/internal/model"
	"blog-api/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps err onto the JSON error body. Errors that are not an
// *apierror.APIError are classified by sentinel, anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{
		Error: "internal server error",
		Code:  apierror.CodeInternal,
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Error = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
		body.Code = apierror.CodeValidation
		body.Error = err.Error()
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrInvalidToken):
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthorized
		body.Error = "token missing or invalid"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = apierror.CodeForbidden
		body.Error = "forbidden"
	case errors.Is(err, model.ErrPostNotFound):
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Error = "blog post not found"
	case errors.Is(err, model.ErrDuplicateUsername):
		status = http.StatusBadRequest
		body.Code = apierror.CodeDuplicateUsername
		body.Error = "expected `username` to be unique"
	default:
		slog.Error("unhandled error in writeError", "error", err)
	}

	writeJSON(w, status, body)
}

// decodeJSON reads a single JSON object of at most 1 MiB into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.BadRequest("request body too large", "")
		}
		if errors.Is(err, io.EOF) {
			return apierror.BadRequest("request body is empty", "")
		}
		return apierror.BadRequest("invalid JSON body", "")
	}

	if dec.More() {
		return apierror.BadRequest("invalid JSON body", "unexpected data after JSON object")
	}
	return nil
}
