package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

type messageBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("render json failed", "error", err)
	}
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, messageBody{Message: message})
}

// FieldError answers 400 with the offending field named.
func FieldError(w http.ResponseWriter, field, message string) {
	JSON(w, http.StatusBadRequest, messageBody{Message: message, Field: field})
}

// Attachment writes v as a downloadable JSON file.
func Attachment(w http.ResponseWriter, filename string, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(v)
	if err != nil {
		slog.Error("render attachment failed", "error", err)
	}
}

var ErrInvalidBody = errors.New("invalid JSON body")

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return ErrInvalidBody
	}
	return nil
}
