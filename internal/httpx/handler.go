// Package httpx lets handlers return errors instead of writing them.
// see https://blog.questionable.services/article/http-handler-error-handling-revisited/ for more details.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-json-experiment/json"
)

// Error is a convenience function for returning an error with an associated HTTP status code.
func Error(code int, err error) error {
	return &StatusError{code, err}
}

// StatusError represents an error with an associated HTTP status code.
type StatusError struct {
	Code int
	Err  error
}

// Allows StatusError to satisfy the error interface.
func (se *StatusError) Error() string {
	return se.Err.Error()
}

func (se *StatusError) Unwrap() error {
	return se.Err
}

// Returns our HTTP status code.
func (se *StatusError) Status() int {
	return se.Code
}

// HandlerFunc adapts a function that returns an error to an http.HandlerFunc.
// A *StatusError is written with its code and message; anything else is
// logged and answered with a bare 500.
func HandlerFunc[E any](envFn func(r *http.Request) *E, fn func(*E, http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := envFn(r)
		err := fn(env, w, r)
		if err == nil {
			return
		}
		log := slog.Default().With("method", r.Method, "path", r.URL.Path)
		if se := new(StatusError); errors.As(err, &se) {
			log.Info("HTTP error", "status", se.Status(), "error", err)
			WriteJSON(w, se.Status(), map[string]any{
				"error": se.Error(),
			})
			return
		}
		log.Error("HTTP error", "status", http.StatusInternalServerError, "error", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error": http.StatusText(http.StatusInternalServerError),
		})
	}
}

// WriteJSON writes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	return json.MarshalFull(w, v)
}
