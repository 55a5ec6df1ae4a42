package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/formworks/submission-service/internal/utils/response"
)

// Recover converts handler panics into a generic 500 response so a
// single bad submission can never take the process down.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while handling request",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec))
				response.WriteJSON(w, http.StatusInternalServerError,
					response.GeneralError("Something went wrong", errors.New("internal error")))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
