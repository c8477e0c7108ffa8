package handlers

import (
	"net/http"

	mw "focusflow/internal/middleware"
)

// asUser injects an authenticated user id the way RequireAuth does.
func asUser(userID int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.WithUserID(r.Context(), userID)))
		})
	}
}
