package middleware

import (
	"net/http"

	"society-parking/pkg/utils"

	"go.uber.org/zap"
)

// Headers injected by the platform gateway after it authenticates the
// resident. The service treats the id as an opaque string and never sees a
// credential.
const (
	HeaderResidentID   = "X-Resident-ID"
	HeaderResidentName = "X-Resident-Name"
	HeaderResidentRole = "X-Resident-Role"
)

// Identity middleware requires a resident identity on the request and puts
// it in the context for handlers.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			residentID := r.Header.Get(HeaderResidentID)
			if residentID == "" {
				logger.Warn("Request without resident identity",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
				)
				utils.ResponseUnauthorized(w, "Missing resident identity")
				return
			}

			ctx := utils.SetResidentContext(r.Context(),
				residentID,
				r.Header.Get(HeaderResidentName),
				r.Header.Get(HeaderResidentRole),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin middleware gates management routes on the admin role.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			residentID, ok := utils.GetResidentIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			if role != "admin" {
				logger.Warn("Non-admin access attempt",
					zap.String("resident_id", residentID),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
