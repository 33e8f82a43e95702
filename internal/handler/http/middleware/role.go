package middleware

import (
	"net/http"

	"github.com/attendly/timepay-engine-go/internal/domain/employee"
	"github.com/attendly/timepay-engine-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireAdmin requires admin or master role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromRequest(r)
		if !ok {
			response.Forbidden(w, "Admin access required")
			return
		}

		if role != employee.RoleAdmin && role != employee.RoleMaster {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireMaster requires master role
func RequireMaster(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromRequest(r)
		if !ok || role != employee.RoleMaster {
			response.Forbidden(w, "Master access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func roleFromRequest(r *http.Request) (employee.Role, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	return employee.Role(roleStr), true
}
