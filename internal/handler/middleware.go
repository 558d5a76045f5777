package handler

import (
	"context"
	"net/http"

	"chatrelay/internal/app/user"
	"chatrelay/internal/pkg/auth/jwt"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/resp"
)

type contextKey string

const contextUserKey contextKey = "current_user"

// RequireUser rejects requests without verified claims and provisions the caller's user record.
// It must run after jwt.IdentityExtractorMiddleware.
func RequireUser(users UserProvisioner) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := jwt.GetClaimsFromContext(r)
			if claims == nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			u, err := users.Provision(r.Context(), claims)
			if err != nil {
				logx.Error(err, "Failed to provision user", "user_id", claims.Subject)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(r *http.Request) (user.User, bool) {
	u, ok := r.Context().Value(contextUserKey).(user.User)
	return u, ok
}
