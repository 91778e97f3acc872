package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/barzda/barbershop-api/internal/http/response"
	"github.com/barzda/barbershop-api/pkg/auth"
	"github.com/barzda/barbershop-api/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireJWT authenticates the request and, when role is non-empty, also
// requires that role claim.
func RequireJWT(secret, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "missing bearer token")
				return
			}
			claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer "), secret)
			if err != nil {
				response.Unauthorized(w, "invalid token")
				return
			}
			if role != "" && claims.Role != role {
				response.Forbidden(w, "insufficient role")
				return
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
