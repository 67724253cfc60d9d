package middleware

import (
	"net/http"
	"strings"

	"github.com/relieffund/relieffund-backend/api/responses"
	pkgauth "github.com/relieffund/relieffund-backend/pkg/auth"
	"github.com/relieffund/relieffund-backend/pkg/config"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// caller's wallet address.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.WalletAddress == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing wallet claim"))
				return
			}

			ctx := WithWalletAddress(r.Context(), claims.WalletAddress)
			if logg != nil {
				ctx = logg.WithWallet(ctx, claims.WalletAddress)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
