package middleware

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/models"
	"github.com/cadencehq/cadence/internal/request"
	"github.com/cadencehq/cadence/internal/services/oidc"
)

// Auth creates authentication middleware that validates bearer tokens
// against the identity provider's JWKS and attaches the user to the
// request context. Users are created on first authenticated request.
func Auth(db *database.DB, oidcProvider *oidc.Provider, jwksManager *oidc.JWKSManager, logger *zap.Logger) func(http.Handler) http.Handler {
	verifier := oidc.NewVerifier(jwksManager, oidcProvider.Config().Issuer)
	userRepo := database.NewUserRepository(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1], oidcProvider.JWKSURL())
			if err != nil {
				logger.Warn("token_verification_failed", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := userRepo.GetByProviderID(ctx, claims.Sub)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					logger.Error("user_lookup_failed", zap.Error(err))
					respondError(w, http.StatusInternalServerError, "Database error")
					return
				}
				user = &models.User{
					ID:            uuid.New(),
					Email:         claims.Email,
					ProviderID:    &claims.Sub,
					Name:          &claims.Name,
					EmailVerified: true,
				}
				if err := userRepo.Create(ctx, user); err != nil {
					logger.Error("user_create_failed", zap.Error(err))
					respondError(w, http.StatusInternalServerError, "Failed to create user")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	_ = json.NewEncoder(w).Encode(response)
}
