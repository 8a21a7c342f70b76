package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/Karthick1242004/cmms-sub009/utils"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for WebSocket upgrade requests; the ws
		// handler validates the token from the query string itself.
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthMiddleware: JWT validation failed: %v", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if claims.Department == "" && utils.NormalizeRole(claims.Role) != utils.RoleSuperAdmin {
			utils.RespondWithError(w, http.StatusBadRequest, "User has no department")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "userName", claims.Name)
		ctx = context.WithValue(ctx, "userRole", utils.NormalizeRole(claims.Role))
		ctx = context.WithValue(ctx, "department", claims.Department)
		ctx = context.WithValue(ctx, "bearerToken", tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
