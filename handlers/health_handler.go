// handlers/health_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Karthick1242004/cmms-sub009/database"
	"github.com/Karthick1242004/cmms-sub009/utils"
)

// HealthCheck reports service liveness and database reachability.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{
		"status":   "ok",
		"database": "connected",
	}

	if err := database.Client.Ping(ctx, readpref.Primary()); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		utils.RespondWithJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}
