// handlers/activity_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karthick1242004/cmms-sub009/models"
	"github.com/Karthick1242004/cmms-sub009/utils"
	"github.com/Karthick1242004/cmms-sub009/websocket"
)

// logActivity records a mutation in the activity feed and pushes it to
// connected clients. Failures are logged, never surfaced to the caller.
func logActivity(ctx context.Context, r *http.Request, action, entityType string, entityID primitive.ObjectID, details bson.M) {
	userIDStr, _ := r.Context().Value("userID").(string)
	userName, _ := r.Context().Value("userName").(string)
	department, _ := r.Context().Value("department").(string)

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		log.Printf("activity log: invalid user id %q: %v", userIDStr, err)
		return
	}

	entry := models.ActivityLog{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		UserName:   userName,
		Department: department,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := activityLogCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("activity log insert failed: %v", err)
		return
	}
	websocket.BroadcastActivity(&entry)
}

// ListActivity returns the activity feed, department-filtered, newest first
func ListActivity(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		filter["department"] = department
	}

	if entityType := r.URL.Query().Get("entityType"); entityType != "" {
		filter["entityType"] = entityType
	}
	if action := r.URL.Query().Get("action"); action != "" {
		filter["action"] = action
	}

	limit := int64(100)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := activityLogCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("activity Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var entries []models.ActivityLog
	if err = cursor.All(ctx, &entries); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode activity logs")
		return
	}

	if entries == nil {
		entries = []models.ActivityLog{}
	}

	utils.RespondWithJSON(w, http.StatusOK, entries)
}

// GetActivityStats aggregates feed counters for the dashboard header
func GetActivityStats(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		filter["department"] = department
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	stats := map[string]interface{}{
		"totalEvents": 0,
		"last24Hours": 0,
		"last7Days":   0,
		"topActions":  []string{},
	}

	updateStat := func(key string, value interface{}) {
		mu.Lock()
		stats[key] = value
		mu.Unlock()
	}

	countSince := func(key string, since time.Duration) {
		defer wg.Done()
		f := bson.M{}
		for k, v := range filter {
			f[k] = v
		}
		if since > 0 {
			f["createdAt"] = bson.M{"$gte": time.Now().Add(-since)}
		}
		count, _ := activityLogCollection.CountDocuments(ctx, f)
		updateStat(key, count)
	}

	wg.Add(1)
	go countSince("totalEvents", 0)
	wg.Add(1)
	go countSince("last24Hours", 24*time.Hour)
	wg.Add(1)
	go countSince("last7Days", 7*24*time.Hour)

	wg.Add(1)
	go func() {
		defer wg.Done()
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: filter}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$action"},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
			bson.D{{Key: "$limit", Value: 5}},
		}

		cursor, err := activityLogCollection.Aggregate(ctx, pipeline)
		if err != nil {
			return
		}
		defer cursor.Close(ctx)

		var topActions []string
		for cursor.Next(ctx) {
			var result struct {
				Action string `bson:"_id"`
				Count  int64  `bson:"count"`
			}
			if err := cursor.Decode(&result); err == nil {
				topActions = append(topActions, result.Action)
			}
		}
		updateStat("topActions", topActions)
	}()

	wg.Wait()
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
