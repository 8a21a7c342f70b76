// handlers/shift_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Karthick1242004/cmms-sub009/models"
	"github.com/Karthick1242004/cmms-sub009/utils"
)

// ListShifts returns the shift roster, department-filtered with an
// optional date range
func ListShifts(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if utils.NormalizeRole(userRole) != utils.RoleSuperAdmin {
		filter["department"] = department
	}

	dateRange := bson.M{}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
		dateRange["$gte"] = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
		dateRange["$lte"] = t.Add(24 * time.Hour)
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})

	cursor, err := shiftCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("shifts Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var shifts []models.Shift
	if err = cursor.All(ctx, &shifts); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode shifts")
		return
	}

	if shifts == nil {
		shifts = []models.Shift{}
	}

	utils.RespondWithJSON(w, http.StatusOK, shifts)
}

type CreateShiftRequest struct {
	UserID     string    `json:"userId"`
	Department string    `json:"department"`
	Date       time.Time `json:"date"`
	ShiftType  string    `json:"shiftType"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	Location   string    `json:"location,omitempty"`
}

func CreateShift(w http.ResponseWriter, r *http.Request) {
	creatorIDStr, ok := r.Context().Value("userID").(string)
	if !ok || creatorIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to schedule shifts")
		return
	}

	creatorID, err := primitive.ObjectIDFromHex(creatorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.UserID == "" || req.Department == "" || req.Date.IsZero() {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields: userId, department, date")
		return
	}
	if !models.ValidShiftType(req.ShiftType) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid shift type")
		return
	}
	if req.StartTime == "" || req.EndTime == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "startTime and endTime are required")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, req.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to this department")
		return
	}

	employeeID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid employee id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var employee models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": employeeID, "deletedAt": nil}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusBadRequest, "employee not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to verify employee")
		return
	}

	// One shift per employee per day
	day := req.Date.Truncate(24 * time.Hour)
	count, err := shiftCollection.CountDocuments(ctx, bson.M{
		"userId": employeeID,
		"date":   bson.M{"$gte": day, "$lt": day.Add(24 * time.Hour)},
	})
	if err != nil {
		log.Printf("shift overlap check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "employee already has a shift on that day")
		return
	}

	shift := models.Shift{
		ID:           primitive.NewObjectID(),
		UserID:       employeeID,
		EmployeeName: employee.Name,
		Department:   req.Department,
		Date:         day,
		ShiftType:    req.ShiftType,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		CreatedBy:    creatorID,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := shiftCollection.InsertOne(ctx, shift); err != nil {
		log.Printf("insert shift error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create shift")
		return
	}

	logActivity(ctx, r, "shift_create", "shift", shift.ID, bson.M{
		"employee":  employee.Name,
		"shiftType": shift.ShiftType,
		"date":      shift.Date,
	})

	utils.RespondWithJSON(w, http.StatusCreated, shift)
}

type UpdateShiftRequest struct {
	ShiftType *string `json:"shiftType,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Location  *string `json:"location,omitempty"`
}

func UpdateShift(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update shifts")
		return
	}

	vars := mux.Vars(r)
	shiftID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid shift id format")
		return
	}

	var req UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var shift models.Shift
	err = shiftCollection.FindOne(ctx, bson.M{"_id": shiftID}).Decode(&shift)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "shift not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, shift.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to update this shift")
		return
	}

	update := bson.M{}
	if req.ShiftType != nil {
		if !models.ValidShiftType(*req.ShiftType) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid shift type")
			return
		}
		update["shiftType"] = *req.ShiftType
	}
	if req.StartTime != nil {
		update["startTime"] = *req.StartTime
	}
	if req.EndTime != nil {
		update["endTime"] = *req.EndTime
	}
	if req.Location != nil {
		update["location"] = *req.Location
	}
	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	if _, err := shiftCollection.UpdateOne(ctx, bson.M{"_id": shiftID}, bson.M{"$set": update}); err != nil {
		log.Printf("update shift error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update shift")
		return
	}

	logActivity(ctx, r, "shift_update", "shift", shiftID, update)

	var updated models.Shift
	if err := shiftCollection.FindOne(ctx, bson.M{"_id": shiftID}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch updated shift")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func DeleteShift(w http.ResponseWriter, r *http.Request) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	if !utils.IsAdminRole(userRole) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to delete shifts")
		return
	}

	vars := mux.Vars(r)
	shiftID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid shift id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var shift models.Shift
	err = shiftCollection.FindOne(ctx, bson.M{"_id": shiftID}).Decode(&shift)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "shift not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !utils.CanAccessDepartment(userRole, department, shift.Department) {
		utils.RespondWithError(w, http.StatusForbidden, "access denied to delete this shift")
		return
	}

	if _, err := shiftCollection.DeleteOne(ctx, bson.M{"_id": shiftID}); err != nil {
		log.Printf("delete shift error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete shift")
		return
	}

	logActivity(ctx, r, "shift_delete", "shift", shiftID, bson.M{"employee": shift.EmployeeName})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "shift deleted successfully"})
}
