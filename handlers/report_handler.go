// handlers/report_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Karthick1242004/cmms-sub009/models"
	"github.com/Karthick1242004/cmms-sub009/utils"
)

// reportScope resolves the department filter for a report request. A
// super admin may pass ?department= to narrow the report; everyone else
// is pinned to their own department.
func reportScope(r *http.Request) (bson.M, bool) {
	userRole, _ := r.Context().Value("userRole").(string)
	department, _ := r.Context().Value("department").(string)

	filter := bson.M{}
	if utils.NormalizeRole(userRole) == utils.RoleSuperAdmin {
		if d := r.URL.Query().Get("department"); d != "" {
			filter["department"] = d
		}
		return filter, true
	}
	if department == "" {
		return nil, false
	}
	filter["department"] = department
	return filter, true
}

type DepartmentValuation struct {
	Department  string `json:"department"`
	PartCount   int    `json:"partCount"`
	TotalStock  int    `json:"totalStock"`
	TotalValue  string `json:"totalValue"`
	LowStock    int    `json:"lowStock"`
	OutOfStock  int    `json:"outOfStock"`
}

type InventoryReport struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Departments []DepartmentValuation `json:"departments"`
	GrandTotal  string                `json:"grandTotal"`
}

// GetInventoryReport sums inventory valuation per department. Sums are
// carried in decimals so unit costs like 0.1 accumulate exactly.
func GetInventoryReport(w http.ResponseWriter, r *http.Request) {
	filter, ok := reportScope(r)
	if !ok {
		utils.RespondWithError(w, http.StatusForbidden, "caller has no department scope")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	cursor, err := partCollection.Find(ctx, filter)
	if err != nil {
		log.Printf("inventory report Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	type acc struct {
		count      int
		stock      int
		value      decimal.Decimal
		lowStock   int
		outOfStock int
	}
	byDept := map[string]*acc{}
	order := []string{}

	for cursor.Next(ctx) {
		var part models.Part
		if err := cursor.Decode(&part); err != nil {
			log.Printf("part decode error: %v", err)
			continue
		}
		a, exists := byDept[part.Department]
		if !exists {
			a = &acc{}
			byDept[part.Department] = a
			order = append(order, part.Department)
		}
		a.count++
		a.stock += part.StockQuantity
		lineValue := decimal.NewFromFloat(part.UnitCost).Mul(decimal.NewFromInt(int64(part.StockQuantity)))
		a.value = a.value.Add(lineValue)
		switch part.StockStatus {
		case models.StockStatusLowStock:
			a.lowStock++
		case models.StockStatusOutOfStock:
			a.outOfStock++
		}
	}
	if err := cursor.Err(); err != nil {
		log.Printf("inventory report cursor error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to read inventory")
		return
	}

	report := InventoryReport{
		GeneratedAt: time.Now().UTC(),
		Departments: []DepartmentValuation{},
	}
	grand := decimal.Zero
	for _, dept := range order {
		a := byDept[dept]
		report.Departments = append(report.Departments, DepartmentValuation{
			Department: dept,
			PartCount:  a.count,
			TotalStock: a.stock,
			TotalValue: a.value.StringFixed(2),
			LowStock:   a.lowStock,
			OutOfStock: a.outOfStock,
		})
		grand = grand.Add(a.value)
	}
	report.GrandTotal = grand.StringFixed(2)

	utils.RespondWithJSON(w, http.StatusOK, report)
}

type TicketReport struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"byStatus"`
	ByPriority  map[string]int64 `json:"byPriority"`
	OpenOver7d  int64            `json:"openOverSevenDays"`
}

// GetTicketReport breaks work tickets down by status and priority, plus
// a count of tickets still open for over a week.
func GetTicketReport(w http.ResponseWriter, r *http.Request) {
	filter, ok := reportScope(r)
	if !ok {
		utils.RespondWithError(w, http.StatusForbidden, "caller has no department scope")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	report := TicketReport{
		GeneratedAt: time.Now().UTC(),
		ByStatus:    map[string]int64{},
		ByPriority:  map[string]int64{},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	errCh := make(chan error, 4)

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := ticketCollection.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		mu.Lock()
		report.Total = n
		mu.Unlock()
	}()

	groupCount := func(field string, into map[string]int64) {
		defer wg.Done()
		pipeline := []bson.M{
			{"$match": filter},
			{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		}
		cursor, err := ticketCollection.Aggregate(ctx, pipeline)
		if err != nil {
			errCh <- err
			return
		}
		defer cursor.Close(ctx)
		var rows []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			errCh <- err
			return
		}
		mu.Lock()
		for _, row := range rows {
			into[row.ID] = row.Count
		}
		mu.Unlock()
	}

	wg.Add(2)
	go groupCount("status", report.ByStatus)
	go groupCount("priority", report.ByPriority)

	wg.Add(1)
	go func() {
		defer wg.Done()
		stale := bson.M{
			"status":    bson.M{"$in": []string{models.TicketStatusOpen, models.TicketStatusInProgress}},
			"createdAt": bson.M{"$lt": time.Now().UTC().Add(-7 * 24 * time.Hour)},
		}
		for k, v := range filter {
			stale[k] = v
		}
		n, err := ticketCollection.CountDocuments(ctx, stale)
		if err != nil {
			errCh <- err
			return
		}
		mu.Lock()
		report.OpenOver7d = n
		mu.Unlock()
	}()

	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		log.Printf("ticket report error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build ticket report")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

type AssetReport struct {
	GeneratedAt    time.Time        `json:"generatedAt"`
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"byStatus"`
	WithBOM        int64            `json:"withBOM"`
	WithoutBOM     int64            `json:"withoutBOM"`
	BOMCoveragePct float64          `json:"bomCoveragePct"`
}

// GetAssetReport breaks assets down by status and reports BOM coverage:
// how many assets have at least one bill-of-materials line.
func GetAssetReport(w http.ResponseWriter, r *http.Request) {
	filter, ok := reportScope(r)
	if !ok {
		utils.RespondWithError(w, http.StatusForbidden, "caller has no department scope")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	report := AssetReport{
		GeneratedAt: time.Now().UTC(),
		ByStatus:    map[string]int64{},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	errCh := make(chan error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := assetCollection.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		mu.Lock()
		report.Total = n
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		pipeline := []bson.M{
			{"$match": filter},
			{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		}
		cursor, err := assetCollection.Aggregate(ctx, pipeline)
		if err != nil {
			errCh <- err
			return
		}
		defer cursor.Close(ctx)
		var rows []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			errCh <- err
			return
		}
		mu.Lock()
		for _, row := range rows {
			report.ByStatus[row.ID] = row.Count
		}
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		withBOM := bson.M{"partsBOM.0": bson.M{"$exists": true}}
		for k, v := range filter {
			withBOM[k] = v
		}
		n, err := assetCollection.CountDocuments(ctx, withBOM)
		if err != nil {
			errCh <- err
			return
		}
		mu.Lock()
		report.WithBOM = n
		mu.Unlock()
	}()

	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		log.Printf("asset report error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build asset report")
		return
	}

	report.WithoutBOM = report.Total - report.WithBOM
	if report.Total > 0 {
		report.BOMCoveragePct = float64(report.WithBOM) / float64(report.Total) * 100
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}
