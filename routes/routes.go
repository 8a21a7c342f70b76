package routes

import (
	"github.com/gorilla/mux"

	"github.com/Karthick1242004/cmms-sub009/handlers"
	"github.com/Karthick1242004/cmms-sub009/middleware"
	"github.com/Karthick1242004/cmms-sub009/websocket"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION ROUTES (Public - No auth required)
	// ====================
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/signup", handlers.Signup).Methods(MethodsPostOnly...)

	// ====================
	// PROTECTED API ROUTES (Require authentication)
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// WebSocket (token passed via query string, validated in the handler)
	apiRouter.HandleFunc("/ws", websocket.HandleWebSocket)

	// ====================
	// CURRENT USER
	// ====================
	apiRouter.HandleFunc("/user/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/user/change-password", handlers.ChangePassword).Methods(MethodsPostOnly...)

	// ====================
	// USER MANAGEMENT
	// ====================
	apiRouter.HandleFunc("/users", handlers.ListUsers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.GetUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.UpdateUser).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.DeleteUser).Methods(MethodsDeleteOnly...)

	// ====================
	// ASSETS
	// ====================
	apiRouter.HandleFunc("/assets", handlers.ListAssets).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets", handlers.CreateAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.GetAsset).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.UpdateAsset).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.DeleteAsset).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/assets/{id}/sync-parts", handlers.SyncAssetParts).Methods(MethodsPostOnly...)

	// ====================
	// PARTS INVENTORY
	// ====================
	apiRouter.HandleFunc("/parts", handlers.ListParts).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/parts", handlers.CreatePart).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/parts/{id}", handlers.GetPart).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/parts/{id}", handlers.UpdatePart).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/parts/{id}", handlers.DeletePart).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/parts/{id}/sync-assets", handlers.SyncPartAssets).Methods(MethodsPostOnly...)

	// ====================
	// WORK TICKETS
	// ====================
	apiRouter.HandleFunc("/tickets", handlers.ListTickets).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/tickets", handlers.CreateTicket).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/tickets/{id}", handlers.GetTicket).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/tickets/{id}", handlers.UpdateTicket).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/tickets/{id}", handlers.DeleteTicket).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/tickets/{id}/status", handlers.UpdateTicketStatus).Methods(MethodsPutOnly...)

	// ====================
	// INSPECTIONS
	// ====================
	apiRouter.HandleFunc("/inspections", handlers.ListInspections).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/inspections", handlers.CreateInspection).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/inspections/{id}", handlers.GetInspection).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/inspections/{id}", handlers.UpdateInspection).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/inspections/{id}", handlers.DeleteInspection).Methods(MethodsDeleteOnly...)

	// ====================
	// SHIFT ROSTER
	// ====================
	apiRouter.HandleFunc("/shifts", handlers.ListShifts).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/shifts", handlers.CreateShift).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/shifts/{id}", handlers.UpdateShift).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/shifts/{id}", handlers.DeleteShift).Methods(MethodsDeleteOnly...)

	// ====================
	// NOTICE BOARD
	// ====================
	apiRouter.HandleFunc("/notices", handlers.ListNotices).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/notices", handlers.CreateNotice).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/notices/{id}", handlers.UpdateNotice).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/notices/{id}", handlers.DeleteNotice).Methods(MethodsDeleteOnly...)

	// ====================
	// DEPARTMENT CHAT
	// ====================
	apiRouter.HandleFunc("/chat/{department}/messages", handlers.ListChatMessages).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/chat/{department}/messages", handlers.PostChatMessage).Methods(MethodsPostOnly...)

	// ====================
	// REPORTS
	// ====================
	apiRouter.HandleFunc("/reports/inventory", handlers.GetInventoryReport).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/reports/tickets", handlers.GetTicketReport).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/reports/assets", handlers.GetAssetReport).Methods(MethodsGetOnly...)

	// ====================
	// ACTIVITY LOGS
	// ====================
	apiRouter.HandleFunc("/activity", handlers.ListActivity).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/activity/stats", handlers.GetActivityStats).Methods(MethodsGetOnly...)
}
