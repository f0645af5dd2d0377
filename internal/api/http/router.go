// Package http exposes the rental engine over a JSON API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
)

type Services struct {
	Auth         service.AuthService
	Equipment    service.EquipmentService
	Booking      service.BookingService
	Payment      service.PaymentService
	Inspection   service.InspectionService
	Claim        service.ClaimService
	Trust        service.TrustService
	Notification service.NotificationService
}

// NewRouter builds the full route table. Everything under /api/v1 except
// auth, health, and metrics requires a bearer token.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	root := mux.NewRouter()
	root.Use(loggingMiddleware)

	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	root.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth := NewAuthHandler(svcs.Auth)
	public := root.PathPrefix("/api/v1/auth").Subrouter()
	public.HandleFunc("/signup", auth.Signup).Methods("POST")
	public.HandleFunc("/login", auth.Login).Methods("POST")
	public.HandleFunc("/refresh", auth.Refresh).Methods("POST")

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(tokens))

	equipment := NewEquipmentHandler(svcs.Equipment)
	api.HandleFunc("/equipment", equipment.Create).Methods("POST")
	api.HandleFunc("/equipment/mine", equipment.ListMine).Methods("GET")
	api.HandleFunc("/equipment/{id}", equipment.Get).Methods("GET")
	api.HandleFunc("/equipment/{id}", equipment.Update).Methods("PUT")
	api.HandleFunc("/equipment/{id}/calendar", equipment.GetCalendar).Methods("GET")
	api.HandleFunc("/equipment/{id}/calendar", equipment.SetSlot).Methods("PUT")

	booking := NewBookingHandler(svcs.Booking)
	api.HandleFunc("/equipment/{id}/availability", booking.CheckAvailability).Methods("GET")
	api.HandleFunc("/equipment/{id}/quote", booking.Quote).Methods("GET")
	api.HandleFunc("/bookings", booking.Create).Methods("POST")
	api.HandleFunc("/bookings/rentals", booking.ListRentals).Methods("GET")
	api.HandleFunc("/bookings/lendings", booking.ListLendings).Methods("GET")
	api.HandleFunc("/bookings/{id}", booking.Get).Methods("GET")
	api.HandleFunc("/bookings/{id}/approve", booking.Approve).Methods("POST")
	api.HandleFunc("/bookings/{id}/decline", booking.Decline).Methods("POST")
	api.HandleFunc("/bookings/{id}/cancel", booking.Cancel).Methods("POST")
	api.HandleFunc("/bookings/{id}/complete", booking.Complete).Methods("POST")

	inspectionH := NewInspectionHandler(svcs.Inspection)
	api.HandleFunc("/bookings/{id}/inspections/pickup", inspectionH.RecordPickup).Methods("POST")
	api.HandleFunc("/bookings/{id}/inspections/return", inspectionH.RecordReturn).Methods("POST")
	api.HandleFunc("/bookings/{id}/inspections", inspectionH.Get).Methods("GET")

	paymentH := NewPaymentHandler(svcs.Payment)
	api.HandleFunc("/payments/intent", paymentH.CreateIntent).Methods("POST")
	api.HandleFunc("/payments/confirm", paymentH.Confirm).Methods("POST")
	api.HandleFunc("/payments/{id}", paymentH.Get).Methods("GET")

	claim := NewClaimHandler(svcs.Claim)
	api.HandleFunc("/claims", claim.File).Methods("POST")
	api.HandleFunc("/claims/{id}/resolve", claim.Resolve).Methods("POST")
	api.HandleFunc("/bookings/{id}/claims", claim.ListByBooking).Methods("GET")

	trust := NewTrustHandler(svcs.Trust)
	api.HandleFunc("/users/{id}/trust-score", trust.GetScore).Methods("GET")
	api.HandleFunc("/reviews", trust.SubmitReview).Methods("POST")
	api.HandleFunc("/verification", trust.SetVerification).Methods("PUT")

	notification := NewNotificationHandler(svcs.Notification)
	api.HandleFunc("/notifications", notification.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notification.MarkAsRead).Methods("POST")

	return root
}
