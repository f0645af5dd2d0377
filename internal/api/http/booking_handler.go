package http

import (
	"net/http"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	conflicts, err := h.bookingSvc.CheckAvailability(r.Context(), equipmentID, start, end, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"available": len(conflicts) == 0,
		"conflicts": conflicts,
	})
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	insurance := domain.InsuranceType(r.URL.Query().Get("insurance"))
	if insurance == "" {
		insurance = domain.InsuranceNone
	}

	calc, conflicts, err := h.bookingSvc.Quote(r.Context(), equipmentID, start, end, insurance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quote":     calc,
		"available": len(conflicts) == 0,
		"conflicts": conflicts,
	})
}

type createBookingRequest struct {
	EquipmentID int32  `json:"equipment_id" validate:"required,gt=0"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Insurance   string `json:"insurance_type" validate:"omitempty,oneof=none basic premium"`
	Message     string `json:"message"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, domain.Validationf("invalid start date %q", req.StartDate))
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeError(w, domain.Validationf("invalid end date %q", req.EndDate))
		return
	}

	insurance := domain.InsuranceType(req.Insurance)
	if insurance == "" {
		insurance = domain.InsuranceNone
	}

	b, err := h.bookingSvc.CreateBooking(r.Context(), userID(r), req.EquipmentID, start, end, insurance, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := h.bookingSvc.GetBooking(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := h.bookingSvc.ApproveBooking(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := h.bookingSvc.DeclineBooking(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req cancelBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	b, quote, err := h.bookingSvc.CancelBooking(r.Context(), userID(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"booking": b,
		"refund":  quote,
	})
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	b, diff, err := h.bookingSvc.CompleteBooking(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"booking":        b,
		"condition_diff": diff,
	})
}

func (h *BookingHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	bookings, total, err := h.bookingSvc.ListRentals(r.Context(), userID(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings, "total": total})
}

func (h *BookingHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	bookings, total, err := h.bookingSvc.ListLendings(r.Context(), userID(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings, "total": total})
}
