package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type ClaimHandler struct {
	claimSvc service.ClaimService
}

func NewClaimHandler(claimSvc service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimSvc: claimSvc}
}

type fileClaimRequest struct {
	BookingID     int32    `json:"booking_id" validate:"required,gt=0"`
	Description   string   `json:"description" validate:"required"`
	EstimatedCost string   `json:"estimated_cost" validate:"required"`
	Evidence      []string `json:"evidence"`
}

func (h *ClaimHandler) File(w http.ResponseWriter, r *http.Request) {
	var req fileClaimRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cost, err := decimal.NewFromString(req.EstimatedCost)
	if err != nil {
		writeError(w, domain.Validationf("invalid estimated cost %q", req.EstimatedCost))
		return
	}

	claim, err := h.claimSvc.FileClaim(r.Context(), userID(r), req.BookingID, req.Description, cost, req.Evidence)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claim)
}

type resolveClaimRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=upheld dismissed"`
}

func (h *ClaimHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req resolveClaimRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.claimSvc.ResolveClaim(r.Context(), id, domain.ClaimResolution(req.Resolution))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

func (h *ClaimHandler) ListByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claims, err := h.claimSvc.ListClaims(r.Context(), userID(r), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": claims})
}
