package http

import (
	"net/http"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type TrustHandler struct {
	trustSvc service.TrustService
}

func NewTrustHandler(trustSvc service.TrustService) *TrustHandler {
	return &TrustHandler{trustSvc: trustSvc}
}

func (h *TrustHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.trustSvc.GetScore(r.Context(), targetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type submitReviewRequest struct {
	BookingID int32  `json:"booking_id" validate:"required,gt=0"`
	Rating    int32  `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

func (h *TrustHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	review := &domain.Review{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.trustSvc.SubmitReview(r.Context(), userID(r), review); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

type verificationRequest struct {
	IdentityVerified bool `json:"identity_verified"`
	PhoneVerified    bool `json:"phone_verified"`
	EmailVerified    bool `json:"email_verified"`
	AddressVerified  bool `json:"address_verified"`
}

func (h *TrustHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	var req verificationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile := &domain.VerificationProfile{
		UserID:           userID(r),
		IdentityVerified: req.IdentityVerified,
		PhoneVerified:    req.PhoneVerified,
		EmailVerified:    req.EmailVerified,
		AddressVerified:  req.AddressVerified,
	}
	if err := h.trustSvc.SetVerification(r.Context(), profile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
