package http

import (
	"net/http"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type InspectionHandler struct {
	inspectionSvc service.InspectionService
}

func NewInspectionHandler(inspectionSvc service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionSvc: inspectionSvc}
}

type checklistItemRequest struct {
	Item   string `json:"item" validate:"required"`
	Status string `json:"status" validate:"required,oneof=good fair damaged"`
	Note   string `json:"note"`
}

type inspectionRequest struct {
	Checklist []checklistItemRequest `json:"checklist" validate:"required,min=1,dive"`
	Photos    []string               `json:"photos"`
	Latitude  *float64               `json:"latitude"`
	Longitude *float64               `json:"longitude"`
}

func (req *inspectionRequest) toDomain(bookingID int32) *domain.Inspection {
	items := make([]domain.ChecklistItem, 0, len(req.Checklist))
	for _, item := range req.Checklist {
		items = append(items, domain.ChecklistItem{
			Item:   item.Item,
			Status: domain.ConditionLevel(item.Status),
			Note:   item.Note,
		})
	}
	return &domain.Inspection{
		BookingID: bookingID,
		Checklist: items,
		Photos:    req.Photos,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}

func (h *InspectionHandler) RecordPickup(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req inspectionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.inspectionSvc.RecordPickup(r.Context(), userID(r), req.toDomain(bookingID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *InspectionHandler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req inspectionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	diff, err := h.inspectionSvc.RecordReturn(r.Context(), userID(r), req.toDomain(bookingID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, diff)
}

func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	t := domain.InspectionType(r.URL.Query().Get("type"))
	if t != domain.InspectionTypePickup && t != domain.InspectionTypeReturn {
		writeError(w, domain.Validationf("type must be pickup or return"))
		return
	}

	insp, err := h.inspectionSvc.GetInspection(r.Context(), userID(r), bookingID, t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insp)
}
