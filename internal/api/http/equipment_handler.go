package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type EquipmentHandler struct {
	equipmentSvc service.EquipmentService
}

func NewEquipmentHandler(equipmentSvc service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc}
}

type equipmentRequest struct {
	Name                    string  `json:"name" validate:"required"`
	Description             string  `json:"description"`
	DailyRate               string  `json:"daily_rate" validate:"required"`
	Condition               string  `json:"condition" validate:"omitempty,oneof=excellent good fair damaged"`
	DamageDepositAmount     *string `json:"damage_deposit_amount"`
	DamageDepositPercentage *string `json:"damage_deposit_percentage"`
}

func (req *equipmentRequest) toDomain(ownerID int32) (*domain.Equipment, error) {
	rate, err := decimal.NewFromString(req.DailyRate)
	if err != nil {
		return nil, domain.Validationf("invalid daily rate %q", req.DailyRate)
	}

	eq := &domain.Equipment{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		DailyRate:   rate,
		Condition:   domain.EquipmentCondition(req.Condition),
	}
	if req.DamageDepositAmount != nil {
		amount, err := decimal.NewFromString(*req.DamageDepositAmount)
		if err != nil {
			return nil, domain.Validationf("invalid deposit amount %q", *req.DamageDepositAmount)
		}
		eq.DamageDepositAmount = &amount
	}
	if req.DamageDepositPercentage != nil {
		pct, err := decimal.NewFromString(*req.DamageDepositPercentage)
		if err != nil {
			return nil, domain.Validationf("invalid deposit percentage %q", *req.DamageDepositPercentage)
		}
		eq.DamageDepositPercentage = &pct
	}
	return eq, nil
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	eq, err := req.toDomain(userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.equipmentSvc.AddEquipment(r.Context(), eq); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, eq)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	eq, err := h.equipmentSvc.GetEquipment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req equipmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	eq, err := req.toDomain(userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	eq.ID = id
	if err := h.equipmentSvc.UpdateEquipment(r.Context(), userID(r), eq); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

func (h *EquipmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	items, total, err := h.equipmentSvc.ListMyEquipment(r.Context(), userID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"equipment": items,
		"total":     total,
	})
}

type slotRequest struct {
	Date       string  `json:"date" validate:"required"`
	IsBlocked  bool    `json:"is_blocked"`
	CustomRate *string `json:"custom_rate"`
}

func (h *EquipmentHandler) SetSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req slotRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, domain.Validationf("invalid date %q, expected yyyy-mm-dd", req.Date))
		return
	}

	slot := &domain.AvailabilitySlot{
		EquipmentID: id,
		Date:        date,
		IsBlocked:   req.IsBlocked,
	}
	if req.CustomRate != nil {
		rate, err := decimal.NewFromString(*req.CustomRate)
		if err != nil {
			writeError(w, domain.Validationf("invalid custom rate %q", *req.CustomRate))
			return
		}
		slot.CustomRate = &rate
	}

	if err := h.equipmentSvc.SetSlot(r.Context(), userID(r), slot); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (h *EquipmentHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	slots, err := h.equipmentSvc.GetCalendar(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// pathID parses an int32 path variable.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return int32(id), nil
}

// pagination reads page/page_size query parameters with sane bounds.
func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}

// dateRange reads start/end query parameters as yyyy-mm-dd.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, domain.Validationf("invalid start date, expected yyyy-mm-dd")
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, domain.Validationf("invalid end date, expected yyyy-mm-dd")
	}
	return start, end, nil
}
