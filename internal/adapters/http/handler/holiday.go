package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/holiday"
)

// HolidayHandler は祝日の CRUD エンドポイントを提供します。
type HolidayHandler struct {
	logger *slog.Logger
	uc     holiday.UseCase
}

// NewHolidayHandler は HolidayHandler を生成します。
func NewHolidayHandler(logger *slog.Logger, uc holiday.UseCase) *HolidayHandler {
	return &HolidayHandler{logger: logger, uc: uc}
}

// Register はルートを登録します。
func (h *HolidayHandler) Register(r chi.Router) {
	r.Post("/create", h.create)
	r.Put("/update/{id}", h.update)
	r.Get("/get/{id}", h.get)
	r.Get("/list", h.list)
	r.Delete("/delete/{id}", h.delete)
}

type createHolidayRequest struct {
	Name         string  `json:"name"`
	RuleType     string  `json:"rule_type"`
	ObservedRule *string `json:"observed_rule"`
	Month        *int    `json:"month"`
	Day          *int    `json:"day"`
	Weekday      *int    `json:"weekday"`
	Week         *int    `json:"week"`
}

type updateHolidayRequest struct {
	Name         *string `json:"name"`
	RuleType     *string `json:"rule_type"`
	ObservedRule *string `json:"observed_rule"`
	Month        *int    `json:"month"`
	Day          *int    `json:"day"`
	Weekday      *int    `json:"weekday"`
	Week         *int    `json:"week"`
}

type holidayResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RuleType     string `json:"rule_type"`
	ObservedRule string `json:"observed_rule"`
	Month        *int   `json:"month"`
	Day          *int   `json:"day"`
	Weekday      *int   `json:"weekday"`
	Week         *int   `json:"week"`
}

func toHolidayResponse(h *holiday.Holiday) holidayResponse {
	return holidayResponse{
		ID:           h.ID,
		Name:         h.Name,
		RuleType:     string(h.RuleType),
		ObservedRule: string(h.ObservedRule),
		Month:        h.Month,
		Day:          h.Day,
		Weekday:      h.Weekday,
		Week:         h.Week,
	}
}

func observedRulePtr(raw *string) *holiday.ObservedRule {
	if raw == nil {
		return nil
	}
	rule := holiday.ObservedRule(*raw)
	return &rule
}

func ruleTypePtr(raw *string) *holiday.RuleType {
	if raw == nil {
		return nil
	}
	rule := holiday.RuleType(*raw)
	return &rule
}

func (h *HolidayHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createHolidayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.uc.CreateHoliday(r.Context(), holiday.CreateHolidayInput{
		Name:         req.Name,
		RuleType:     holiday.RuleType(req.RuleType),
		ObservedRule: observedRulePtr(req.ObservedRule),
		Month:        req.Month,
		Day:          req.Day,
		Weekday:      req.Weekday,
		Week:         req.Week,
	})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: created.ID})
}

func (h *HolidayHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateHolidayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.uc.UpdateHoliday(r.Context(), holiday.UpdateHolidayInput{
		ID:           id,
		Name:         req.Name,
		RuleType:     ruleTypePtr(req.RuleType),
		ObservedRule: observedRulePtr(req.ObservedRule),
		Month:        req.Month,
		Day:          req.Day,
		Weekday:      req.Weekday,
		Week:         req.Week,
	}); err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *HolidayHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := h.uc.GetHoliday(r.Context(), holiday.GetHolidayInput{ID: id})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toHolidayResponse(found))
}

func (h *HolidayHandler) list(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.uc.ListHolidays(r.Context())
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	body := make([]holidayResponse, 0, len(holidays))
	for _, item := range holidays {
		body = append(body, toHolidayResponse(item))
	}

	writeJSON(w, http.StatusOK, body)
}

func (h *HolidayHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	name, err := h.uc.DeleteHoliday(r.Context(), holiday.DeleteHolidayInput{ID: id})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Success: true, Name: name})
}
