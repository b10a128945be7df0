package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/employee"
)

// dateLayout は開始日・終了日の表現形式です。
const dateLayout = "2006-01-02"

// EmployeeHandler は従業員の CRUD エンドポイントを提供します。
type EmployeeHandler struct {
	logger *slog.Logger
	uc     employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(logger *slog.Logger, uc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{logger: logger, uc: uc}
}

// Register はルートを登録します。
func (h *EmployeeHandler) Register(r chi.Router) {
	r.Post("/create", h.create)
	r.Put("/update/{id}", h.update)
	r.Get("/get/{id}", h.get)
	r.Get("/list", h.list)
	r.Delete("/delete/{id}", h.delete)
}

type createEmployeeRequest struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	DivisionID int64   `json:"division_id"`
	GroupID    int64   `json:"group_id"`
	LocationID int64   `json:"location_id"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

// updateEmployeeRequest は部分更新のリクエストです。日付は RawMessage で受け、
// 欠落 (変更なし) と明示的な null (解除) を区別します。
type updateEmployeeRequest struct {
	FirstName  *string         `json:"first_name"`
	LastName   *string         `json:"last_name"`
	Email      *string         `json:"email"`
	DivisionID *int64          `json:"division_id"`
	GroupID    *int64          `json:"group_id"`
	LocationID *int64          `json:"location_id"`
	StartDate  json.RawMessage `json:"start_date"`
	EndDate    json.RawMessage `json:"end_date"`
}

type refResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type employeeResponse struct {
	ID        int64        `json:"id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Division  *refResponse `json:"division"`
	Group     *refResponse `json:"group"`
	Location  *refResponse `json:"location"`
	StartDate *string      `json:"start_date"`
	EndDate   *string      `json:"end_date"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Division:  toRefResponse(e.Division),
		Group:     toRefResponse(e.Group),
		Location:  toRefResponse(e.Location),
		StartDate: formatDate(e.StartDate),
		EndDate:   formatDate(e.EndDate),
	}
}

func toRefResponse(ref *employee.RefSnapshot) *refResponse {
	if ref == nil {
		return nil
	}
	return &refResponse{ID: ref.ID, Name: ref.Name}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(raw *string, field string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, errors.New("invalid " + field)
	}
	return &t, nil
}

// parseOptionalDate は部分更新の日付フィールドを解釈します。
// 戻り値の set はフィールドがリクエストに含まれていたかを示します。
func parseOptionalDate(raw json.RawMessage, field string) (*time.Time, bool, error) {
	if raw == nil {
		return nil, false, nil
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, errors.New("invalid " + field)
	}
	if value == nil {
		return nil, true, nil
	}

	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, false, errors.New("invalid " + field)
	}
	return &t, true, nil
}

func (h *EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	endDate, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.uc.CreateEmployee(r.Context(), employee.CreateEmployeeInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		DivisionID: req.DivisionID,
		GroupID:    req.GroupID,
		LocationID: req.LocationID,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: created.ID})
}

func (h *EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, startDateSet, err := parseOptionalDate(req.StartDate, "start_date")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	endDate, endDateSet, err := parseOptionalDate(req.EndDate, "end_date")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.uc.UpdateEmployee(r.Context(), employee.UpdateEmployeeInput{
		ID:           id,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		DivisionID:   req.DivisionID,
		GroupID:      req.GroupID,
		LocationID:   req.LocationID,
		StartDate:    startDate,
		StartDateSet: startDateSet,
		EndDate:      endDate,
		EndDateSet:   endDateSet,
	}); err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := h.uc.GetEmployee(r.Context(), employee.GetEmployeeInput{ID: id})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(found))
}

func (h *EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	employees, err := h.uc.ListEmployees(r.Context())
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	body := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		body = append(body, toEmployeeResponse(e))
	}

	writeJSON(w, http.StatusOK, body)
}

func (h *EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	name, err := h.uc.DeleteEmployee(r.Context(), employee.DeleteEmployeeInput{ID: id})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Success: true, Name: name})
}
