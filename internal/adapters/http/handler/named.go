package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/named"
)

// NamedHandler はグループ・部門・事業部・拠点の CRUD エンドポイントを提供します。
// エンティティ種別ごとにインスタンス化し、異なるパスにマウントします。
type NamedHandler struct {
	logger *slog.Logger
	uc     named.UseCase
}

// NewNamedHandler は NamedHandler を生成します。
func NewNamedHandler(logger *slog.Logger, uc named.UseCase) *NamedHandler {
	return &NamedHandler{logger: logger, uc: uc}
}

// Register はルートを登録します。
func (h *NamedHandler) Register(r chi.Router) {
	r.Post("/create", h.create)
	r.Put("/update/{id}", h.update)
	r.Get("/get/{id}", h.get)
	r.Get("/list", h.list)
	r.Delete("/delete/{id}", h.delete)
}

type createNamedRequest struct {
	Name string `json:"name"`
}

type updateNamedRequest struct {
	Name *string `json:"name"`
}

type namedResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toNamedResponse(e *named.Entity) namedResponse {
	return namedResponse{ID: e.ID, Name: e.Name}
}

func (h *NamedHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createNamedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.uc.Create(r.Context(), named.CreateInput{Name: req.Name})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: created.ID})
}

func (h *NamedHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateNamedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.uc.Update(r.Context(), named.UpdateInput{ID: id, Name: req.Name}); err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *NamedHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := h.uc.Get(r.Context(), named.GetInput{ID: id})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toNamedResponse(found))
}

func (h *NamedHandler) list(w http.ResponseWriter, r *http.Request) {
	entities, err := h.uc.List(r.Context())
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	body := make([]namedResponse, 0, len(entities))
	for _, e := range entities {
		body = append(body, toNamedResponse(e))
	}

	writeJSON(w, http.StatusOK, body)
}

func (h *NamedHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	name, err := h.uc.Delete(r.Context(), named.DeleteInput{ID: id})
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Success: true, Name: name})
}
