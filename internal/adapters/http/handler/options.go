package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/version"
)

// Pinger はデータベースへの疎通確認の抽象です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// OptionsHandler はヘルスチェックとアプリケーションバージョンの
// エンドポイントを提供します。
type OptionsHandler struct {
	logger *slog.Logger
	db     Pinger
	uc     version.UseCase
}

// NewOptionsHandler は OptionsHandler を生成します。
func NewOptionsHandler(logger *slog.Logger, db Pinger, uc version.UseCase) *OptionsHandler {
	return &OptionsHandler{logger: logger, db: db, uc: uc}
}

// Register はルートを登録します。
func (h *OptionsHandler) Register(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/version", h.getVersion)
	r.Put("/version", h.putVersion)
}

type healthResponse struct {
	Status string `json:"status"`
}

type versionResponse struct {
	Version string `json:"version"`
}

type putVersionRequest struct {
	Version string `json:"version"`
}

func (h *OptionsHandler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "database unavailable")
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *OptionsHandler) getVersion(w http.ResponseWriter, r *http.Request) {
	record, err := h.uc.Get(r.Context())
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, versionResponse{Version: record.Version})
}

func (h *OptionsHandler) putVersion(w http.ResponseWriter, r *http.Request) {
	var req putVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.uc.Set(r.Context(), req.Version)
	if err != nil {
		respondError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, versionResponse{Version: record.Version})
}
