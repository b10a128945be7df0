// Package handler は HTTP ハンドラとスキーマ、エラー変換をまとめます。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/employee"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/holiday"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/named"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/version"
)

// idResponse は作成成功時のレスポンスです。
type idResponse struct {
	ID int64 `json:"id"`
}

// successResponse は更新成功時のレスポンスです。
type successResponse struct {
	Success bool `json:"success"`
}

// deleteResponse は削除成功時のレスポンスです。削除した対象の表示名を含みます。
type deleteResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

// detailResponse はエラーレスポンスの共通形式です。
type detailResponse struct {
	Detail string `json:"detail"`
}

var badRequestErrors = []error{
	named.ErrNameAlreadyExists,
	named.ErrCreateFailed,
	named.ErrInvalidName,
	named.ErrInvalidID,
	employee.ErrEmailAlreadyExists,
	employee.ErrCreateFailed,
	employee.ErrInvalidID,
	employee.ErrInvalidFirstName,
	employee.ErrInvalidLastName,
	employee.ErrInvalidEmail,
	employee.ErrInvalidDivisionID,
	employee.ErrInvalidGroupID,
	employee.ErrInvalidLocationID,
	holiday.ErrNameAlreadyExists,
	holiday.ErrCreateFailed,
	holiday.ErrInvalidID,
	holiday.ErrInvalidName,
	holiday.ErrInvalidRuleType,
	holiday.ErrInvalidObservedRule,
	version.ErrInvalidVersion,
}

var notFoundErrors = []error{
	named.ErrNotFound,
	employee.ErrEmployeeNotFound,
	holiday.ErrHolidayNotFound,
	version.ErrVersionNotSet,
}

// statusForError はドメインエラーを HTTP ステータスに変換します。
// どの既知エラーにも一致しない場合は 500 と汎用メッセージを返します。
func statusForError(err error) (int, string) {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, err.Error()
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

// respondError はドメインエラーをレスポンスに書き出します。
// 500 系はエラーレベル、400 系は警告レベルでログに残します。
func respondError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	status, detail := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "error", err)
	} else {
		logger.WarnContext(ctx, "request rejected", "error", err)
	}
	writeDetail(w, status, detail)
}

// pathID は URL パラメータ {id} を int64 として取り出します。
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
