// Package httpapi は HTTP ルーティングと共通ミドルウェアをまとめます。
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ogurasousui/staffdir-clean-arch/internal/adapters/http/handler"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/employee"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/holiday"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/named"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/version"
)

// Deps はルーター構築に必要な依存をまとめます。
type Deps struct {
	Logger      *slog.Logger
	Groups      named.UseCase
	Divisions   named.UseCase
	Departments named.UseCase
	Locations   named.UseCase
	Employees   employee.UseCase
	Holidays    holiday.UseCase
	Version     version.UseCase
	DB          handler.Pinger
}

// NewRouter は全エンドポイントを配線した http.Handler を返します。
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(d.Logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/groups", handler.NewNamedHandler(d.Logger, d.Groups).Register)
		r.Route("/divisions", handler.NewNamedHandler(d.Logger, d.Divisions).Register)
		r.Route("/departments", handler.NewNamedHandler(d.Logger, d.Departments).Register)
		r.Route("/locations", handler.NewNamedHandler(d.Logger, d.Locations).Register)
		r.Route("/employees", handler.NewEmployeeHandler(d.Logger, d.Employees).Register)
		r.Route("/holidays", handler.NewHolidayHandler(d.Logger, d.Holidays).Register)
	})

	handler.NewOptionsHandler(d.Logger, d.DB, d.Version).Register(r)

	return r
}
