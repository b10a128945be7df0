package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/ogurasousui/staffdir-clean-arch/internal/adapters/http"
	"github.com/ogurasousui/staffdir-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/employee"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/holiday"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/named"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/version"
	"github.com/ogurasousui/staffdir-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/staffdir-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/staffdir-clean-arch/internal/platform/logger"
	"github.com/ogurasousui/staffdir-clean-arch/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(cfg.Logging.Level)

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	groupSvc := named.NewService(named.KindGroup, postgres.NewGroupRepository(dbPool), nil, txManager)
	divisionSvc := named.NewService(named.KindDivision, postgres.NewDivisionRepository(dbPool), nil, txManager)
	departmentSvc := named.NewService(named.KindDepartment, postgres.NewDepartmentRepository(dbPool), nil, txManager)
	locationSvc := named.NewService(named.KindLocation, postgres.NewLocationRepository(dbPool), nil, txManager)
	employeeSvc := employee.NewService(postgres.NewEmployeeRepository(dbPool), nil, txManager)
	holidaySvc := holiday.NewService(postgres.NewHolidayRepository(dbPool), nil, txManager)
	versionSvc := version.NewService(postgres.NewVersionRepository(dbPool), nil, txManager)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:      logg,
		Groups:      groupSvc,
		Divisions:   divisionSvc,
		Departments: departmentSvc,
		Locations:   locationSvc,
		Employees:   employeeSvc,
		Holidays:    holidaySvc,
		Version:     versionSvc,
		DB:          dbPool,
	})

	httpServer := server.New(cfg.Server.ListenAddr, router)

	logg.Info("http server listening", "addr", cfg.Server.ListenAddr)

	if err := httpServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
