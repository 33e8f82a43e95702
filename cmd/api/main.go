package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attendly/timepay-engine-go/internal/config"
	appHTTP "github.com/attendly/timepay-engine-go/internal/handler/http"
	"github.com/attendly/timepay-engine-go/internal/pkg/cron"
	"github.com/attendly/timepay-engine-go/internal/pkg/database"
	"github.com/attendly/timepay-engine-go/internal/pkg/jwt"
	"github.com/attendly/timepay-engine-go/internal/pkg/ratelimit"
	"github.com/attendly/timepay-engine-go/internal/repository/postgresql"
	attendanceService "github.com/attendly/timepay-engine-go/internal/service/attendance"
	departmentService "github.com/attendly/timepay-engine-go/internal/service/department"
	overtimeService "github.com/attendly/timepay-engine-go/internal/service/overtime"
	payrollService "github.com/attendly/timepay-engine-go/internal/service/payroll"
	periodService "github.com/attendly/timepay-engine-go/internal/service/payrollperiod"
	reviewService "github.com/attendly/timepay-engine-go/internal/service/review"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	recordRepo := postgresql.NewAttendanceRepository(db)
	sessionRepo := postgresql.NewOTSessionRepository(db)
	timingRepo := postgresql.NewDepartmentTimingRepository(db)
	periodRepo := postgresql.NewPayrollPeriodRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	settingsRepo := postgresql.NewCompanySettingsRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	limiter := ratelimit.NewPerUserLimiter(cfg.Engine.RateLimitInterval, 1, 1*time.Hour)

	timingStore := departmentService.NewTimingStore(timingRepo)
	lockService := periodService.NewLockService(periodRepo)
	recordService := attendanceService.NewRecordService(
		recordRepo,
		employeeRepo,
		timingStore,
		holidayRepo,
		leaveRepo,
		lockService,
		notificationRepo,
		cfg.Engine.LookbackDays,
		cfg.Engine.SweepBatchLimit,
	)
	txRunner := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	}
	sessionService := overtimeService.NewSessionService(
		sessionRepo,
		recordRepo,
		employeeRepo,
		timingStore,
		holidayRepo,
		leaveRepo,
		lockService,
		settingsRepo,
		notificationRepo,
		txRunner,
		cfg.Engine.AutoCloseAfter,
		cfg.Engine.LookbackDays,
		cfg.Engine.SweepBatchLimit,
	)
	recordReviewService := reviewService.NewReviewService(recordRepo, timingStore, lockService, notificationRepo, txRunner)
	payrollSvc := payrollService.NewService(recordRepo, employeeRepo, timingStore, holidayRepo, settingsRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(recordService, recordReviewService)
	overtimeHandler := appHTTP.NewOvertimeHandler(sessionService)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, lockService)
	departmentHandler := appHTTP.NewDepartmentHandler(timingStore)

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:        jwtService,
		Limiter:           limiter,
		AttendanceHandler: attendanceHandler,
		OvertimeHandler:   overtimeHandler,
		PayrollHandler:    payrollHandler,
		DepartmentHandler: departmentHandler,
	})

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(recordService, cfg.Engine.AutoCheckoutInterval).RegisterJobs(scheduler)
	cron.NewOvertimeJobs(sessionService, cfg.Engine.AutoCloseInterval).RegisterJobs(scheduler)
	cron.NewMaintenanceJobs(limiter).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}
