package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/attendly/timepay-engine-go/internal/handler/http/middleware"
	"github.com/attendly/timepay-engine-go/internal/pkg/jwt"
	"github.com/attendly/timepay-engine-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterDeps struct {
	JWTService        jwt.Service
	Limiter           *ratelimit.PerUserLimiter
	AttendanceHandler AttendanceHandler
	OvertimeHandler   OvertimeHandler
	PayrollHandler    PayrollHandler
	DepartmentHandler DepartmentHandler
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timepay-engine"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimited(deps.Limiter))
					r.Post("/check-in", deps.AttendanceHandler.CheckIn)
					r.Post("/check-out", deps.AttendanceHandler.CheckOut)
				})
				r.Get("/", deps.AttendanceHandler.List)
				r.Get("/{id}", deps.AttendanceHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/pending", deps.AttendanceHandler.ListPending)
					r.Post("/{id}/review", deps.AttendanceHandler.Review)
				})
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimited(deps.Limiter))
					r.Post("/start", deps.OvertimeHandler.Start)
					r.Post("/end", deps.OvertimeHandler.End)
				})
				r.Get("/status", deps.OvertimeHandler.Status)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/pending", deps.OvertimeHandler.ListPending)
					r.Post("/{id}/review", deps.OvertimeHandler.Review)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/report", deps.PayrollHandler.Report)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/generate", deps.PayrollHandler.Generate)
					r.Get("/periods/{year}/{month}", deps.PayrollHandler.GetPeriod)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMaster)
					r.Post("/periods/{year}/{month}/lock", deps.PayrollHandler.LockPeriod)
					r.Post("/periods/{year}/{month}/unlock", deps.PayrollHandler.UnlockPeriod)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/{name}/timing", deps.DepartmentHandler.GetTiming)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/{name}/timing", deps.DepartmentHandler.UpdateTiming)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
