package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/config"
	"github.com/wndmngr/farmregistry/metrics"
	"github.com/wndmngr/farmregistry/permissions"
	"github.com/wndmngr/farmregistry/realtime"
	"github.com/wndmngr/farmregistry/services"
)

// RouterDeps wires the HTTP surface. Metrics and Hub are optional.
type RouterDeps struct {
	Config     config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	Metrics    *metrics.Metrics
	Hub        *realtime.Hub
	Farms      *services.FarmService
	Satellites *services.SatelliteService
	Referents  *services.ReferentService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   d.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Log, d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	health := &HealthHandler{DB: d.DB, Log: d.Log}
	r.Get("/", health.Health)
	r.Get("/health", health.Health)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	identity := Identity(d.Config, d.Log)
	if d.Hub != nil {
		r.With(identity).Get("/ws", d.Hub.ServeWS)
	}

	farmH := NewFarmHandler(d.Farms, d.Log)
	satH := NewSatelliteHandler(d.Satellites, d.Log)
	refH := NewReferentHandler(d.Referents, d.Log)
	exportH := NewExportHandler(d.Farms, d.Log)
	permH := &PermissionHandler{Log: d.Log}

	view := RequirePermission(permissions.FarmView)
	edit := RequirePermission(permissions.FarmEdit)
	referentEdit := RequirePermission(permissions.ReferentEdit)
	stats := RequirePermission(permissions.RegistryStats)

	r.Route("/api", func(r chi.Router) {
		r.Use(identity)
		if d.Config.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.Config.RequestTimeout))
		}

		r.Get("/me", CurrentUser(d.Log))
		r.Get("/permissions", permH.ListPermissionDefinitions)
		r.Get("/permissions/keys", permH.ListPermissionKeys)

		r.Group(func(r chi.Router) {
			r.Use(view)
			r.Get("/farm-types", farmH.ListFarmTypes)
			r.Get("/persons", refH.ListPersons)
			r.Get("/companies", refH.ListCompanies)
			r.Get("/person-roles", refH.ListPersonRoles)
			r.Get("/company-roles", refH.ListCompanyRoles)
		})

		r.Route("/farms", func(r chi.Router) {
			r.With(view).Get("/", farmH.ListFarms)
			r.With(RequirePermission(permissions.FarmCreate)).Post("/", farmH.CreateFarm)
			r.With(stats).Get("/stats", farmH.GetStats)
			r.With(stats).Get("/export", exportH.ExportFarms)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(FarmGuard(d.Farms, d.Log))

				r.With(view).Get("/", farmH.GetFarm)
				r.With(edit).Patch("/", farmH.PatchFarm)
				r.With(edit).Put("/", farmH.ReplaceFarm)
				r.With(RequirePermission(permissions.FarmDelete)).Delete("/", farmH.DeleteFarm)
				r.With(view).Get("/summary", farmH.GetSummary)

				for _, sat := range services.Satellites {
					r.With(edit).Patch("/"+sat.Name, satH.Patch(sat))
				}

				r.With(view).Get("/referents", refH.ListReferents)
				r.With(referentEdit).Put("/referents", refH.AssignPersonRole)
				r.With(referentEdit).Put("/company-roles", refH.AssignCompanyRole)
				r.With(referentEdit).Delete("/company-roles", refH.RemoveCompanyRole)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Route not found")
	})
	return r
}
