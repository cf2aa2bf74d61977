package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/config"
	"github.com/wndmngr/farmregistry/metrics"
	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/permissions"
)

// Headers set by Cloudflare Access in front of the service.
const (
	HeaderCFEmail = "cf-access-authenticated-user-email"
	HeaderCFName  = "cf-access-authenticated-user-common-name"
)

// Identity sources recorded on models.User.
const (
	SourceToken      = "token"
	SourceCloudflare = "cloudflare"
	SourceDev        = "dev"
)

const (
	devUserEmail = "dev@wpd.fr"
	devUserName  = "Dev User (Mock)"
)

// Identity resolves the principal of every request, in order: bearer service token (when a
// secret is configured), Cloudflare Access headers, then the mock user in development.
func Identity(cfg config.Config, log *zap.Logger) func(http.Handler) http.Handler {
	secret := []byte(cfg.APITokenSecret)
	domain := strings.ToLower(strings.TrimSpace(cfg.AllowedEmailDomain))
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := identify(r, secret, cfg.IsDevelopment())
			if err != nil {
				log.Info("rejected token", zap.String("path", r.URL.Path), zap.Error(err))
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			user.Email = strings.ToLower(strings.TrimSpace(user.Email))
			if domain != "" && !strings.HasSuffix(user.Email, "@"+domain) {
				log.Warn("email outside allowed domain", zap.String("email", user.Email), zap.String("source", user.Source))
				WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("Access Restricted to %s domain", domain))
				return
			}
			if strings.TrimSpace(user.Name) == "" {
				user.Name = strings.SplitN(user.Email, "@", 2)[0]
			}
			isAdmin := len(admins) == 0 || admins[user.Email]
			user.Permissions = permissions.GrantedPermissions(isAdmin)

			if info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo); ok {
				info.user = user.Email
			}
			next.ServeHTTP(w, r.WithContext(models.ContextWithUser(r.Context(), user)))
		})
	}
}

// identify returns nil without error when the request carries no identity at all.
func identify(r *http.Request, secret []byte, development bool) (*models.User, error) {
	if len(secret) > 0 {
		if raw, ok := bearerToken(r); ok {
			claims, err := ParseToken(secret, raw)
			if err != nil {
				return nil, err
			}
			return &models.User{Email: claims.Email, Name: claims.Name, Source: SourceToken}, nil
		}
	}
	if email := strings.TrimSpace(r.Header.Get(HeaderCFEmail)); email != "" {
		return &models.User{Email: email, Name: r.Header.Get(HeaderCFName), Source: SourceCloudflare}, nil
	}
	if development {
		return &models.User{Email: devUserEmail, Name: devUserName, Source: SourceDev}, nil
	}
	return nil, nil
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// RequirePermission rejects requests whose user lacks permission. It must run after Identity.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := models.UserFromContext(r.Context())
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			if !user.HasPermission(permission) {
				WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("Forbidden: requires permission '%s'", permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FarmResolver looks a farm up by uuid. services.FarmService implements it.
type FarmResolver interface {
	Resolve(ctx context.Context, farmUUID string) (*models.Farm, error)
}

type farmContextKey struct{}

// FarmGuard resolves the {uuid} route parameter once and stores the farm on the request context.
// Unknown farms are answered with 404 before the handler runs.
func FarmGuard(farms FarmResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			farm, err := farms.Resolve(r.Context(), chi.URLParam(r, "uuid"))
			if err != nil {
				writeError(log, w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), farmContextKey{}, farm)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FarmFromContext returns the farm resolved by FarmGuard.
func FarmFromContext(ctx context.Context) *models.Farm {
	farm, _ := ctx.Value(farmContextKey{}).(*models.Farm)
	return farm
}

// requestInfo is filled by inner middleware so the request logger can report it.
type requestInfo struct {
	user string
}

type requestInfoKey struct{}

// RequestLogger logs each request with zap and records it in the HTTP metrics.
func RequestLogger(log *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			m.ObserveRequest(r.Method, route, strconv.Itoa(status), elapsed.Seconds())

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if info.user != "" {
				fields = append(fields, zap.String("user", info.user))
			}
			log.Info("request", fields...)
		})
	}
}
