/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"chatrelay/internal/pkg/auth/jwt"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/resp"
)

const (
	CreateRate  = 0.05
	CreateBurst = 2
	JoinRate    = 0.2
	JoinBurst   = 5
)

// Limiters holds the IP rate limiters used by the router so the caller can stop them on shutdown.
type Limiters struct {
	Create *limiter.IPRateLimiter
	Join   *limiter.IPRateLimiter
}

// NewLimiters creates the default per-IP limiters.
func NewLimiters() *Limiters {
	return &Limiters{
		Create: limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst),
		Join:   limiter.NewIPRateLimiter(rate.Limit(JoinRate), JoinBurst),
	}
}

// Stop terminates the limiters' cleanup goroutines.
func (l *Limiters) Stop() {
	l.Create.Stop()
	l.Join.Stop()
}

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It configures CORS, the WebSocket upgrader and applies global and per-route middleware.
func Router(deps *AppDeps, limiters *Limiters) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-PoW-Token"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get(logx.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":      "ok",
			"service":     "chatrelay",
			"connections": deps.Lifecycle.Registry().Len(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/pow", func(p chi.Router) {
			p.Get("/challenge", HandlePowChallenge(deps))
			p.Post("/verify", HandlePowVerify(deps))
		})

		api.Group(func(authed chi.Router) {
			authed.Use(jwt.IdentityExtractorMiddleware(deps.Verifier))
			authed.Use(RequireUser(deps.Users))

			authed.Route("/users", func(users chi.Router) {
				users.Get("/me", HandleGetMe(deps))
				users.Put("/me", HandleUpdateMe(deps))
				users.Get("/{userID}", HandleGetUser(deps))
			})

			authed.Route("/groups", func(groups chi.Router) {
				groups.With(limiters.Create.Middleware).Post("/", HandleCreateGroup(deps))
				groups.Post("/{groupID}/members", HandleAddGroupMember(deps))
				groups.Get("/{groupID}/members", HandleListGroupMembers(deps))
			})

			authed.Route("/media", func(media chi.Router) {
				media.Post("/", HandleUploadMedia(deps))
				media.Post("/presign", HandlePresignUpload(deps))
				media.Get("/download", HandleDownloadMedia(deps))
			})
		})
	})

	r.Get("/ws/chat/{userID}", HandleDirectChat(deps, wsUpgrader, limiters.Join))
	r.Get("/ws/chat/group/{groupID}", HandleGroupChat(deps, wsUpgrader, limiters.Join))

	return r
}
