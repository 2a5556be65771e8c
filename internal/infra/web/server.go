package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"unified-ai-chat/internal/infra/logging"
	"unified-ai-chat/internal/infra/metrics"
	"unified-ai-chat/internal/infra/worker"
	"unified-ai-chat/internal/usecase"
)

// RateLimiter is satisfied by the redis fixed-window limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	userUC        usecase.UserUseCase
	chatUC        usecase.ChatUseCase
	auth          *AuthManager
	limiter       RateLimiter
	chatPerMinute int
	pool          *worker.Pool
	log           *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	chatUC usecase.ChatUseCase,
	auth *AuthManager,
	limiter RateLimiter,
	chatPerMinute int,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		userUC:        userUC,
		chatUC:        chatUC,
		auth:          auth,
		limiter:       limiter,
		chatPerMinute: chatPerMinute,
		pool:          pool,
		log:           logger,
	}
}

// Router assembles the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.observe)

	r.Get("/api/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/auth/verify", s.handleVerify)

		r.Post("/api/session/create", s.handleCreateSession)
		r.Get("/api/sessions", s.handleListSessions)
		r.Get("/api/session/{id}/history", s.handleSessionHistory)
		r.Delete("/api/session/{id}", s.handleDeleteSession)

		r.With(s.rateLimitChat).Post("/api/chat", s.handleChat)
		r.Get("/api/chat/history/{user_id}", s.handleUserHistory)
	})

	r.Get("/api/ai/models", s.handleModels)
	r.Get("/ws", s.handleWS)

	return r
}

// observe tags the request context with a trace id and records request
// counts and latency per route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r = r.WithContext(logging.WithTraceID(r.Context(), uuid.NewString()))
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(route, ww.Status(), float64(time.Since(start).Milliseconds()))
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		ctx := logging.WithUserID(withClaims(r.Context(), claims), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimitChat bounds chat turns per user. Limiter errors fail open.
func (s *Server) rateLimitChat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, _ := ClaimsFromContext(r.Context())
		key := "rate_limit:" + claims.Subject + ":chat"
		ok, err := s.limiter.Allow(r.Context(), key, s.chatPerMinute, time.Minute)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			writeError(w, http.StatusTooManyRequests, "too many messages, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
