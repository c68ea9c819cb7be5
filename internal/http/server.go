// Package http exposes the JSON API. Routing uses net/http method
// patterns; identity comes from the X-User-ID header.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/GeX90/gestorapp-backend/internal/cache"
	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/services"
)

// Services bundles the application services the API serves.
type Services struct {
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Categories   *services.CategoryService
	Stats        *services.StatsService
	Export       *services.ExportService
}

type Server struct {
	http.Server
	svc         Services
	rateLimiter *rateLimiter

	// Evaluated views are cheap to recompute but hot on dashboards, so
	// they sit behind short-TTL LRU caches invalidated on writes.
	budgetCache  *cache.LRU[core.BudgetView]
	statsCache   *cache.LRU[core.StatsView]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, svc Services) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		svc:          svc,
		rateLimiter:  newRateLimiter(),
		budgetCache:  cache.NewLRU[core.BudgetView](200, 5*time.Minute),
		statsCache:   cache.NewLRU[core.StatsView](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.budgetCache)
	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/transactions", s.withAPI(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.withAPI(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/stats", s.withAPI(s.handleStats))
	mux.HandleFunc("GET /api/transactions/export", s.withAPI(s.handleExport))
	mux.HandleFunc("GET /api/transactions/{id}", s.withAPI(s.handleGetTransaction))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.withAPI(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withAPI(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/budgets", s.withAPI(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets", s.withAPI(s.handleListBudgets))
	mux.HandleFunc("GET /api/budgets/current", s.withAPI(s.handleCurrentBudget))
	mux.HandleFunc("GET /api/budgets/{year}/{month}", s.withAPI(s.handleGetBudget))
	mux.HandleFunc("PATCH /api/budgets/{year}/{month}", s.withAPI(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{year}/{month}", s.withAPI(s.handleDeleteBudget))

	mux.HandleFunc("POST /api/categories", s.withAPI(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories", s.withAPI(s.handleListCategories))
	mux.HandleFunc("POST /api/categories/defaults", s.withAPI(s.handleSeedCategories))
	mux.HandleFunc("GET /api/categories/{id}", s.withAPI(s.handleGetCategory))
	mux.HandleFunc("PATCH /api/categories/{id}", s.withAPI(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withAPI(s.handleDeleteCategory))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withAPI adds request logging, security headers, rate limiting on
// writes, and the identity requirement shared by every API route.
func (s *Server) withAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if userID(r) == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing X-User-ID header"})
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func budgetCacheKey(userID string, year, month int) string {
	return userID + "|" + strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func statsCacheKey(userID string, month, year *int) string {
	key := userID + "|"
	if month != nil {
		key += strconv.Itoa(*month)
	}
	key += "|"
	if year != nil {
		key += strconv.Itoa(*year)
	}
	return key
}

// invalidateBudget drops the cached evaluation for one budget period.
func (s *Server) invalidateBudget(userID string, year, month int) {
	s.budgetCache.Delete(budgetCacheKey(userID, year, month))
}

// invalidateForTransaction drops every cached view a transaction write
// can change: the budget of its month and the stats filters covering it.
func (s *Server) invalidateForTransaction(userID string, date time.Time) {
	year := date.UTC().Year()
	month := int(date.UTC().Month())

	s.invalidateBudget(userID, year, month)
	s.statsCache.Delete(statsCacheKey(userID, nil, nil))
	s.statsCache.Delete(statsCacheKey(userID, nil, &year))
	s.statsCache.Delete(statsCacheKey(userID, &month, &year))
}
