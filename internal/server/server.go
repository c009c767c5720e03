// Package server provides the HTTP REST API for the interview-prep service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/challenges"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/critique"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/interview"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/questionbank"
	"github.com/jonathan/interview-prep/internal/server/middleware"
	"github.com/jonathan/interview-prep/internal/server/ratelimit"
)

// maxBodyBytes caps JSON request bodies. Resume text is the largest payload.
const maxBodyBytes = 1 << 20

// Store is the persistence used by the handlers. *db.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateInterview(ctx context.Context, in db.InterviewInput) (*db.Interview, error)
	GetInterview(ctx context.Context, id uuid.UUID) (*db.Interview, error)
	ListInterviews(ctx context.Context, userID string) ([]db.Interview, error)
	DeleteInterview(ctx context.Context, id uuid.UUID) (bool, error)
	AppendMessage(ctx context.Context, interviewID uuid.UUID, role string, content string) error
	ListMessages(ctx context.Context, interviewID uuid.UUID) ([]db.Message, error)

	CreateQuestion(ctx context.Context, userID string, in db.QuestionInput) (*db.Question, error)
	ListQuestions(ctx context.Context, userID string, filters db.QuestionFilters) ([]db.Question, error)
	UpdateQuestion(ctx context.Context, userID string, id uuid.UUID, in db.QuestionInput) (*db.Question, error)
	DeleteQuestion(ctx context.Context, userID string, id uuid.UUID) (bool, error)

	ListCompanies(ctx context.Context) ([]db.CompanySummary, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*db.Company, error)
	AddBankQuestion(ctx context.Context, companyID uuid.UUID, in db.BankQuestionInput) (bool, error)
	ListBankQuestions(ctx context.Context, companyID uuid.UUID) ([]db.BankQuestion, error)

	ListChallenges(ctx context.Context) ([]db.Challenge, error)
	GetChallenge(ctx context.Context, id uuid.UUID) (*db.Challenge, error)
	SaveSubmission(ctx context.Context, s *db.Submission) error
	ListSubmissions(ctx context.Context, userID string) ([]db.Submission, error)

	SaveCritique(ctx context.Context, userID, targetRole, sourceURL string, overallScore int, body any) (*db.Critique, error)
	GetCritique(ctx context.Context, id uuid.UUID) (*db.Critique, error)
	ListCritiques(ctx context.Context, userID string) ([]db.Critique, error)
}

// AIClient is the model access the handlers need. llm.Client satisfies it.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

// Deps are the collaborators of a Server. Store, AI, Fetcher and Validator are required.
type Deps struct {
	Store     Store
	AI        AIClient
	Fetcher   questionbank.Fetcher
	Validator middleware.TokenValidator

	// PageFetcher loads resume pages for URL critiques. Defaults to fetch.Text.
	PageFetcher critique.PageFetcher
	// Limiter is optional; nil disables rate limiting.
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
	Metrics *observability.Metrics
	// Gatherer backs GET /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	SessionTTL        time.Duration
	ImportConcurrency int
	UseBrowser        bool
	Now               func() time.Time
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	sessions    *interview.Sessions
	interviewer *interview.Interviewer
	evaluator   *challenges.Evaluator
	critic      *critique.Critic
	importer    *questionbank.Importer
	rateLimiter *ratelimit.Limiter
	auth        func(http.Handler) http.Handler
	logger      *zap.Logger
	metrics     *observability.Metrics
	gatherer    prometheus.Gatherer
	now         func() time.Time
	closers     []func()
}

// Config holds server configuration
type Config struct {
	Port              int
	DatabaseURL       string
	LLM               *llm.Config
	APIKey            string
	SessionTTL        time.Duration
	ImportConcurrency int
	UseBrowser        bool
	Logger            *zap.Logger
}

// ConfigFrom builds a server Config from the loaded service configuration.
func ConfigFrom(cfg *config.Config, logger *zap.Logger) Config {
	return Config{
		Port:              cfg.Port,
		DatabaseURL:       cfg.DatabaseURL,
		LLM:               llm.DefaultConfigFor(cfg.Provider()),
		APIKey:            cfg.APIKey(),
		SessionTTL:        cfg.SessionTTL.Std(),
		ImportConcurrency: cfg.ImportConcurrency,
		UseBrowser:        cfg.UseBrowser,
		Logger:            logger,
	}
}

// New connects to the database and the AI provider and creates a server
// listening on cfg.Port.
func New(ctx context.Context, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	llmConfig := cfg.LLM
	if llmConfig == nil {
		llmConfig = llm.DefaultConfig()
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		_ = client.Close()
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.UseBrowser = cfg.UseBrowser
	fetchOpts.Logger = logger
	fetcher := fetch.NewCachedFetcher(database, &fetch.CachedFetcherConfig{
		CacheTTL: db.DefaultPageCacheTTL,
		Options:  fetchOpts,
		Logger:   logger,
	})

	s := NewWithDeps(Deps{
		Store:             database,
		AI:                llm.Instrument(client, llmConfig.Provider, metrics),
		Fetcher:           fetcher,
		Validator:         NewJWTService(jwtConfig).AsTokenValidator(),
		Limiter:           ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:            logger,
		Metrics:           metrics,
		Gatherer:          reg,
		SessionTTL:        cfg.SessionTTL,
		ImportConcurrency: cfg.ImportConcurrency,
		UseBrowser:        cfg.UseBrowser,
	})
	s.closers = append(s.closers,
		func() { _ = client.Close() },
		database.Close,
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // AI turns and imports are slow
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// NewWithDeps creates a server from already constructed collaborators.
// The returned server has no listener; use Handler to serve it.
func NewWithDeps(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	pageFetcher := d.PageFetcher
	if pageFetcher == nil {
		pageFetcher = fetch.Text
	}
	fetchOpts := fetch.DefaultOptions()
	fetchOpts.UseBrowser = d.UseBrowser
	fetchOpts.Logger = logger

	// A nil *Metrics must not reach the interface-typed options.
	var recorder interview.Recorder
	if d.Metrics != nil {
		recorder = d.Metrics
	}

	s := &Server{
		store:    d.Store,
		sessions: interview.NewSessions(d.SessionTTL, logger),
		interviewer: interview.NewInterviewer(d.AI, d.Store,
			interview.WithLogger(logger),
			interview.WithRecorder(recorder),
		),
		evaluator: challenges.NewEvaluator(d.AI, logger),
		critic: critique.NewCritic(d.AI,
			critique.WithPageFetcher(pageFetcher),
			critique.WithFetchOptions(fetchOpts),
			critique.WithLogger(logger),
		),
		importer: questionbank.NewImporter(d.Store, d.Fetcher,
			questionbank.WithConcurrency(d.ImportConcurrency),
			questionbank.WithLogger(logger),
		),
		rateLimiter: d.Limiter,
		auth:        middleware.AuthMiddleware(d.Validator),
		logger:      logger,
		metrics:     d.Metrics,
		gatherer:    gatherer,
		now:         now,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Interviews
	mux.Handle("POST /interviews", s.protected(s.handleCreateInterview))
	mux.Handle("GET /interviews", s.protected(s.handleListInterviews))
	mux.Handle("GET /interviews/{id}", s.protected(s.handleGetInterview))
	mux.Handle("DELETE /interviews/{id}", s.protected(s.handleDeleteInterview))
	mux.Handle("POST /interviews/{id}/start", s.protected(s.handleStartInterview))
	mux.Handle("POST /interviews/{id}/messages", s.protected(s.handleSendMessage))
	mux.Handle("POST /interviews/{id}/messages/stream", s.protected(s.handleSendMessageStream))
	mux.Handle("GET /interviews/{id}/messages", s.protected(s.handleListMessages))
	mux.Handle("GET /interviews/{id}/context", s.protected(s.handleGetContext))

	// Practice questions
	mux.Handle("POST /questions", s.protected(s.handleCreateQuestion))
	mux.Handle("GET /questions", s.protected(s.handleListQuestions))
	mux.Handle("PUT /questions/{id}", s.protected(s.handleUpdateQuestion))
	mux.Handle("DELETE /questions/{id}", s.protected(s.handleDeleteQuestion))

	// Company question banks
	mux.Handle("GET /companies", s.protected(s.handleListCompanies))
	mux.Handle("GET /companies/{id}/questions", s.protected(s.handleListCompanyQuestions))
	mux.Handle("POST /companies/{id}/questions/import", s.protected(s.handleImportQuestions))

	// Coding challenges
	mux.Handle("GET /challenges/daily", s.protected(s.handleDailyChallenge))
	mux.Handle("POST /challenges/{id}/submissions", s.protected(s.handleSubmitChallenge))
	mux.Handle("GET /submissions", s.protected(s.handleListSubmissions))

	// Resume critiques
	mux.Handle("POST /critiques", s.protected(s.handleCreateCritique))
	mux.Handle("GET /critiques", s.protected(s.handleListCritiques))
	mux.Handle("GET /critiques/{id}", s.protected(s.handleGetCritique))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.auth(h)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return fmt.Errorf("server has no listener configured")
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.Close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close stops background goroutines and releases the store and AI client.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.sessions.Stop()
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging and HTTP metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		// The mux sets Pattern on the same request; unmatched requests have none.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTPRequest(r.Method, route, rec.status, elapsed)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("remote", r.RemoteAddr))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check: database unreachable", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it. Server-side failures are
// logged and reported with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	switch {
	case status == http.StatusBadGateway:
		s.logger.Error("AI request failed", zap.String("path", r.URL.Path), zap.Error(err))
		message = "the AI service failed to respond, please try again"
	case status >= 500:
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		message = "internal server error"
	}

	body := map[string]any{"error": message}
	var turnErr *interview.TurnError
	if errors.As(err, &turnErr) {
		body["user_message_saved"] = turnErr.UserMessagePersisted
	}
	s.jsonResponse(w, status, body)
}

// publicMessage is the client-facing text for err, as written by writeError.
func publicMessage(err error) string {
	status := HTTPStatus(err)
	switch {
	case status == http.StatusBadGateway:
		return "the AI service failed to respond, please try again"
	case status >= 500:
		return "internal server error"
	default:
		return err.Error()
	}
}

// decodeJSON reads a JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// validate runs a request's Validate method, reporting failures as ErrValidation.
func validate(v interface{ Validate() error }) error {
	if err := v.Validate(); err != nil {
		return &ErrValidation{Message: err.Error()}
	}
	return nil
}

// pathID parses the {id} path value.
func pathID(r *http.Request, resource string) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: fmt.Sprintf("invalid %s id %q", resource, raw)}
	}
	return id, nil
}

// parseQueryInt reads an integer query parameter, falling back to def when
// absent and clamping to [1, max].
func parseQueryInt(r *http.Request, key string, def, max int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ErrValidation{Field: key, Message: "must be a positive integer"}
	}
	if n > max {
		n = max
	}
	return n, nil
}

// currentUser returns the authenticated user id, writing a 401 when absent.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

// extractClientID extracts the client identifier from the request.
// It runs before authentication, so this is the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.Tier != "" {
		response["tier"] = info.Tier
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds())
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("tier", string(info.Tier)),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
