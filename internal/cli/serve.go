package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/buildinfo"
	"github.com/matzehuels/gridkit/pkg/cache"
	gkerrors "github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/layout"
	"github.com/matzehuels/gridkit/pkg/pipeline"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20

	// requestTimeout bounds each request.
	requestTimeout = 30 * time.Second

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command for the JSON playground server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON playground server",
		Long: `Run an HTTP server exposing the layout engine as JSON endpoints:

  POST /columns       resolve column widths
  POST /layout        compute a layout snapshot (inline TOML source)
  POST /drop-target   simulate a drag and optionally commit the drop
  POST /fixtures      store a fixture source, returns its id
  GET  /fixtures/{id} fetch a stored fixture source
  GET  /healthz       build information

Responses are cached in the local file cache, or in Redis with --redis-addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the shared cache (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the server and shuts it down when ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisAddr string, noCache bool) error {
	logger := loggerFromContext(ctx)

	store, backend, err := serveCache(ctx, redisAddr, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	srv := newServer(store, logger)
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpSrv.ListenAndServe()
	}()
	printSuccess("Serving on http://%s", addr)
	printDetail("Cache: %s", backend)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
		return ctx.Err()
	}
}

// serveCache picks the response cache: Redis when an address is given,
// falling back to the local file cache when Redis cannot be reached.
func serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, string, error) {
	if noCache {
		return cache.NewNullCache(), "disabled", nil
	}
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: redisAddr, DialTimeout: 2 * time.Second})
		if err == nil {
			return rc, "redis at " + redisAddr, nil
		}
		if !errors.Is(err, cache.ErrNetwork) {
			return nil, "", err
		}
		printWarning("Redis at %s is unreachable, using the file cache", redisAddr)
	}
	store, err := newCache(false)
	if err != nil {
		return nil, "", err
	}
	return store, "file", nil
}

// =============================================================================
// Server
// =============================================================================

// server holds the shared runner of the playground. Every request builds its
// own collection, layout and drop machine, so handlers share no engine state.
type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

func newServer(store cache.Cache, logger *log.Logger) *server {
	keyer := cache.NewScopedKeyer(nil, "serve:")
	return &server{
		runner: pipeline.NewRunner(store, keyer, logger),
		logger: logger,
	}
}

func (s *server) Close() error { return s.runner.Close() }

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Post("/columns", s.handleColumns)
	r.Post("/layout", s.handleLayout)
	r.Post("/drop-target", s.handleDropTarget)
	r.Route("/fixtures", func(r chi.Router) {
		r.Post("/", s.handleStoreFixture)
		r.Get("/{id}", s.handleGetFixture)
	})
	return r
}

type requestIDKey struct{}

// requestID tags each request with a UUID, echoed in X-Request-ID, and logs
// its completion.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// columnsRequest is the body of POST /columns.
type columnsRequest struct {
	Width   float64         `json:"width"`
	Columns []fixture.Column `json:"columns"`
	Resize  []string        `json:"resize,omitempty"`
}

// columnWidth is one resolved column of a columns response.
type columnWidth struct {
	Key   string  `json:"key"`
	Spec  string  `json:"spec"`
	Width float64 `json:"width"`
}

func (s *server) handleColumns(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	key := s.runner.Keyer.ResponseKey("columns", cache.Hash(body))
	if data, hit, err := s.runner.Cache.Get(r.Context(), key); err == nil && hit {
		writeRaw(w, http.StatusOK, data)
		return
	}

	var req columnsRequest
	if err := decodeJSON(body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Columns) == 0 {
		writeError(w, r, gkerrors.New(gkerrors.ErrCodeInvalidInput, "columns are required"))
		return
	}
	f := &fixture.Fixture{Columns: req.Columns}
	if err := f.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := resolveColumns(f, req.Width, req.Resize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]columnWidth, 0, len(rows))
	for _, row := range rows {
		out = append(out, columnWidth{Key: string(row.Key), Spec: row.Spec, Width: row.Resolved})
	}
	data, err := json.Marshal(map[string]any{"columns": out})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.runner.Cache.Set(r.Context(), key, data, cache.TTLResponse); err != nil {
		s.logger.Warn("cache columns response", "error", err)
	}
	writeRaw(w, http.StatusOK, data)
}

// layoutRequest is the body of POST /layout.
type layoutRequest struct {
	pipeline.Options
	FixtureID string `json:"fixture_id,omitempty"`
}

// layoutResponse is the body returned by POST /layout.
type layoutResponse struct {
	FixtureHash string            `json:"fixture_hash"`
	Snapshot    layout.Snapshot   `json:"snapshot"`
	Artifacts   map[string]string `json:"artifacts,omitempty"`
	Cached      bool              `json:"cached"`
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(r.Context(), req.Options, req.FixtureID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatJSON}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := layoutResponse{
		FixtureHash: result.FixtureHash,
		Snapshot:    result.Snapshot,
		Cached:      result.CacheInfo.LayoutHit,
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// dropRequest is the body of POST /drop-target.
type dropRequest struct {
	pipeline.DropOptions
	FixtureID string `json:"fixture_id,omitempty"`
}

func (s *server) handleDropTarget(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(r.Context(), req.Options, req.FixtureID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, _, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req.DropOptions.Options = opts
	result, err := pipeline.ResolveDrop(r.Context(), f, req.DropOptions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStoreFixture validates a TOML body and stores it under its hash.
func (s *server) handleStoreFixture(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := fixture.Parse(body); err != nil {
		writeError(w, r, err)
		return
	}
	id := cache.Hash(body)
	if err := s.runner.Cache.Set(r.Context(), s.runner.Keyer.FixtureKey(id), body, cache.TTLFixture); err != nil {
		writeError(w, r, gkerrors.Wrap(gkerrors.ErrCodeInternal, err, "store fixture"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *server) handleGetFixture(w http.ResponseWriter, r *http.Request) {
	source, err := s.loadFixture(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.WriteHeader(http.StatusOK)
	w.Write(source)
}

// requestOptions resolves a stored fixture id into an inline source. Paths
// on the server's file system are never read.
func (s *server) requestOptions(ctx context.Context, opts pipeline.Options, fixtureID string) (pipeline.Options, error) {
	if opts.Fixture != "" {
		return opts, gkerrors.New(gkerrors.ErrCodeUnsupported, "fixture paths are not accepted; send source or fixture_id")
	}
	if fixtureID != "" {
		source, err := s.loadFixture(ctx, fixtureID)
		if err != nil {
			return opts, err
		}
		opts.Source = string(source)
	}
	opts.Logger = s.logger
	return opts, nil
}

func (s *server) loadFixture(ctx context.Context, id string) ([]byte, error) {
	data, hit, err := s.runner.Cache.Get(ctx, s.runner.Keyer.FixtureKey(id))
	if err != nil {
		return nil, gkerrors.Wrap(gkerrors.ErrCodeInternal, err, "load fixture %s", id)
	}
	if !hit {
		return nil, gkerrors.New(gkerrors.ErrCodeNotFound, "fixture %s not found", id)
	}
	return data, nil
}

// =============================================================================
// JSON helpers
// =============================================================================

// errorResponse is the body of every error response.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, gkerrors.Wrap(gkerrors.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) > maxBodyBytes {
		return nil, gkerrors.New(gkerrors.ErrCodeInvalidInput, "body exceeds %d bytes", maxBodyBytes)
	}
	return body, nil
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return gkerrors.Wrap(gkerrors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func readJSON(r *http.Request, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	return decodeJSON(body, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := gkerrors.GetCode(err)
	if code == "" {
		code = gkerrors.ErrCodeInternal
	}
	id, _ := r.Context().Value(requestIDKey{}).(string)
	writeJSON(w, gkerrors.HTTPStatus(err), errorResponse{
		Code:      string(code),
		Message:   gkerrors.UserMessage(err),
		RequestID: id,
	})
}
