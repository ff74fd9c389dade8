package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voxgen/pkg/buildinfo"
	"github.com/matzehuels/voxgen/pkg/cache"
	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/observability"
	"github.com/matzehuels/voxgen/pkg/pipeline"
)

const (
	defaultAddr    = ":8080"
	defaultMaxBody = 64 << 20
)

// serveCommand creates the serve command running the HTTP endpoint.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Long: `Serve conversions over HTTP.

Endpoints:
  POST /convert   body: XYZ point cloud, response: .vox file
                  query: voxel_size, max_model_size, refresh
  GET  /healthz   liveness and version

Conversion statistics are returned in X-Voxgen-* response headers.
Errors are JSON objects with "code" and "error" fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, maxBody, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", defaultMaxBody, "largest accepted request body in bytes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxBody int64, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, appName+":serve:")

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, c.Config, c.Logger, maxBody),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	url := "http://" + displayAddr(addr)
	printSuccess("Listening on %s", StyleLink.Render(url))
	printKeyValue("Convert", "POST "+url+"/convert")
	printKeyValue("Health", "GET "+url+"/healthz")
	c.Logger.Info("serving", "addr", addr, "version", buildinfo.Short())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	c.Logger.Info("server stopped")
	return ctx.Err()
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// HTTP Handlers
// =============================================================================

type server struct {
	runner   *pipeline.Runner
	defaults Config
	logger   *log.Logger
	maxBody  int64
}

// newServer returns the HTTP handler for the conversion endpoint.
func newServer(runner *pipeline.Runner, defaults Config, logger *log.Logger, maxBody int64) http.Handler {
	s := &server{runner: runner, defaults: defaults, logger: logger, maxBody: maxBody}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/convert", s.handleConvert)
	return r
}

// observe attaches a request-scoped logger and reports requests to the
// registered server hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		logger := s.logger.With("request", middleware.GetReqID(ctx))
		ctx = withLogger(ctx, logger)

		observability.Server().OnRequest(ctx, r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Server().OnResponse(ctx, r.Method, r.URL.Path, status, time.Since(start))
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)

	opts, err := s.optionsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Source = "request"
	opts.Logger = logger

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	result, err := s.runner.Execute(ctx, body, opts)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Code:  string(errors.ErrCodeInvalidInput),
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		logger.Warn("conversion failed", "error", err)
		writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.Hit {
		cacheStatus = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Length", strconv.Itoa(len(result.Artifact)))
	h.Set("X-Voxgen-Run", result.RunID)
	h.Set("X-Voxgen-Voxels", strconv.Itoa(result.Stats.Voxels))
	h.Set("X-Voxgen-Models", strconv.Itoa(result.Stats.Models))
	h.Set("X-Voxgen-Cache", cacheStatus)
	if result.Stats.Truncated {
		h.Set("X-Voxgen-Truncated", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

// optionsFromQuery layers query parameters over the server's defaults.
func (s *server) optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		VoxelSize:    s.defaults.VoxelSize,
		MaxModelSize: s.defaults.MaxModelSize,
	}
	if v := q.Get("voxel_size"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "voxel_size %q", v)
		}
		opts.VoxelSize = f
	}
	if v := q.Get("max_model_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "max_model_size %q", v)
		}
		opts.MaxModelSize = n
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "refresh %q", v)
		}
		opts.Refresh = b
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorBody{
		Code:  string(code),
		Error: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
