// CLAUDE:SUMMARY HTTP API over the page engine: analyze, transform, convert, run history.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/hazyhaar/pagebridge/convert"
	"github.com/hazyhaar/pagebridge/runlog"
	"github.com/hazyhaar/pagebridge/transform"
	"github.com/hazyhaar/pagebridge/tree"
	"github.com/hazyhaar/pagebridge/zone"
)

// maxBodyBytes caps request bodies; page exports run large but bounded.
const maxBodyBytes = 32 << 20

// Server exposes the engine over HTTP.
type Server struct {
	logger   *slog.Logger
	engine   *transform.Engine
	registry *convert.Registry
	runs     *runlog.Store
	authUser string
	authHash string
}

// Option customises the server.
type Option func(*Server)

// WithRunLog records every transform and convert call in the store.
func WithRunLog(store *runlog.Store) Option {
	return func(s *Server) { s.runs = store }
}

// WithBasicAuth guards /api routes with HTTP Basic Auth. The hash is a
// bcrypt hash of the password.
func WithBasicAuth(user, bcryptHash string) Option {
	return func(s *Server) {
		s.authUser = user
		s.authHash = bcryptHash
	}
}

// New creates a Server. A nil registry gets the default conversion set.
func New(logger *slog.Logger, registry *convert.Registry, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = convert.Default()
	}
	s := &Server{
		logger:   logger,
		engine:   transform.New(logger),
		registry: registry,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if s.authHash != "" {
			r.Use(s.requireAuth)
		}
		r.Post("/api/analyze", s.handleAnalyze)
		r.Post("/api/transform", s.handleTransform)
		r.Post("/api/convert", s.handleConvert)
		r.Get("/api/pairs", s.handlePairs)
		r.Get("/api/runs", s.handleRuns)
	})

	return r
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.authUser)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(s.authHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="pagebridge"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, transform.Analyze(doc))
}

type transformRequest struct {
	Content   json.RawMessage   `json:"content"`
	Transform string            `json:"transform"`
	Args      map[string]string `json:"args"`
	Zones     []string          `json:"zones"`
}

type transformResponse struct {
	OK            bool              `json:"ok"`
	Preservation  float64           `json:"preservation"`
	ModifiedPaths []string          `json:"modified_paths"`
	Errors        []transform.Error `json:"errors,omitempty"`
	Content       []*tree.Node      `json:"content"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	doc, err := tree.Parse(req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fn, err := transform.Named(req.Transform, req.Args)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	filter, err := parseZones(req.Zones)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	res := s.engine.Transform(doc.Elements, filter, fn)
	s.record(r, &runlog.Run{
		Source: "elementor", Target: "elementor",
		Elements:      countNodes(res.Nodes),
		ModifiedZones: len(res.ModifiedPaths),
		ErrorCount:    len(res.Errors),
		DurationMs:    time.Since(start).Milliseconds(),
		Status:        runStatus(len(res.Errors)),
	})

	writeJSON(w, http.StatusOK, transformResponse{
		OK:            res.OK,
		Preservation:  res.Preservation,
		ModifiedPaths: res.ModifiedPaths,
		Errors:        res.Errors,
		Content:       res.Nodes,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	source := queryDefault(r, "source", "elementor")
	target := r.URL.Query().Get("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing target parameter"))
		return
	}
	conv, err := s.registry.Get(source, target)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	doc, err := readDocument(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	out, err := conv.Convert(doc.Elements)
	if err != nil {
		s.record(r, &runlog.Run{
			Source: source, Target: target,
			Elements: doc.Count(), ErrorCount: 1,
			DurationMs: time.Since(start).Milliseconds(),
			Status:     "failed",
		})
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	stats := transform.Analyze(doc)
	s.record(r, &runlog.Run{
		Source: source, Target: target,
		Elements:     stats.TotalElements,
		Zones:        stats.TotalZones,
		ContentItems: stats.ContentItems,
		DurationMs:   time.Since(start).Milliseconds(),
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"output": out,
		"ext":    conv.Ext(),
	})
}

func (s *Server) handlePairs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Pairs())
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusOK, []*runlog.Run{})
		return
	}
	limit := queryInt(r, "limit", 20)
	runs, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []*runlog.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// record inserts a run when history is enabled. Failures are logged,
// never surfaced to the caller.
func (s *Server) record(r *http.Request, run *runlog.Run) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Insert(r.Context(), run); err != nil {
		s.logger.Warn("server: record run", "error", err)
	}
}

func readDocument(r *http.Request) (*tree.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return tree.Parse(body)
}

func parseZones(names []string) ([]zone.Type, error) {
	if len(names) == 0 {
		return nil, nil
	}
	valid := make(map[zone.Type]bool)
	for _, t := range zone.Types() {
		valid[t] = true
	}
	out := make([]zone.Type, 0, len(names))
	for _, n := range names {
		t := zone.Type(n)
		if !valid[t] {
			return nil, fmt.Errorf("unknown zone type %q", n)
		}
		out = append(out, t)
	}
	return out, nil
}

func countNodes(nodes []*tree.Node) int {
	total := 0
	for _, n := range nodes {
		total += n.Count()
	}
	return total
}

func runStatus(errCount int) string {
	if errCount > 0 {
		return "partial"
	}
	return "ok"
}

func queryDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
