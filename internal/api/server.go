// Package api exposes the matching core over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/agent"
	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/readiness"
	"github.com/spigell/talent-matcher/internal/search"
	"github.com/spigell/talent-matcher/internal/skills"
	"github.com/spigell/talent-matcher/internal/store"
)

// Deps are the components served by the API. Source is optional and enables the lookup routes.
type Deps struct {
	Engine         *matching.Engine
	Analyzer       *readiness.Analyzer
	Searcher       *search.Searcher
	Synonyms       skills.SynonymGroups
	Agent          *agent.HiringAgent
	Source         store.Source
	ReadyThreshold int
	Logger         *zap.Logger
}

type Server struct {
	deps   Deps
	logger *zap.Logger
}

func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.ReadyThreshold <= 0 {
		deps.ReadyThreshold = readiness.DefaultJobReadyThreshold
	}
	return &Server{deps: deps, logger: logger}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/skills/expand", s.expandSkills)
		r.Post("/match/talents", s.matchTalents)
		r.Post("/match/jobs", s.matchJobs)
		r.Post("/skill-gap", s.skillGap)
		r.Post("/search", s.search)
		r.Get("/pipeline/stages", s.stages)
		r.Post("/pipeline/transitions", s.transitions)
		r.Post("/agent/analyze", s.analyze)

		if s.deps.Source != nil {
			r.Get("/talents/{id}/skill-gap", s.talentSkillGap)
			r.Get("/jobs/{id}/matches", s.jobMatches)
		}
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

const maxBodyBytes = 10 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
