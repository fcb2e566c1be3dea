package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/pipeline"
	"github.com/spigell/talent-matcher/internal/readiness"
	"github.com/spigell/talent-matcher/internal/search"
	"github.com/spigell/talent-matcher/internal/skills"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type expandResponse struct {
	Term     string   `json:"term"`
	Expanded []string `json:"expanded"`
}

func (s *Server) expandSkills(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "term is required")
		return
	}
	expanded := skills.Expand(term, s.deps.Synonyms)
	if expanded == nil {
		expanded = []string{}
	}
	writeJSON(w, http.StatusOK, expandResponse{Term: term, Expanded: expanded})
}

type matchTalentsRequest struct {
	Job     *model.Job             `json:"job"`
	Talents []*model.TalentProfile `json:"talents"`
	TopN    int                    `json:"top_n"`
}

type matchJobsRequest struct {
	Talent *model.TalentProfile `json:"talent"`
	Jobs   []*model.Job         `json:"jobs"`
	TopN   int                  `json:"top_n"`
}

type matchResponse struct {
	Results []matching.Result `json:"results"`
}

func (s *Server) matchTalents(w http.ResponseWriter, r *http.Request) {
	var req matchTalentsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Job == nil {
		writeError(w, http.StatusBadRequest, "job is required")
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{Results: s.deps.Engine.MatchTalentsToJob(req.Talents, req.Job, req.TopN)})
}

func (s *Server) matchJobs(w http.ResponseWriter, r *http.Request) {
	var req matchJobsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Talent == nil {
		writeError(w, http.StatusBadRequest, "talent is required")
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{Results: s.deps.Engine.MatchJobsToTalent(req.Talent, req.Jobs, req.TopN)})
}

type skillGapRequest struct {
	Talent *model.TalentProfile `json:"talent"`
}

type skillGapResponse struct {
	*readiness.Report
	JobReady        bool                  `json:"job_ready"`
	SuggestedStatus model.PlacementStatus `json:"suggested_status"`
}

func (s *Server) skillGap(w http.ResponseWriter, r *http.Request) {
	var req skillGapRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Talent == nil {
		writeError(w, http.StatusBadRequest, "talent is required")
		return
	}

	writeJSON(w, http.StatusOK, s.gapResponse(req.Talent))
}

func (s *Server) gapResponse(talent *model.TalentProfile) skillGapResponse {
	report := s.deps.Analyzer.AnalyzeSkillGap(talent)
	return skillGapResponse{
		Report:          report,
		JobReady:        report.JobReady(s.deps.ReadyThreshold),
		SuggestedStatus: readiness.SuggestStatus(talent, report, s.deps.ReadyThreshold),
	}
}

type searchRequest struct {
	Talents  []*model.TalentProfile `json:"talents"`
	Criteria search.Criteria        `json:"criteria"`
	MinScore int                    `json:"min_score"`
}

type searchResponse struct {
	Hits []search.Hit `json:"hits"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Criteria.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Hits: s.deps.Searcher.Search(req.Talents, req.Criteria, req.MinScore)})
}

type stageInfo struct {
	Stage    pipeline.Stage   `json:"stage"`
	Terminal bool             `json:"terminal"`
	Next     []pipeline.Stage `json:"next"`
}

func (s *Server) stages(w http.ResponseWriter, _ *http.Request) {
	out := make([]stageInfo, 0, len(pipeline.Stages))
	for _, stage := range pipeline.Stages {
		out = append(out, stageInfo{Stage: stage, Terminal: pipeline.IsTerminal(stage), Next: pipeline.Next(stage)})
	}
	writeJSON(w, http.StatusOK, out)
}

type transitionRequest struct {
	From pipeline.Stage `json:"from"`
	To   pipeline.Stage `json:"to"`
}

type transitionResponse struct {
	Valid    bool             `json:"valid"`
	Terminal bool             `json:"terminal"`
	Next     []pipeline.Stage `json:"next"`
}

func (s *Server) transitions(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{
		Valid:    pipeline.IsValidTransition(req.From, req.To),
		Terminal: pipeline.IsTerminal(req.From),
		Next:     pipeline.Next(req.From),
	})
}

type analyzeRequest struct {
	Talent *model.TalentProfile `json:"talent"`
	Job    *model.Job           `json:"job"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Talent == nil || req.Job == nil {
		writeError(w, http.StatusBadRequest, "talent and job are required")
		return
	}

	insight, err := s.deps.Agent.Analyze(r.Context(), req.Talent, req.Job)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, insight)
}

func (s *Server) talentSkillGap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	talents, err := s.deps.Source.Talents(r.Context())
	if err != nil {
		s.logger.Error("loading talents failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "loading talents failed")
		return
	}

	talent := model.NewTalents(talents...).FindByID(id)
	if talent == nil {
		writeError(w, http.StatusNotFound, "talent not found")
		return
	}

	writeJSON(w, http.StatusOK, s.gapResponse(talent))
}

func (s *Server) jobMatches(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	topN := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "top must be an integer")
			return
		}
		topN = n
	}

	talents, jobs, err := s.load(r)
	if err != nil {
		s.logger.Error("loading records failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "loading records failed")
		return
	}

	job := model.NewJobs(jobs...).FindByID(id)
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{Results: s.deps.Engine.MatchTalentsToJob(talents, job, topN)})
}

func (s *Server) load(r *http.Request) ([]*model.TalentProfile, []*model.Job, error) {
	talents, err := s.deps.Source.Talents(r.Context())
	if err != nil {
		return nil, nil, err
	}
	jobs, err := s.deps.Source.Jobs(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return talents, jobs, nil
}
