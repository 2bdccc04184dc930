package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/courtside/padel-system/services"
)

type stubBracketService struct {
	err           error
	summary       *services.GenerationSummary
	gotQualifiers []int
	gotEntries    []int
	cleared       bool
}

func (s *stubBracketService) GenerateBracket(_ context.Context, _ int) (*services.GenerationSummary, error) {
	return s.summary, s.err
}

func (s *stubBracketService) GenerateGroups(_ context.Context, _, groupCount int) (*services.GroupGenerationSummary, error) {
	return &services.GroupGenerationSummary{Groups: groupCount}, s.err
}

func (s *stubBracketService) GeneratePlayoff(_ context.Context, _ int, qualifierTeamIDs []int) (*services.GenerationSummary, error) {
	s.gotQualifiers = qualifierTeamIDs
	return s.summary, s.err
}

func (s *stubBracketService) GenerateMirrorBracket(_ context.Context, _ int, entryTeamIDs []int) (*services.GenerationSummary, error) {
	s.gotEntries = entryTeamIDs
	return s.summary, s.err
}

func (s *stubBracketService) ClearBracket(_ context.Context, _ int) error {
	s.cleared = s.err == nil
	return s.err
}

func bracketRouter(svc services.BracketService) *chi.Mux {
	h := NewBracketHandler(svc)
	router := chi.NewRouter()
	router.Route("/modalities/{modalityID}", func(r chi.Router) {
		r.Post("/bracket", h.GenerateBracketHandler)
		r.Delete("/bracket", h.ClearBracketHandler)
		r.Post("/playoff", h.GeneratePlayoffHandler)
		r.Post("/consolation", h.GenerateConsolationHandler)
	})
	return router
}

func TestGenerateBracketHandler(t *testing.T) {
	t.Run("created with summary", func(t *testing.T) {
		svc := &stubBracketService{summary: &services.GenerationSummary{Rounds: 3, Matches: 7, Teams: 5, Byes: 3}}

		req := httptest.NewRequest(http.MethodPost, "/modalities/7/bracket", nil)
		rec := httptest.NewRecorder()
		bracketRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"byes":3`)
	})

	t.Run("duplicate generation is a conflict", func(t *testing.T) {
		svc := &stubBracketService{err: services.ErrAlreadyGenerated}

		req := httptest.NewRequest(http.MethodPost, "/modalities/7/bracket", nil)
		rec := httptest.NewRecorder()
		bracketRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("too few teams is a bad request", func(t *testing.T) {
		svc := &stubBracketService{err: services.ErrInsufficientTeams}

		req := httptest.NewRequest(http.MethodPost, "/modalities/7/bracket", nil)
		rec := httptest.NewRecorder()
		bracketRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGeneratePlayoffHandler(t *testing.T) {
	svc := &stubBracketService{summary: &services.GenerationSummary{Rounds: 2, Matches: 3, Teams: 4}}

	req := httptest.NewRequest(http.MethodPost, "/modalities/7/playoff",
		strings.NewReader(`{"qualifier_team_ids":[4,2,6,1]}`))
	rec := httptest.NewRecorder()
	bracketRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int{4, 2, 6, 1}, svc.gotQualifiers)
}

func TestGenerateConsolationHandlerOptionalBody(t *testing.T) {
	t.Run("explicit entries", func(t *testing.T) {
		svc := &stubBracketService{summary: &services.GenerationSummary{Rounds: 1, Matches: 1, Teams: 2}}

		req := httptest.NewRequest(http.MethodPost, "/modalities/7/consolation",
			strings.NewReader(`{"entry_team_ids":[3,4]}`))
		rec := httptest.NewRecorder()
		bracketRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []int{3, 4}, svc.gotEntries)
	})

	t.Run("no body defaults to first-round losers", func(t *testing.T) {
		svc := &stubBracketService{summary: &services.GenerationSummary{Rounds: 1, Matches: 1, Teams: 2}}

		req := httptest.NewRequest(http.MethodPost, "/modalities/7/consolation", nil)
		rec := httptest.NewRecorder()
		bracketRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Nil(t, svc.gotEntries)
	})

	t.Run("missing main draw is not found", func(t *testing.T) {
		svc := &stubBracketService{err: services.ErrNoSourceBracket}

		req := httptest.NewRequest(http.MethodPost, "/modalities/7/consolation", nil)
		rec := httptest.NewRecorder()
		bracketRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestClearBracketHandler(t *testing.T) {
	svc := &stubBracketService{}

	req := httptest.NewRequest(http.MethodDelete, "/modalities/7/bracket", nil)
	rec := httptest.NewRecorder()
	bracketRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.cleared)
}
