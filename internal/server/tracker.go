package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"overwatch-tracker/internal/domain"
	"overwatch-tracker/internal/overwatch"
	"overwatch-tracker/internal/service"

	"github.com/rs/zerolog"
)

type TrackerServer struct {
	profileSvc *service.ProfileService
	logger     zerolog.Logger
}

func NewTrackerServer(profileSvc *service.ProfileService, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{profileSvc: profileSvc, logger: logger}
}

// Register mounts the API routes on mux.
func (s *TrackerServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/profiles/{handle}", s.handleGetProfile)
	mux.HandleFunc("GET /v1/profiles/{handle}/history", s.handleGetHistory)
	mux.HandleFunc("GET /v1/search", s.handleSearch)
	mux.HandleFunc("POST /v1/refresh", s.handleRefreshAll)
}

type profileResponse struct {
	Handle           string                    `json:"handle"`
	Platform         string                    `json:"platform"`
	Region           string                    `json:"region,omitempty"`
	Level            int                       `json:"level"`
	Portrait         string                    `json:"portrait"`
	CompetitiveRank  int                       `json:"competitive_rank"`
	RankImage        string                    `json:"rank_image,omitempty"`
	CasualStats      map[string]map[string]any `json:"casual_stats"`
	CompetitiveStats map[string]map[string]any `json:"competitive_stats,omitempty"`
	Achievements     []string                  `json:"achievements"`
	ProfileURL       string                    `json:"profile_url"`
	LastFetchAt      time.Time                 `json:"last_fetch_at"`
}

type historyEntry struct {
	CompetitiveRank int       `json:"competitive_rank"`
	Level           int       `json:"level"`
	Platform        string    `json:"platform"`
	Region          string    `json:"region,omitempty"`
	Date            time.Time `json:"date"`
}

func (s *TrackerServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")

	platform, ok := overwatch.ParsePlatform(r.URL.Query().Get("platform"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown platform")
		return
	}
	region, ok := overwatch.ParseRegion(r.URL.Query().Get("region"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown region")
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	profile, err := s.profileSvc.GetProfile(r.Context(), handle, platform, region, refresh)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (s *TrackerServer) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")

	platform, ok := overwatch.ParsePlatform(r.URL.Query().Get("platform"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown platform")
		return
	}
	region, ok := overwatch.ParseRegion(r.URL.Query().Get("region"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown region")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := s.profileSvc.History(r.Context(), handle, platform, region, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	entries := make([]historyEntry, len(records))
	for i, record := range records {
		entries[i] = historyEntry{
			CompetitiveRank: record.CompetitiveRank,
			Level:           record.Level,
			Platform:        record.Platform,
			Region:          record.Region,
			Date:            record.Date,
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"handle": handle, "history": entries})
}

func (s *TrackerServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	profiles, err := s.profileSvc.SearchSuggestions(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	suggestions := make([]profileResponse, len(profiles))
	for i := range profiles {
		suggestions[i] = toProfileResponse(&profiles[i])
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *TrackerServer) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	refreshed, err := s.profileSvc.RefreshAll(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"refreshed": refreshed})
}

func toProfileResponse(p *domain.PlayerProfile) profileResponse {
	achievements := p.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	return profileResponse{
		Handle:           p.Handle,
		Platform:         p.Platform,
		Region:           p.Region,
		Level:            p.Level,
		Portrait:         p.Portrait,
		CompetitiveRank:  p.CompetitiveRank,
		RankImage:        p.RankImage,
		CasualStats:      p.CasualStats,
		CompetitiveStats: p.CompetitiveStats,
		Achievements:     achievements,
		ProfileURL:       p.ProfileURL,
		LastFetchAt:      p.LastFetchAt,
	}
}

// writeServiceError maps the scraping error kinds onto HTTP statuses. Bad
// input is the caller's fault, a missing profile is 404, and anything that
// means the career site misbehaved surfaces as a bad gateway.
func (s *TrackerServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var te *overwatch.TransportError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, overwatch.ErrProfileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, overwatch.ErrMalformedIdentity),
		errors.Is(err, overwatch.ErrLocationRequired):
		status = http.StatusBadRequest
	case errors.Is(err, overwatch.ErrUnknownPrestigeTier),
		errors.Is(err, overwatch.ErrMalformedPage),
		errors.As(err, &te):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.writeError(w, status, err.Error())
}

func (s *TrackerServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *TrackerServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
