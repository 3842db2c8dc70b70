package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"overwatch-tracker/internal/config"
	"overwatch-tracker/internal/constants"
	"overwatch-tracker/internal/domain"
	"overwatch-tracker/internal/overwatch"
	"overwatch-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ProfileService struct {
	client   *overwatch.Client
	profiles *repository.ProfileRepository
	history  *repository.RankHistoryRepository
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewProfileService(
	client *overwatch.Client,
	profiles *repository.ProfileRepository,
	history *repository.RankHistoryRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		client:   client,
		profiles: profiles,
		history:  history,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetProfile returns the profile for a handle, scraping the career site when
// the stored copy is missing, stale or a refresh is forced. Platform and
// region pin the resolution axes when the caller knows them; Unknown lets
// resolution probe.
func (s *ProfileService) GetProfile(ctx context.Context, handle string, platform overwatch.Platform, region overwatch.Region, refresh bool) (*domain.PlayerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().
		Str("handle", handle).
		Str("platform", string(platform)).
		Str("region", string(region)).
		Bool("refresh", refresh).
		Msg("getting profile")

	stored := s.lookupStored(ctx, handle, platform, region)

	if stored != nil && !refresh && time.Since(stored.LastFetchAt) < s.cfg.RefreshTTL {
		s.logger.Debug().
			Str("handle", handle).
			Time("last_fetch_at", stored.LastFetchAt).
			Msg("returning stored profile")
		return stored, nil
	}

	return s.scrape(ctx, handle, platform, region, stored)
}

// History returns the recorded rank observations for a handle, newest first.
// Platform and region narrow the ledger to one stored location when known.
func (s *ProfileService) History(ctx context.Context, handle string, platform overwatch.Platform, region overwatch.Region, limit int) ([]domain.RankHistory, error) {
	if limit <= 0 || limit > constants.RankHistoryLimit {
		limit = constants.RankHistoryLimit
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.history.GetByHandle(ctx, handle, string(platform), string(region), limit)
}

// SearchSuggestions returns stored profiles whose handle contains the query.
func (s *ProfileService) SearchSuggestions(ctx context.Context, query string) ([]domain.PlayerProfile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.profiles.Search(ctx, query, constants.SearchSuggestionLimit)
}

// RefreshAll re-scrapes every stored profile, oldest fetch first, resolving
// each at its last known location. Individual failures are logged and
// skipped so one vanished profile does not abort the sweep.
func (s *ProfileService) RefreshAll(ctx context.Context) (int, error) {
	locations, err := s.profiles.ListLocations(ctx)
	if err != nil {
		return 0, err
	}

	var refreshed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.RefreshAllConcurrency)

	for _, loc := range locations {
		g.Go(func() error {
			platform, _ := overwatch.ParsePlatform(loc.Platform)
			region, _ := overwatch.ParseRegion(loc.Region)
			if _, err := s.GetProfile(gCtx, loc.Handle, platform, region, true); err != nil {
				s.logger.Warn().Err(err).Str("handle", loc.Handle).Msg("refresh sweep: profile skipped")
				return nil
			}
			refreshed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(refreshed.Load()), err
	}

	s.logger.Info().
		Int("total", len(locations)).
		Int64("refreshed", refreshed.Load()).
		Msg("refresh sweep completed")
	return int(refreshed.Load()), nil
}

func (s *ProfileService) lookupStored(ctx context.Context, handle string, platform overwatch.Platform, region overwatch.Region) *domain.PlayerProfile {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var stored *domain.PlayerProfile
	var err error
	switch {
	case platform == overwatch.PlatformUnknown:
		stored, err = s.profiles.GetByHandle(dbCtx, handle)
	case platform == overwatch.PlatformPC && region == overwatch.RegionUnknown:
		// PC rows always carry a concrete region; an exact read on an empty
		// one can never match.
		stored, err = s.profiles.GetLatestByPlatform(dbCtx, handle, string(platform))
	default:
		stored, err = s.profiles.Get(dbCtx, handle, string(platform), string(region))
	}
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn().Err(err).Str("handle", handle).Msg("failed to read stored profile")
		}
		return nil
	}
	return stored
}

func (s *ProfileService) scrape(ctx context.Context, handle string, platform overwatch.Platform, region overwatch.Region, stored *domain.PlayerProfile) (*domain.PlayerProfile, error) {
	// A warm profile resolves at its last known location without probing.
	if stored != nil {
		if platform == overwatch.PlatformUnknown {
			platform, _ = overwatch.ParsePlatform(stored.Platform)
			region, _ = overwatch.ParseRegion(stored.Region)
		} else if region == overwatch.RegionUnknown && string(platform) == stored.Platform {
			region, _ = overwatch.ParseRegion(stored.Region)
		}
	}

	player := overwatch.NewPlayer(s.client, handle,
		overwatch.WithPlatform(platform),
		overwatch.WithRegion(region),
		overwatch.WithPriorities(s.cfg.Priorities()),
	)

	scrapeCtx, cancel := context.WithTimeout(ctx, constants.ScrapeTimeout)
	defer cancel()

	if err := player.Refresh(scrapeCtx, false); err != nil {
		s.logger.Error().Err(err).Str("handle", handle).Msg("failed to refresh profile")
		return nil, err
	}

	extracted, _ := player.Profile()
	now := time.Now().UTC()

	profile := &domain.PlayerProfile{
		Handle:           player.Identity().Handle(),
		Platform:         string(player.Platform()),
		Region:           string(player.Region()),
		Level:            extracted.Level,
		Portrait:         extracted.Portrait,
		CompetitiveRank:  extracted.Rank,
		RankImage:        extracted.RankImage,
		CasualStats:      extracted.CasualStats,
		CompetitiveStats: extracted.CompetitiveStats,
		Achievements:     extracted.Achievements,
		ProfileURL:       player.ProfileURL(),
		LastFetchAt:      extracted.FetchedAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if stored != nil && stored.Platform == profile.Platform && stored.Region == profile.Region {
		profile.CreatedAt = stored.CreatedAt
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer dbCancel()

	if err := s.profiles.Upsert(dbCtx, profile); err != nil {
		return nil, err
	}
	s.recordRank(dbCtx, stored, profile)

	s.logger.Info().
		Str("handle", profile.Handle).
		Str("platform", profile.Platform).
		Str("region", profile.Region).
		Int("level", profile.Level).
		Msg("profile scraped")
	return profile, nil
}

// recordRank appends to the rank log when the competitive rank moved since
// the last stored observation. Unranked profiles are never recorded.
func (s *ProfileService) recordRank(ctx context.Context, stored, profile *domain.PlayerProfile) {
	if profile.CompetitiveRank == 0 {
		return
	}
	if stored != nil && stored.CompetitiveRank == profile.CompetitiveRank {
		return
	}

	record := domain.RankHistory{
		Handle:          profile.Handle,
		Platform:        profile.Platform,
		Region:          profile.Region,
		CompetitiveRank: profile.CompetitiveRank,
		Level:           profile.Level,
		Date:            profile.LastFetchAt,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.history.Append(ctx, record); err != nil {
		s.logger.Warn().Err(err).Str("handle", profile.Handle).Msg("failed to record rank history")
	}
}
