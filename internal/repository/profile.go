package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"overwatch-tracker/internal/domain"

	"github.com/rs/zerolog"
)

const profileColumns = `handle, platform, region, level, portrait, competitive_rank, rank_image,
	casual_stats, competitive_stats, achievements, profile_url,
	last_fetch_at, created_at, updated_at`

type ProfileRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewProfileRepository(sqlDB *sql.DB, logger zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{db: sqlDB, logger: logger}
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.PlayerProfile) error {
	casual, err := marshalStats(profile.CasualStats)
	if err != nil {
		return fmt.Errorf("failed to encode casual stats: %w", err)
	}
	competitive, err := marshalNullableStats(profile.CompetitiveStats)
	if err != nil {
		return fmt.Errorf("failed to encode competitive stats: %w", err)
	}
	achievements := []byte("[]")
	if profile.Achievements != nil {
		achievements, err = json.Marshal(profile.Achievements)
		if err != nil {
			return fmt.Errorf("failed to encode achievements: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(handle, platform, region) DO UPDATE SET
			level = excluded.level,
			portrait = excluded.portrait,
			competitive_rank = excluded.competitive_rank,
			rank_image = excluded.rank_image,
			casual_stats = excluded.casual_stats,
			competitive_stats = excluded.competitive_stats,
			achievements = excluded.achievements,
			profile_url = excluded.profile_url,
			last_fetch_at = excluded.last_fetch_at,
			updated_at = excluded.updated_at`,
		profile.Handle, profile.Platform, profile.Region, profile.Level,
		profile.Portrait, profile.CompetitiveRank, profile.RankImage,
		casual, competitive, string(achievements), profile.ProfileURL,
		profile.LastFetchAt, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("handle", profile.Handle).Msg("failed to upsert profile")
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// Get returns the profile stored for an exact location.
func (r *ProfileRepository) Get(ctx context.Context, handle, platform, region string) (*domain.PlayerProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE handle = ? AND platform = ? AND region = ?`,
		handle, platform, region,
	)
	return scanProfile(row)
}

// GetByHandle returns the most recently fetched profile for a handle,
// whatever location it was found at.
func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*domain.PlayerProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE handle = ?
		ORDER BY last_fetch_at DESC
		LIMIT 1`,
		handle,
	)
	return scanProfile(row)
}

// GetLatestByPlatform returns the most recently fetched profile for a handle
// on one platform, whatever region. PC rows always carry a concrete region,
// so this is the read for a PC hint without one.
func (r *ProfileRepository) GetLatestByPlatform(ctx context.Context, handle, platform string) (*domain.PlayerProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE handle = ? AND platform = ?
		ORDER BY last_fetch_at DESC
		LIMIT 1`,
		handle, platform,
	)
	return scanProfile(row)
}

func (r *ProfileRepository) Search(ctx context.Context, query string, limit int) ([]domain.PlayerProfile, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE handle LIKE ?
		ORDER BY last_fetch_at DESC
		LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()

	var result []domain.PlayerProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *profile)
	}
	return result, rows.Err()
}

// ListLocations returns every stored (handle, platform, region) triple,
// oldest fetch first, for bulk refresh.
func (r *ProfileRepository) ListLocations(ctx context.Context) ([]domain.PlayerProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT handle, platform, region
		FROM profiles
		ORDER BY last_fetch_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile locations: %w", err)
	}
	defer rows.Close()

	var result []domain.PlayerProfile
	for rows.Next() {
		var p domain.PlayerProfile
		if err := rows.Scan(&p.Handle, &p.Platform, &p.Region); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.PlayerProfile, error) {
	var p domain.PlayerProfile
	var casual, achievements string
	var competitive sql.NullString

	err := row.Scan(
		&p.Handle, &p.Platform, &p.Region, &p.Level, &p.Portrait,
		&p.CompetitiveRank, &p.RankImage, &casual, &competitive,
		&achievements, &p.ProfileURL, &p.LastFetchAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(casual), &p.CasualStats); err != nil {
		return nil, fmt.Errorf("failed to decode casual stats: %w", err)
	}
	if competitive.Valid {
		if err := json.Unmarshal([]byte(competitive.String), &p.CompetitiveStats); err != nil {
			return nil, fmt.Errorf("failed to decode competitive stats: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(achievements), &p.Achievements); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %w", err)
	}
	return &p, nil
}

func marshalStats(stats map[string]map[string]any) (string, error) {
	if stats == nil {
		return "{}", nil
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// marshalNullableStats keeps the unplaced-competitive case distinguishable
// from an empty table: nil maps to NULL, not to "{}".
func marshalNullableStats(stats map[string]map[string]any) (sql.NullString, error) {
	if stats == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
