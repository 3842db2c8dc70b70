package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"overwatch-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RankHistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRankHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *RankHistoryRepository {
	return &RankHistoryRepository{db: sqlDB, logger: logger}
}

// Append records one rank observation. The log is append-only; an empty ID
// gets a fresh nanoid.
func (r *RankHistoryRepository) Append(ctx context.Context, record domain.RankHistory) error {
	id := record.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rank_history (id, handle, platform, region, competitive_rank, level, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, record.Handle, record.Platform, record.Region,
		record.CompetitiveRank, record.Level, record.Date, record.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("handle", record.Handle).Msg("failed to append rank history")
		return fmt.Errorf("failed to append rank history: %w", err)
	}
	return nil
}

// GetByHandle returns the observations for a handle, newest first. Platform
// and region narrow the ledger to one stored location when set; a handle
// tracked on several platforms keeps a ledger per location.
func (r *RankHistoryRepository) GetByHandle(ctx context.Context, handle, platform, region string, limit int) ([]domain.RankHistory, error) {
	whereParts := []string{"handle = ?"}
	args := []any{handle}
	if platform != "" {
		whereParts = append(whereParts, "platform = ?")
		args = append(args, platform)
	}
	if region != "" {
		whereParts = append(whereParts, "region = ?")
		args = append(args, region)
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, handle, platform, region, competitive_rank, level, date, created_at
		FROM rank_history
		WHERE `+strings.Join(whereParts, " AND ")+`
		ORDER BY date DESC
		LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank history: %w", err)
	}
	defer rows.Close()

	var result []domain.RankHistory
	for rows.Next() {
		var record domain.RankHistory
		err := rows.Scan(
			&record.ID, &record.Handle, &record.Platform, &record.Region,
			&record.CompetitiveRank, &record.Level, &record.Date, &record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
