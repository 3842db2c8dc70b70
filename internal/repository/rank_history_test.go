package repository

import (
	"context"
	"testing"
	"time"

	"overwatch-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRankHistoryAppendGeneratesID(t *testing.T) {
	repo := NewRankHistoryRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	now := time.Now().UTC()
	record := domain.RankHistory{
		Handle:          "Fareeha-2187",
		Platform:        "pc",
		Region:          "eu",
		CompetitiveRank: 2930,
		Level:           647,
		Date:            now,
		CreatedAt:       now,
	}
	require.NoError(t, repo.Append(ctx, record))

	records, err := repo.GetByHandle(ctx, "Fareeha-2187", "", "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotEmpty(t, records[0].ID)
	require.Equal(t, 2930, records[0].CompetitiveRank)
	require.Equal(t, 647, records[0].Level)
}

func TestRankHistoryNewestFirst(t *testing.T) {
	repo := NewRankHistoryRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	now := time.Now().UTC()
	for i, rank := range []int{2800, 2900, 2930} {
		record := domain.RankHistory{
			Handle:          "Fareeha-2187",
			Platform:        "pc",
			Region:          "eu",
			CompetitiveRank: rank,
			Date:            now.Add(time.Duration(i) * time.Hour),
			CreatedAt:       now,
		}
		require.NoError(t, repo.Append(ctx, record))
	}

	records, err := repo.GetByHandle(ctx, "Fareeha-2187", "", "", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 2930, records[0].CompetitiveRank)
	require.Equal(t, 2900, records[1].CompetitiveRank)
}

func TestRankHistoryLocationFilters(t *testing.T) {
	repo := NewRankHistoryRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	now := time.Now().UTC()
	observations := []domain.RankHistory{
		{Handle: "Fareeha", Platform: "xbl", Region: "", CompetitiveRank: 2500},
		{Handle: "Fareeha", Platform: "psn", Region: "", CompetitiveRank: 3000},
		{Handle: "Fareeha", Platform: "pc", Region: "us", CompetitiveRank: 2700},
		{Handle: "Fareeha", Platform: "pc", Region: "eu", CompetitiveRank: 2800},
	}
	for _, record := range observations {
		record.Date = now
		record.CreatedAt = now
		require.NoError(t, repo.Append(ctx, record))
	}

	records, err := repo.GetByHandle(ctx, "Fareeha", "xbl", "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 2500, records[0].CompetitiveRank)

	records, err = repo.GetByHandle(ctx, "Fareeha", "pc", "eu", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 2800, records[0].CompetitiveRank)

	records, err = repo.GetByHandle(ctx, "Fareeha", "pc", "", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	records, err = repo.GetByHandle(ctx, "Fareeha", "", "", 10)
	require.NoError(t, err)
	require.Len(t, records, 4)
}

func TestRankHistoryScopedToHandle(t *testing.T) {
	repo := NewRankHistoryRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	now := time.Now().UTC()
	for _, handle := range []string{"Fareeha-2187", "Mei"} {
		record := domain.RankHistory{
			Handle:          handle,
			Platform:        "pc",
			Region:          "us",
			CompetitiveRank: 2500,
			Date:            now,
			CreatedAt:       now,
		}
		require.NoError(t, repo.Append(ctx, record))
	}

	records, err := repo.GetByHandle(ctx, "Mei", "", "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Mei", records[0].Handle)
}
