package domain

import (
	"time"
)

type PlayerProfile struct {
	Handle           string
	Platform         string // "pc", "xbl", "psn"
	Region           string // "us", "eu", "kr"; empty for console profiles
	Level            int
	Portrait         string
	CompetitiveRank  int
	RankImage        string
	CasualStats      map[string]map[string]any
	CompetitiveStats map[string]map[string]any // nil when unplaced
	Achievements     []string
	ProfileURL       string
	LastFetchAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type RankHistory struct {
	ID              string // nanoid
	Handle          string
	Platform        string
	Region          string
	CompetitiveRank int
	Level           int
	Date            time.Time
	CreatedAt       time.Time
}
