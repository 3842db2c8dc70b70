package constants

import "time"

const (
	ProfileRefreshTTL = 10 * time.Minute
)

const (
	ScrapeTimeout   = 15 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 60 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SearchSuggestionLimit = 10
	RankHistoryLimit      = 50
	RefreshAllConcurrency = 4
)
