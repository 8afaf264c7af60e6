package config

const (
	AppName    = "pocket-study"
	AppVersion = "1.0.0"
)

// Default settings. SessionLimit and AdaptiveTarget are scheduling
// contract values, not tuning knobs: due retrieval is capped at 20 and the
// adaptive queue fills toward 12.
const (
	DefaultServerPort     = ":8080"
	DefaultDatabaseURL    = "pocket_study.db"
	DefaultLogLevel       = "info"
	DefaultSessionLimit   = 20
	DefaultAdaptiveTarget = 12
	DefaultDailyGoal      = 20
)
