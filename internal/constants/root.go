package constants

import "time"

const (
	AppName            = "habitflow"
	DefaultKeyringUser = "store-connection"
	DefaultConfigPath  = "~/.config/habitflow/habitflow.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat labels monthly report buckets (YYYY-MM)
	MonthFormat = "2006-01"

	// Scoring
	PointsPerCompletion = 10
	PointsPerLevel      = 100

	// DefaultCategory is used when a habit is added without a category
	DefaultCategory = "General"

	// Storage keys
	KeyHabits               = "habits"
	KeyUnlockedAchievements = "unlockedAchievements"
	KeyHistoryLog           = "historyLog"

	// Report windows
	DefaultReportDays   = 30
	DefaultReportWeeks  = 12
	DefaultReportMonths = 12
	MaxReportDays       = 366
	MaxReportWeeks      = 520
	MaxReportMonths     = 120

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitflow-"

	// Remote store timeouts
	RemoteDialTimeout = 5 * time.Second
	RemoteOpTimeout   = 3 * time.Second

	// DefaultRedisPrefix namespaces every key written to Redis
	DefaultRedisPrefix = "habitflow"
)

// Categories is the list offered when adding a habit. Any non-empty
// category is accepted.
var Categories = []string{"Health", "Work", "Wellness", "Learning", "Other"}
