package taskqueue

import "time"

const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

const (
	TypeSyncLiveGame      = "SYNC_LIVE_GAME"
	TypeSyncDateGames     = "SYNC_DATE_GAMES"
	TypeDailyWrapUp       = "DAILY_WRAP_UP"
	TypeSyncPlayerStats   = "SYNC_PLAYER_STATS"
	TypeSyncAdvancedStats = "SYNC_ADVANCED_STATS"
	TypeDataAudit         = "DATA_AUDIT"
	TypeBackfillData      = "BACKFILL_DATA"
	TypeCheckSchedule     = "CHECK_SCHEDULE"
	TypeFirstGameNotified = "FIRST_GAME_NOTIFIED"
)

// MaxErrorLength bounds the error text persisted on a failed task.
const MaxErrorLength = 1000

// Task is one queued unit of work. Rows are produced externally, claimed by
// exactly one worker via conditional update, and terminated by that worker.
type Task struct {
	ID          int64
	Type        string
	RawPayload  []byte
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	ErrorLog    *string
}

// KnownType reports whether the tag belongs to the closed handler set.
func KnownType(taskType string) bool {
	switch taskType {
	case TypeSyncLiveGame, TypeSyncDateGames, TypeDailyWrapUp,
		TypeSyncPlayerStats, TypeSyncAdvancedStats, TypeDataAudit,
		TypeBackfillData, TypeCheckSchedule, TypeFirstGameNotified:
		return true
	default:
		return false
	}
}

// TruncateError clips handler error text before it is persisted.
func TruncateError(text string) string {
	if len(text) <= MaxErrorLength {
		return text
	}
	return text[:MaxErrorLength]
}
