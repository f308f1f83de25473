package taskqueue

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var (
	payloadJSON     = jsoniter.ConfigCompatibleWithStandardLibrary
	payloadValidate = validator.New()
)

// Payload is the decoded, type-specific parameter set of a task. Wire JSON
// is decoded into the matching variant once, at the queue boundary; handlers
// never see raw maps.
type Payload interface {
	taskType() string
}

type SyncLiveGamePayload struct {
	GameID  string   `json:"game_id" validate:"required_without=GameIDs"`
	GameIDs []string `json:"game_ids" validate:"omitempty,min=1,dive,required"`
}

type SyncDateGamesPayload struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	WithStats *bool  `json:"with_stats"`
}

type DailyWrapUpPayload struct {
	SyncStandings   *bool `json:"sync_standings"`
	SyncPlayerStats *bool `json:"sync_player_stats"`
	SyncAdvanced    *bool `json:"sync_advanced"`
}

type SyncPlayerStatsPayload struct{}

type SyncAdvancedStatsPayload struct {
	Players *bool `json:"players"`
	Teams   *bool `json:"teams"`
}

type DataAuditPayload struct {
	AutoFix bool `json:"auto_fix"`
}

type BackfillDataPayload struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	WithStats *bool  `json:"with_stats"`
}

type CheckSchedulePayload struct{}

type FirstGameNotifiedPayload struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (SyncLiveGamePayload) taskType() string      { return TypeSyncLiveGame }
func (SyncDateGamesPayload) taskType() string     { return TypeSyncDateGames }
func (DailyWrapUpPayload) taskType() string       { return TypeDailyWrapUp }
func (SyncPlayerStatsPayload) taskType() string   { return TypeSyncPlayerStats }
func (SyncAdvancedStatsPayload) taskType() string { return TypeSyncAdvancedStats }
func (DataAuditPayload) taskType() string         { return TypeDataAudit }
func (BackfillDataPayload) taskType() string      { return TypeBackfillData }
func (CheckSchedulePayload) taskType() string     { return TypeCheckSchedule }
func (FirstGameNotifiedPayload) taskType() string { return TypeFirstGameNotified }

// TargetGameIDs flattens the single/plural forms of a live-game payload.
func (p SyncLiveGamePayload) TargetGameIDs() []string {
	if len(p.GameIDs) > 0 {
		return p.GameIDs
	}
	if p.GameID != "" {
		return []string{p.GameID}
	}
	return nil
}

// DecodePayload parses and validates the wire payload for a task type.
// An unknown type or a payload that fails validation is a terminal error
// for the task; the worker persists it and moves on.
func DecodePayload(taskType string, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var payload Payload
	switch taskType {
	case TypeSyncLiveGame:
		payload = &SyncLiveGamePayload{}
	case TypeSyncDateGames:
		payload = &SyncDateGamesPayload{}
	case TypeDailyWrapUp:
		payload = &DailyWrapUpPayload{}
	case TypeSyncPlayerStats:
		payload = &SyncPlayerStatsPayload{}
	case TypeSyncAdvancedStats:
		payload = &SyncAdvancedStatsPayload{}
	case TypeDataAudit:
		payload = &DataAuditPayload{}
	case TypeBackfillData:
		payload = &BackfillDataPayload{}
	case TypeCheckSchedule:
		payload = &CheckSchedulePayload{}
	case TypeFirstGameNotified:
		payload = &FirstGameNotifiedPayload{}
	default:
		return nil, fmt.Errorf("unknown task type %q", taskType)
	}

	if err := payloadJSON.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", taskType, err)
	}
	if err := payloadValidate.Struct(payload); err != nil {
		return nil, fmt.Errorf("validate %s payload: %w", taskType, err)
	}

	return deref(payload), nil
}

// EncodePayload is the producer-side inverse, used by the cron scheduler and
// the one-shot worker mode.
func EncodePayload(p Payload) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	data, err := payloadJSON.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.taskType(), err)
	}
	return data, nil
}

// TypeOf returns the task-type tag a payload variant belongs to.
func TypeOf(p Payload) string {
	if p == nil {
		return ""
	}
	return p.taskType()
}

func deref(p Payload) Payload {
	switch v := p.(type) {
	case *SyncLiveGamePayload:
		return *v
	case *SyncDateGamesPayload:
		return *v
	case *DailyWrapUpPayload:
		return *v
	case *SyncPlayerStatsPayload:
		return *v
	case *SyncAdvancedStatsPayload:
		return *v
	case *DataAuditPayload:
		return *v
	case *BackfillDataPayload:
		return *v
	case *CheckSchedulePayload:
		return *v
	case *FirstGameNotifiedPayload:
		return *v
	default:
		return p
	}
}
