package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

const (
	// checkpointSaveEvery bounds rework after an interrupt mid-phase.
	checkpointSaveEvery = 10

	dateSleepMin = 5 * time.Second
	dateSleepMax = 8 * time.Second
	gameSleepMin = 4 * time.Second
	gameSleepMax = 6 * time.Second
)

// backfillCheckpoint is the on-disk resume state. Keys are dates in
// 2006-01-02 form and game ids; a key present means that unit is done.
type backfillCheckpoint struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	DatesDone    map[string]bool `json:"dates_done"`
	StatsDone    map[string]bool `json:"stats_done"`
	AdvancedDone map[string]bool `json:"advanced_done"`

	UpdatedAt time.Time `json:"updated_at"`
}

func newBackfillCheckpoint(start, end string) *backfillCheckpoint {
	return &backfillCheckpoint{
		StartDate:    start,
		EndDate:      end,
		DatesDone:    map[string]bool{},
		StatsDone:    map[string]bool{},
		AdvancedDone: map[string]bool{},
	}
}

// BackfillService replays the normal sync operations over a historical date
// range in three phases: schedule rows per date, box-score gaps per game,
// advanced-line gaps per game. Progress is checkpointed to disk so an
// interrupted run resumes where it stopped instead of re-fetching everything.
type BackfillService struct {
	gameRepo game.Repository
	games    *GameSyncService
	stats    *GameStatsService
	advanced *AdvancedStatsService

	checkpointPath string
	logger         *logging.Logger

	// sleep and randInt are swapped out in tests.
	sleep   func(time.Duration)
	randInt func(n int) int
}

func NewBackfillService(
	gameRepo game.Repository,
	games *GameSyncService,
	stats *GameStatsService,
	advanced *AdvancedStatsService,
	checkpointPath string,
	logger *logging.Logger,
) *BackfillService {
	if logger == nil {
		logger = logging.Default()
	}
	if checkpointPath == "" {
		checkpointPath = "backfill_checkpoint.json"
	}

	return &BackfillService{
		gameRepo:       gameRepo,
		games:          games,
		stats:          stats,
		advanced:       advanced,
		checkpointPath: checkpointPath,
		logger:         logger,
		sleep:          time.Sleep,
		randInt:        rand.Intn,
	}
}

// Backfill runs all three phases over [start, end]. Dates are treated as UTC
// days. The checkpoint is removed only after a fully clean run.
func (s *BackfillService) Backfill(ctx context.Context, start, end time.Time, withStats bool) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.Backfill")
	defer span.End()

	if s.gameRepo == nil || s.games == nil || s.stats == nil {
		return nil, fmt.Errorf("%w: backfill is not fully wired", ErrDependencyUnavailable)
	}
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC().Truncate(24 * time.Hour)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	checkpoint := s.loadCheckpoint(start.Format("2006-01-02"), end.Format("2006-01-02"))
	result := newResult()

	if err := s.backfillDates(ctx, start, end, withStats, checkpoint, result); err != nil {
		return result, err
	}
	if withStats {
		if err := s.backfillStatsGaps(ctx, start, end, checkpoint, result); err != nil {
			return result, err
		}
		if s.advanced != nil {
			if err := s.backfillAdvancedGaps(ctx, start, end, checkpoint, result); err != nil {
				return result, err
			}
		}
	}

	if result.Failed == 0 {
		if err := os.Remove(s.checkpointPath); err != nil && !os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "remove finished checkpoint failed", "error", err)
		}
	} else {
		s.saveCheckpoint(ctx, checkpoint)
	}

	s.logger.InfoContext(ctx, "backfill finished",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

// backfillDates is phase one: one schedule sync per calendar day.
func (s *BackfillService) backfillDates(ctx context.Context, start, end time.Time, withStats bool, checkpoint *backfillCheckpoint, result *Result) error {
	for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
		if err := ctx.Err(); err != nil {
			s.saveCheckpoint(ctx, checkpoint)
			return err
		}

		key := day.Format("2006-01-02")
		if checkpoint.DatesDone[key] {
			result.skip("date_already_done", 1)
			continue
		}

		dayResult, err := s.games.SyncGamesForDate(ctx, day, withStats)
		if err != nil {
			s.logger.ErrorContext(ctx, "backfill date failed", "date", key, "error", err)
			result.Failed++
		} else {
			result.Synced += dayResult.Synced
			result.Failed += dayResult.Failed
			checkpoint.DatesDone[key] = true
		}
		s.saveCheckpoint(ctx, checkpoint)

		if !day.Equal(end) {
			s.sleep(s.jitter(dateSleepMin, dateSleepMax))
		}
	}
	return nil
}

// backfillStatsGaps is phase two: Final games in range with no box-score rows.
func (s *BackfillService) backfillStatsGaps(ctx context.Context, start, end time.Time, checkpoint *backfillCheckpoint, result *Result) error {
	gaps, err := s.gameRepo.ListFinalWithoutPlayerStats(ctx, start, end.Add(24*time.Hour), 0)
	if err != nil {
		return fmt.Errorf("list box score gaps: %w", err)
	}

	done := 0
	for _, g := range gaps {
		if err := ctx.Err(); err != nil {
			s.saveCheckpoint(ctx, checkpoint)
			return err
		}
		if checkpoint.StatsDone[g.ID] {
			result.skip("game_already_done", 1)
			continue
		}

		if _, err := s.stats.SyncGameStats(ctx, g.ID); err != nil {
			s.logger.ErrorContext(ctx, "backfill game stats failed", "game_id", g.ID, "error", err)
			result.Failed++
		} else {
			result.Synced++
			checkpoint.StatsDone[g.ID] = true
		}

		done++
		if done%checkpointSaveEvery == 0 {
			s.saveCheckpoint(ctx, checkpoint)
		}
		s.sleep(s.jitter(gameSleepMin, gameSleepMax))
	}

	s.saveCheckpoint(ctx, checkpoint)
	return nil
}

// backfillAdvancedGaps is phase three: advanced lines for every Final game in
// range not yet covered by this run or a previous interrupted one.
func (s *BackfillService) backfillAdvancedGaps(ctx context.Context, start, end time.Time, checkpoint *backfillCheckpoint, result *Result) error {
	done := 0
	for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
		games, err := s.gameRepo.ListByDate(ctx, day)
		if err != nil {
			return fmt.Errorf("list games for %s: %w", day.Format("2006-01-02"), err)
		}

		for _, g := range games {
			if err := ctx.Err(); err != nil {
				s.saveCheckpoint(ctx, checkpoint)
				return err
			}
			if g.Status != game.StatusFinal || checkpoint.AdvancedDone[g.ID] {
				continue
			}

			if _, err := s.advanced.SyncGameAdvancedStats(ctx, g.ID); err != nil {
				s.logger.ErrorContext(ctx, "backfill advanced stats failed", "game_id", g.ID, "error", err)
				result.Failed++
			} else {
				result.Synced++
				checkpoint.AdvancedDone[g.ID] = true
			}

			done++
			if done%checkpointSaveEvery == 0 {
				s.saveCheckpoint(ctx, checkpoint)
			}
			s.sleep(s.jitter(gameSleepMin, gameSleepMax))
		}
	}

	s.saveCheckpoint(ctx, checkpoint)
	return nil
}

// loadCheckpoint resumes a previous run over the same range, or starts fresh.
func (s *BackfillService) loadCheckpoint(start, end string) *backfillCheckpoint {
	data, err := os.ReadFile(s.checkpointPath)
	if err != nil {
		return newBackfillCheckpoint(start, end)
	}

	var checkpoint backfillCheckpoint
	if err := sonic.Unmarshal(data, &checkpoint); err != nil {
		s.logger.Warn("checkpoint file unreadable, starting fresh", "path", s.checkpointPath, "error", err)
		return newBackfillCheckpoint(start, end)
	}
	if checkpoint.StartDate != start || checkpoint.EndDate != end {
		s.logger.Info("checkpoint is for a different range, starting fresh",
			"checkpoint_start", checkpoint.StartDate, "checkpoint_end", checkpoint.EndDate)
		return newBackfillCheckpoint(start, end)
	}

	if checkpoint.DatesDone == nil {
		checkpoint.DatesDone = map[string]bool{}
	}
	if checkpoint.StatsDone == nil {
		checkpoint.StatsDone = map[string]bool{}
	}
	if checkpoint.AdvancedDone == nil {
		checkpoint.AdvancedDone = map[string]bool{}
	}

	s.logger.Info("resuming from checkpoint",
		"dates_done", len(checkpoint.DatesDone),
		"stats_done", len(checkpoint.StatsDone),
		"advanced_done", len(checkpoint.AdvancedDone),
	)
	return &checkpoint
}

// saveCheckpoint writes the state through a temp file and rename so a crash
// mid-write never leaves a torn checkpoint behind.
func (s *BackfillService) saveCheckpoint(ctx context.Context, checkpoint *backfillCheckpoint) {
	checkpoint.UpdatedAt = time.Now().UTC()

	data, err := sonic.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal checkpoint failed", "error", err)
		return
	}

	tmp := s.checkpointPath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.checkpointPath), 0o755); err != nil {
		s.logger.ErrorContext(ctx, "create checkpoint dir failed", "error", err)
		return
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.ErrorContext(ctx, "write checkpoint failed", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, s.checkpointPath); err != nil {
		s.logger.ErrorContext(ctx, "replace checkpoint failed", "path", s.checkpointPath, "error", err)
	}
}

func (s *BackfillService) jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(s.randInt(int(max-min)))
}
