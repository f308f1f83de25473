package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

const (
	// auditCheckLimit bounds each consistency query.
	auditCheckLimit = 200
	// auditFixDateLimit caps how many offending dates one auto-fix pass
	// re-syncs, keeping a single DATA_AUDIT task bounded.
	auditFixDateLimit = 10
	// auditStatsLookback is how far back the missing-stats check reaches.
	auditStatsLookback = 30 * 24 * time.Hour
)

// AuditFinding is one inconsistent game surfaced by a check.
type AuditFinding struct {
	GameID string
	Date   time.Time
	Check  string
}

// AuditReport is the outcome of one audit pass.
type AuditReport struct {
	PastStillScheduled []AuditFinding
	FinalMissingScores []AuditFinding
	FinalWithoutStats  []AuditFinding
	FixedDates         []string
	FixErrors          int
}

// Total counts findings across all checks.
func (r *AuditReport) Total() int {
	return len(r.PastStillScheduled) + len(r.FinalMissingScores) + len(r.FinalWithoutStats)
}

// AuditService runs read-only consistency checks over the games tables and,
// when asked, repairs offending dates through the regular sync path.
type AuditService struct {
	gameRepo game.Repository
	games    *GameSyncService
	logger   *logging.Logger
	now      func() time.Time
}

func NewAuditService(gameRepo game.Repository, games *GameSyncService, logger *logging.Logger) *AuditService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuditService{
		gameRepo: gameRepo,
		games:    games,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AuditService) RunAudit(ctx context.Context, autoFix bool) (*AuditReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.RunAudit")
	defer span.End()

	if s.gameRepo == nil {
		return nil, fmt.Errorf("%w: audit is not fully wired", ErrDependencyUnavailable)
	}

	now := s.now()
	report := &AuditReport{}

	stale, err := s.gameRepo.ListPastStillScheduled(ctx, now, auditCheckLimit)
	if err != nil {
		return nil, fmt.Errorf("check past still scheduled: %w", err)
	}
	report.PastStillScheduled = findings(stale, "past_still_scheduled")

	scoreless, err := s.gameRepo.ListFinalMissingScores(ctx, auditCheckLimit)
	if err != nil {
		return nil, fmt.Errorf("check final missing scores: %w", err)
	}
	report.FinalMissingScores = findings(scoreless, "final_missing_scores")

	statless, err := s.gameRepo.ListFinalWithoutPlayerStats(ctx, now.Add(-auditStatsLookback), now, auditCheckLimit)
	if err != nil {
		return nil, fmt.Errorf("check final without player stats: %w", err)
	}
	report.FinalWithoutStats = findings(statless, "final_without_player_stats")

	s.logger.InfoContext(ctx, "audit checks finished",
		"past_still_scheduled", len(report.PastStillScheduled),
		"final_missing_scores", len(report.FinalMissingScores),
		"final_without_stats", len(report.FinalWithoutStats),
	)

	if autoFix && report.Total() > 0 {
		s.autoFix(ctx, report)
	}

	return report, nil
}

// autoFix re-syncs the distinct dates behind the findings, oldest first,
// through the normal date sync so every repair follows the usual write path.
func (s *AuditService) autoFix(ctx context.Context, report *AuditReport) {
	if s.games == nil {
		s.logger.WarnContext(ctx, "auto fix requested but game sync is not wired")
		return
	}

	dates := offendingDates(report)
	if len(dates) > auditFixDateLimit {
		s.logger.InfoContext(ctx, "auto fix truncated",
			"dates", len(dates), "limit", auditFixDateLimit)
		dates = dates[:auditFixDateLimit]
	}

	for _, day := range dates {
		if _, err := s.games.SyncGamesForDate(ctx, day, true); err != nil {
			s.logger.ErrorContext(ctx, "auto fix date failed",
				"date", day.Format("2006-01-02"), "error", err)
			report.FixErrors++
			continue
		}
		report.FixedDates = append(report.FixedDates, day.Format("2006-01-02"))
	}
}

func findings(games []game.Game, check string) []AuditFinding {
	out := make([]AuditFinding, 0, len(games))
	for _, g := range games {
		out = append(out, AuditFinding{GameID: g.ID, Date: g.DateTime, Check: check})
	}
	return out
}

func offendingDates(report *AuditReport) []time.Time {
	seen := map[string]time.Time{}
	for _, group := range [][]AuditFinding{
		report.PastStillScheduled,
		report.FinalMissingScores,
		report.FinalWithoutStats,
	} {
		for _, f := range group {
			day := f.Date.UTC().Truncate(24 * time.Hour)
			seen[day.Format("2006-01-02")] = day
		}
	}

	out := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
