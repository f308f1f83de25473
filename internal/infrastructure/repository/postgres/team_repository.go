package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/team"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

const teamUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    city = EXCLUDED.city,
    code = EXCLUDED.code,
    conference = EXCLUDED.conference,
    logo_url = EXCLUDED.logo_url,
    updated_at = NOW()`

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) UpsertAll(ctx context.Context, teams []team.Team) (int, error) {
	if len(teams) == 0 {
		return 0, nil
	}

	models := make([]teamInsertModel, 0, len(teams))
	for _, t := range teams {
		models = append(models, teamInsert(t))
	}

	query, args, err := qb.InsertModels("teams", models, teamUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert teams query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d teams: %w", len(teams), err)
	}

	return len(teams), nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	query, args, err := qb.InsertModel("teams", teamInsert(t), teamUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team id=%d: %w", t.ID, err)
	}

	return nil
}

func (r *TeamRepository) List(ctx context.Context, limit int) ([]team.Team, error) {
	builder := qb.Select("*").From("teams").OrderBy("id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:         row.ID,
			Name:       row.Name,
			City:       row.City,
			Code:       row.Code,
			Conference: row.Conference,
			LogoURL:    row.LogoURL,
		})
	}

	return out, nil
}

func (r *TeamRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query, args, err := qb.Select("id").From("teams").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team ids query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select team ids: %w", err)
	}

	return ids, nil
}

func teamInsert(t team.Team) teamInsertModel {
	return teamInsertModel{
		ID:         t.ID,
		Name:       t.Name,
		City:       t.City,
		Code:       t.Code,
		Conference: t.Conference,
		LogoURL:    t.LogoURL,
	}
}
