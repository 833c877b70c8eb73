package database

import (
	"context"
	"database/sql"
	"fmt"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/template"

	"github.com/lib/pq"
)

// PostgresTemplateRepository reads relationship_templates_v2.
type PostgresTemplateRepository struct {
	db *sql.DB
}

func NewPostgresTemplateRepository(db *sql.DB) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{db: db}
}

const templateColumns = `code, org_id, anchor, message_v1, channel_default, active,
               temporal_offset_days, variables`

func (r *PostgresTemplateRepository) ListActive(ctx context.Context, orgID string) ([]template.Template, error) {
	query := `SELECT ` + templateColumns + `
               FROM relationship_templates_v2
               WHERE org_id = $1 AND active = TRUE ORDER BY code`
	return r.list(ctx, query, orgID)
}

func (r *PostgresTemplateRepository) ListActiveByAnchor(ctx context.Context, orgID string, code anchor.EventCode) ([]template.Template, error) {
	query := `SELECT ` + templateColumns + `
               FROM relationship_templates_v2
               WHERE org_id = $1 AND anchor = $2 AND active = TRUE ORDER BY code`
	return r.list(ctx, query, orgID, string(code))
}

func (r *PostgresTemplateRepository) list(ctx context.Context, query string, args ...any) ([]template.Template, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing templates: %w", err)
	}
	defer rows.Close()

	templates := make([]template.Template, 0)
	for rows.Next() {
		var tpl template.Template
		var offset sql.NullInt64
		var vars pq.StringArray
		if err := rows.Scan(&tpl.Code, &tpl.OrgID, &tpl.Anchor, &tpl.MessageV1,
			&tpl.ChannelDefault, &tpl.Active, &offset, &vars); err != nil {
			return nil, fmt.Errorf("error scanning template: %w", err)
		}
		if offset.Valid {
			days := int(offset.Int64)
			tpl.TemporalOffsetDays = &days
		}
		tpl.Variables = []string(vars)
		templates = append(templates, tpl)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}
	return templates, nil
}
