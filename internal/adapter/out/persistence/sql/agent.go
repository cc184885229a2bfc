package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/adapter/out/persistence/sql/entity"
	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
)

var _ port.AgentPersistencePort = (*AgentAdapter)(nil)

// AgentAdapter is the agent persistence adapter backed by the agents table.
type AgentAdapter struct {
	db     *DB
	logger *slog.Logger
}

// NewAgentAdapter creates an AgentAdapter.
func NewAgentAdapter(db *DB, logger *slog.Logger) *AgentAdapter {
	return &AgentAdapter{db: db, logger: logger}
}

// GetAgent implements port.AgentPersistencePort.
func (a *AgentAdapter) GetAgent(ctx context.Context, instanceUID uuid.UUID) (*model.Agent, error) {
	var row entity.Agent

	err := a.db.GetContext(ctx, &row, `SELECT instance_uid, org, tags, last_seen, data FROM agents WHERE instance_uid = $1`,
		instanceUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrResourceNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return row.ToDomain()
}

// PutAgent implements port.AgentPersistencePort.
func (a *AgentAdapter) PutAgent(ctx context.Context, agentRecord *model.Agent) error {
	row, err := entity.AgentFromDomain(agentRecord)
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO agents (instance_uid, org, tags, last_seen, data, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (instance_uid) DO UPDATE
		SET org = EXCLUDED.org, tags = EXCLUDED.tags, last_seen = EXCLUDED.last_seen,
		    data = EXCLUDED.data, updated_at = now()`,
		row.InstanceUID, row.Org, row.Tags, row.LastSeen, row.Data)
	if err != nil {
		return fmt.Errorf("failed to put agent: %w", err)
	}

	return nil
}

// ListAgents implements port.AgentPersistencePort.
func (a *AgentAdapter) ListAgents(
	ctx context.Context,
	org string,
	options model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	return a.list(ctx, org, nil, options)
}

// ListAgentsByTags implements port.AgentPersistencePort.
func (a *AgentAdapter) ListAgentsByTags(
	ctx context.Context,
	org string,
	tags []string,
	options model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	return a.list(ctx, org, tags, options)
}

func (a *AgentAdapter) list(
	ctx context.Context,
	org string,
	tags []string,
	options model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	limit := options.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT instance_uid, org, tags, last_seen, data FROM agents WHERE org = $1 AND instance_uid::text > $2`

	args := []any{org, options.Continue}

	if len(tags) > 0 {
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return model.ListResponse[*model.Agent]{}, fmt.Errorf("failed to encode tag filter: %w", err)
		}

		query += " AND tags @> $3::jsonb"
		args = append(args, string(tagsJSON))
	}

	query += " ORDER BY instance_uid::text LIMIT " + fmt.Sprintf("%d", limit+1)

	var rows []entity.Agent

	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return model.ListResponse[*model.Agent]{}, fmt.Errorf("failed to list agents: %w", err)
	}

	hasMore := int64(len(rows)) > limit
	if hasMore {
		rows = rows[:limit]
	}

	items := make([]*model.Agent, 0, len(rows))

	for i := range rows {
		domainAgent, err := rows[i].ToDomain()
		if err != nil {
			return model.ListResponse[*model.Agent]{}, err
		}

		items = append(items, domainAgent)
	}

	var continueToken string
	if hasMore && len(items) > 0 {
		continueToken = items[len(items)-1].InstanceUID.String()
	}

	return model.ListResponse[*model.Agent]{
		Continue: continueToken,
		Items:    items,
	}, nil
}
