// Package entity holds the JSON-serializable row shapes the sql adapter
// reads and writes: the domain aggregate is the single source of truth,
// and an entity only exists to give it a stable wire/storage encoding.
package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
)

// Agent is the row shape of the agents table: Data carries the full
// domain.Agent encoding, Tags and LastSeen are projected out of it so the
// database can index and filter on them directly.
type Agent struct {
	InstanceUID uuid.UUID `db:"instance_uid"`
	Org         string    `db:"org"`
	Tags        []byte    `db:"tags"`
	LastSeen    time.Time `db:"last_seen"`
	Data        []byte    `db:"data"`
}

// AgentFromDomain projects a domain.Agent into its row shape.
func AgentFromDomain(a *model.Agent) (*Agent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent: %w", err)
	}

	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent tags: %w", err)
	}

	return &Agent{
		InstanceUID: a.InstanceUID,
		Org:         a.Org,
		Tags:        tags,
		LastSeen:    a.LastSeen,
		Data:        data,
	}, nil
}

// ToDomain decodes the row's Data column back into a domain.Agent.
func (e *Agent) ToDomain() (*model.Agent, error) {
	var a model.Agent

	if err := json.Unmarshal(e.Data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode agent: %w", err)
	}

	return &a, nil
}
