package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
	"github.com/opamp-commander/opamp-commander/internal/domain/service"
)

type fakeAgentPersistence struct {
	agents map[uuid.UUID]*model.Agent
}

func newFakeAgentPersistence() *fakeAgentPersistence {
	return &fakeAgentPersistence{agents: make(map[uuid.UUID]*model.Agent)}
}

func (f *fakeAgentPersistence) GetAgent(_ context.Context, instanceUID uuid.UUID) (*model.Agent, error) {
	a, ok := f.agents[instanceUID]
	if !ok {
		return nil, port.ErrResourceNotExist
	}

	return a, nil
}

func (f *fakeAgentPersistence) PutAgent(_ context.Context, agent *model.Agent) error {
	f.agents[agent.InstanceUID] = agent

	return nil
}

func (f *fakeAgentPersistence) ListAgents(
	_ context.Context, _ string, _ model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	items := make([]*model.Agent, 0, len(f.agents))
	for _, a := range f.agents {
		items = append(items, a)
	}

	return model.ListResponse[*model.Agent]{Items: items}, nil
}

func (f *fakeAgentPersistence) ListAgentsByTags(
	_ context.Context, _ string, _ []string, _ model.ListOptions,
) (model.ListResponse[*model.Agent], error) {
	return model.ListResponse[*model.Agent]{}, nil
}

func TestAgentService_GetOrCreateAgent_CreatesFreshRecord(t *testing.T) {
	t.Parallel()

	svc := service.NewAgentService(newFakeAgentPersistence(), slog.Default())
	instanceUID := uuid.New()

	a, err := svc.GetOrCreateAgent(context.Background(), instanceUID)
	require.NoError(t, err)
	assert.Equal(t, instanceUID, a.InstanceUID)
	assert.Equal(t, model.ConnectionStatusNeverConnected, a.ConnectionStatus)
}

func TestAgentService_Upsert_PersistsPatch(t *testing.T) {
	t.Parallel()

	persistence := newFakeAgentPersistence()
	svc := service.NewAgentService(persistence, slog.Default())
	instanceUID := uuid.New()

	_, err := svc.Upsert(context.Background(), instanceUID, model.Patch{SequenceNum: 1}, time.Now())
	require.NoError(t, err)

	stored, err := persistence.GetAgent(context.Background(), instanceUID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.LastSequenceNum)
}

func TestAgentService_MarkDisconnected_NoOpForUnknownAgent(t *testing.T) {
	t.Parallel()

	svc := service.NewAgentService(newFakeAgentPersistence(), slog.Default())
	err := svc.MarkDisconnected(context.Background(), uuid.New())
	require.NoError(t, err)
}
