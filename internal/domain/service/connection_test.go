package service_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/open-telemetry/opamp-go/protobufs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
	"github.com/opamp-commander/opamp-commander/internal/domain/service"
)

func newTestConnection(t *testing.T) *model.Connection {
	t.Helper()

	_, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return model.NewConnection(uuid.New(), model.TransportWebSocket, cancel)
}

func TestConnectionService_RegisterReplacesStaleSession(t *testing.T) {
	t.Parallel()

	svc := service.NewConnectionService(slog.Default())
	ctx := context.Background()
	instanceUID := uuid.New()

	first := newTestConnection(t)
	require.NoError(t, svc.Register(ctx, instanceUID, first))

	second := newTestConnection(t)
	require.NoError(t, svc.Register(ctx, instanceUID, second))

	assert.True(t, first.IsClosed(), "prior session must be closed when replaced")

	got, ok := svc.Get(ctx, instanceUID)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)
}

func TestConnectionService_SendUnknownInstance(t *testing.T) {
	t.Parallel()

	svc := service.NewConnectionService(slog.Default())
	err := svc.Send(context.Background(), uuid.New(), &protobufs.ServerToAgent{})
	require.ErrorIs(t, err, port.ErrConnectionNotFound)
}

func TestConnectionService_Unregister(t *testing.T) {
	t.Parallel()

	svc := service.NewConnectionService(slog.Default())
	ctx := context.Background()
	instanceUID := uuid.New()

	conn := newTestConnection(t)
	require.NoError(t, svc.Register(ctx, instanceUID, conn))
	require.NoError(t, svc.Unregister(ctx, conn))

	_, ok := svc.Get(ctx, instanceUID)
	assert.False(t, ok)
	assert.True(t, conn.IsClosed())
}
