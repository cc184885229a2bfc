package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opamp-commander/opamp-commander/internal/domain/model"
	agentmodel "github.com/opamp-commander/opamp-commander/internal/domain/model/agent"
	"github.com/opamp-commander/opamp-commander/internal/domain/model/vo"
)

func TestAgent_Upsert_SequenceGuard(t *testing.T) {
	t.Parallel()

	a := model.NewAgent(uuid.New())
	t0 := time.Now()

	desc := &agentmodel.Description{NonIdentifyingAttributes: map[string]string{"host.name": "real-host"}}
	a.Upsert(model.Patch{SequenceNum: 5, Description: desc}, t0)
	require.Equal(t, uint64(5), a.LastSequenceNum)
	require.Equal(t, "real-host", a.Hostname)

	// A replayed or out-of-order message (sequence <= stored) must not
	// mutate state beyond LastSeen.
	stale := &agentmodel.Description{NonIdentifyingAttributes: map[string]string{"host.name": "stale-host"}}
	a.Upsert(model.Patch{SequenceNum: 5, Description: stale}, t0.Add(time.Second))
	assert.Equal(t, "real-host", a.Hostname, "replayed sequence number must not mutate state")

	a.Upsert(model.Patch{SequenceNum: 4, Description: stale}, t0.Add(2*time.Second))
	assert.Equal(t, uint64(5), a.LastSequenceNum, "lower sequence number must not regress LastSequenceNum")
	assert.Equal(t, "real-host", a.Hostname)
}

func TestAgent_HasAppliedHash(t *testing.T) {
	t.Parallel()

	a := model.NewAgent(uuid.New())
	h, err := vo.NewHash([]byte("receivers: {}\n"))
	require.NoError(t, err)

	assert.False(t, a.HasAppliedHash(h))

	a.Upsert(model.Patch{
		SequenceNum:        1,
		RemoteConfigStatus: &model.RemoteConfig{Hash: h, Status: model.RemoteConfigStatusApplied},
	}, time.Now())

	assert.True(t, a.HasAppliedHash(h))

	other, err := vo.NewHash([]byte("receivers: {other: {}}\n"))
	require.NoError(t, err)
	assert.False(t, a.HasAppliedHash(other))
}

func TestAgent_MarkRegistrationFailed(t *testing.T) {
	t.Parallel()

	a := model.NewAgent(uuid.New())
	a.MarkRegistrationFailed("invalid token", time.Now())

	assert.True(t, a.RegistrationFailed)
	assert.Equal(t, "invalid token", a.RegistrationFailureReason)
}
