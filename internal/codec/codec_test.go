package codec_test

import (
	"bytes"
	"testing"

	"github.com/open-telemetry/opamp-go/protobufs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/opamp-commander/opamp-commander/internal/codec"
)

func mustMarshal(t *testing.T, msg *protobufs.AgentToServer) []byte {
	t.Helper()

	b, err := proto.Marshal(msg)
	require.NoError(t, err)

	return b
}

// TestDecodeAgentToServer_NullPrefixTolerance verifies that a frame
// prefixed with one or more leading 0x00 bytes decodes identically to the
// same message with no prefix.
func TestDecodeAgentToServer_NullPrefixTolerance(t *testing.T) {
	t.Parallel()

	c := codec.New()
	want := &protobufs.AgentToServer{
		InstanceUid: bytes.Repeat([]byte{0x01}, 16),
		SequenceNum: 42,
	}
	raw := mustMarshal(t, want)

	for _, prefixLen := range []int{0, 1, 3} {
		prefixed := append(bytes.Repeat([]byte{0x00}, prefixLen), raw...)

		got, err := c.DecodeAgentToServer(prefixed)
		require.NoError(t, err)
		assert.True(t, proto.Equal(want, got))
	}
}

func TestDecodeAgentToServer_Truncated(t *testing.T) {
	t.Parallel()

	c := codec.New()
	_, err := c.DecodeAgentToServer(nil)
	require.ErrorIs(t, err, codec.ErrTruncated)
}

func TestDecodeAgentToServer_Oversized(t *testing.T) {
	t.Parallel()

	c := codec.New(codec.WithMaxMessageSize(8))
	_, err := c.DecodeAgentToServer(make([]byte, 9))
	require.ErrorIs(t, err, codec.ErrOversized)
}

func TestEncodeServerToAgent_RoundTrip(t *testing.T) {
	t.Parallel()

	c := codec.New()
	want := &protobufs.ServerToAgent{
		InstanceUid: bytes.Repeat([]byte{0x02}, 16),
	}

	encoded, err := c.EncodeServerToAgent(want)
	require.NoError(t, err)

	got := &protobufs.ServerToAgent{}
	require.NoError(t, proto.Unmarshal(encoded, got))
	assert.True(t, proto.Equal(want, got))
}
