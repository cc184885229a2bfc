package operator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opamp-commander/opamp-commander/internal/application/service/operator"
)

func TestService_CompareYAML_Identical(t *testing.T) {
	t.Parallel()

	svc := operator.New(nil, nil, nil, nil)

	doc := []byte("receivers:\n  otlp:\n")

	result, err := svc.CompareYAML(context.Background(), doc, doc)
	require.NoError(t, err)
	assert.True(t, result.Identical)
	assert.Empty(t, result.UnifiedDiff)
}

func TestService_CompareYAML_Diff(t *testing.T) {
	t.Parallel()

	svc := operator.New(nil, nil, nil, nil)

	before := []byte("receivers:\n  otlp:\n    protocols:\n      grpc:\n")
	after := []byte("receivers:\n  otlp:\n    protocols:\n      http:\n")

	result, err := svc.CompareYAML(context.Background(), before, after)
	require.NoError(t, err)
	assert.False(t, result.Identical)
	assert.Equal(t, 1, result.LinesAdded)
	assert.Equal(t, 1, result.LinesRemoved)
	assert.Contains(t, result.UnifiedDiff, "-      grpc:")
	assert.Contains(t, result.UnifiedDiff, "+      http:")
}
