package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvider_WithKey(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider("sk-test", "")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_WithBaseURL(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider("sk-test", "http://localhost:8080")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_NoKey(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY not set")
}
