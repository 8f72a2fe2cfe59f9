package relay_test

import (
	"testing"

	"github.com/fwojciec/relay"
	"github.com/stretchr/testify/assert"
)

func TestRole_Values(t *testing.T) {
	t.Parallel()
	assert.Equal(t, relay.Role("user"), relay.RoleUser)
	assert.Equal(t, relay.Role("assistant"), relay.RoleAssistant)
}

func TestUsage_ZeroValue(t *testing.T) {
	t.Parallel()
	var u relay.Usage
	assert.Equal(t, 0, u.InputTokens)
	assert.Equal(t, 0, u.OutputTokens)
	assert.Equal(t, 0, u.Total())
}

func TestUsage_Merge(t *testing.T) {
	t.Parallel()

	t.Run("keeps earlier input tokens when update omits them", func(t *testing.T) {
		t.Parallel()
		u := relay.Usage{InputTokens: 12}.Merge(relay.Usage{OutputTokens: 40})
		assert.Equal(t, relay.Usage{InputTokens: 12, OutputTokens: 40}, u)
	})

	t.Run("later non-zero values win", func(t *testing.T) {
		t.Parallel()
		u := relay.Usage{InputTokens: 12, OutputTokens: 1}.Merge(relay.Usage{InputTokens: 15, OutputTokens: 40})
		assert.Equal(t, relay.Usage{InputTokens: 15, OutputTokens: 40}, u)
	})
}

func TestUsage_Add(t *testing.T) {
	t.Parallel()
	u := relay.Usage{InputTokens: 1, OutputTokens: 2}.Add(relay.Usage{InputTokens: 10, OutputTokens: 20})
	assert.Equal(t, relay.Usage{InputTokens: 11, OutputTokens: 22}, u)
	assert.Equal(t, 33, u.Total())
}
