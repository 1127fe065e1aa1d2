package strategies

import (
	"testing"

	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/quantifiers/qtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStrategy(t *testing.T) {
	h := qtest.New(config.DefaultQuantifiersConfig())
	for _, name := range Names() {
		m, err := GetStrategy(h.Env, name, Params{})
		require.NoError(t, err)
		assert.Equal(t, name, m.Identify())
	}
	_, err := GetStrategy(h.Env, "mbqi", Params{})
	assert.ErrorIs(t, err, ErrNoStrategy)
}

func TestRegister(t *testing.T) {
	h := qtest.New(config.DefaultQuantifiersConfig())
	require.NoError(t, Register(h.Engine, []string{"enum", "ematch"}, Params{}))
	modules := h.Engine.Modules()
	require.Len(t, modules, 2)
	assert.Equal(t, "enum", modules[0].Identify())
	assert.Equal(t, "ematch", modules[1].Identify())

	assert.ErrorIs(t, Register(h.Engine, []string{"finite", "unknown"}, Params{}), ErrNoStrategy)
}
