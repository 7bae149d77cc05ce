package model

import (
	"testing"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChatSettings(t *testing.T) {
	settings := DefaultChatSettings(42)

	assert.Equal(t, int64(42), settings.ChatID)
	assert.Equal(t, gatekeeper.ModeAuto, settings.Mode)
	assert.True(t, settings.BlockBots)
	assert.False(t, settings.RequireUsername)
	assert.Equal(t, int64(0), settings.MinUsernameLength)
}

func TestChatSettings_Rules(t *testing.T) {
	settings := &ChatSettings{
		ChatID:            1,
		Mode:              gatekeeper.ModeFiltered,
		BlockBots:         true,
		RequireUsername:   true,
		MinUsernameLength: 5,
	}

	rules := settings.Rules()
	assert.Equal(t, gatekeeper.Rules{
		Mode:              gatekeeper.ModeFiltered,
		BlockBots:         true,
		RequireUsername:   true,
		MinUsernameLength: 5,
	}, rules)
}

func TestChatSettings_Describe(t *testing.T) {
	settings := &ChatSettings{
		Mode:              gatekeeper.ModeFiltered,
		BlockBots:         true,
		RequireUsername:   false,
		MinUsernameLength: 3,
	}

	text := settings.Describe()
	assert.Contains(t, text, "FILTERED")
	assert.Contains(t, text, "Bots blockieren: <code>AN</code>")
	assert.Contains(t, text, "Username erforderlich: <code>AUS</code>")
	assert.Contains(t, text, "<code>3</code>")
}

func TestParseToggle(t *testing.T) {
	for _, token := range []string{"on", "an", "True", "YES", "y", "1"} {
		value, err := ParseToggle(token)
		require.NoError(t, err, "token %q", token)
		assert.True(t, value, "token %q", token)
	}

	for _, token := range []string{"off", "aus", "False", "NO", "n", "0"} {
		value, err := ParseToggle(token)
		require.NoError(t, err, "token %q", token)
		assert.False(t, value, "token %q", token)
	}

	_, err := ParseToggle("maybe")
	assert.ErrorIs(t, err, ErrInvalidToggle)
}

func TestParseLength(t *testing.T) {
	length, err := ParseLength("5")
	require.NoError(t, err)
	assert.Equal(t, int64(5), length)

	length, err = ParseLength(" 0 ")
	require.NoError(t, err)
	assert.Equal(t, int64(0), length)

	_, err = ParseLength("-1")
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = ParseLength("five")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("filtered")
	require.NoError(t, err)
	assert.Equal(t, gatekeeper.ModeFiltered, mode)

	_, err = ParseMode("banana")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
