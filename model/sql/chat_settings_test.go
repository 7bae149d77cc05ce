package sql

import (
	"testing"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/Brawl345/gatekeeper/model"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChat = &gotgbot.Chat{
	Id:    -1001234,
	Title: "Testgruppe",
	Type:  gotgbot.ChatTypeSupergroup,
}

func TestChatSettingsService_GetSettings_Defaults(t *testing.T) {
	service := NewChatSettingsService(testDB(t))

	settings, err := service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultChatSettings(testChat.Id), settings)

	// Reading defaults must not materialize a row, and stay idempotent.
	again, err := service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, settings, again)
}

func TestChatSettingsService_SetMode(t *testing.T) {
	service := NewChatSettingsService(testDB(t))

	require.NoError(t, service.SetMode(testChat, gatekeeper.ModeFiltered))

	settings, err := service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, gatekeeper.ModeFiltered, settings.Mode)
	assert.Equal(t, "Testgruppe", settings.Title.String)

	// Unset fields keep their defaults after the first write.
	assert.True(t, settings.BlockBots)
	assert.False(t, settings.RequireUsername)
}

func TestChatSettingsService_SetMode_Invalid(t *testing.T) {
	service := NewChatSettingsService(testDB(t))

	require.NoError(t, service.SetMode(testChat, gatekeeper.ModeOff))

	err := service.SetMode(testChat, gatekeeper.Mode("BANANA"))
	assert.ErrorIs(t, err, model.ErrInvalidMode)

	// The failed write must not touch the stored value.
	settings, err := service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, gatekeeper.ModeOff, settings.Mode)
}

func TestChatSettingsService_Toggles(t *testing.T) {
	service := NewChatSettingsService(testDB(t))

	require.NoError(t, service.SetBlockBots(testChat, false))
	require.NoError(t, service.SetRequireUsername(testChat, true))

	settings, err := service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.False(t, settings.BlockBots)
	assert.True(t, settings.RequireUsername)
}

func TestChatSettingsService_SetMinUsernameLength(t *testing.T) {
	service := NewChatSettingsService(testDB(t))

	require.NoError(t, service.SetMinUsernameLength(testChat, 5))

	settings, err := service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), settings.MinUsernameLength)

	err = service.SetMinUsernameLength(testChat, -1)
	assert.ErrorIs(t, err, model.ErrInvalidLength)

	settings, err = service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), settings.MinUsernameLength)
}

func TestChatSettingsService_IsolatedPerChat(t *testing.T) {
	service := NewChatSettingsService(testDB(t))

	otherChat := &gotgbot.Chat{Id: -1005678, Title: "Andere Gruppe", Type: gotgbot.ChatTypeSupergroup}
	require.NoError(t, service.SetMode(testChat, gatekeeper.ModeOff))
	require.NoError(t, service.SetMode(otherChat, gatekeeper.ModeFiltered))

	settings, err := service.GetSettings(testChat.Id)
	require.NoError(t, err)
	assert.Equal(t, gatekeeper.ModeOff, settings.Mode)

	settings, err = service.GetSettings(otherChat.Id)
	require.NoError(t, err)
	assert.Equal(t, gatekeeper.ModeFiltered, settings.Mode)
}
