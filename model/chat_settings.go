package model

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"golang.org/x/exp/slices"
)

type (
	ChatSettingsService interface {
		GetSettings(chatID int64) (*ChatSettings, error)
		SetMode(chat *gotgbot.Chat, mode gatekeeper.Mode) error
		SetBlockBots(chat *gotgbot.Chat, enabled bool) error
		SetRequireUsername(chat *gotgbot.Chat, enabled bool) error
		SetMinUsernameLength(chat *gotgbot.Chat, length int64) error
	}

	// ChatSettings is the gatekeeper configuration of a single chat.
	// A row is created lazily on the first write; reads of an absent row
	// yield DefaultChatSettings.
	ChatSettings struct {
		ChatID            int64           `db:"chat_id"`
		Title             sql.NullString  `db:"title"`
		Mode              gatekeeper.Mode `db:"mode"`
		BlockBots         bool            `db:"block_bots"`
		RequireUsername   bool            `db:"require_username"`
		MinUsernameLength int64           `db:"min_username_length"`
	}
)

func DefaultChatSettings(chatID int64) *ChatSettings {
	return &ChatSettings{
		ChatID:            chatID,
		Mode:              gatekeeper.ModeAuto,
		BlockBots:         true,
		RequireUsername:   false,
		MinUsernameLength: 0,
	}
}

func (s *ChatSettings) Rules() gatekeeper.Rules {
	return gatekeeper.Rules{
		Mode:              s.Mode,
		BlockBots:         s.BlockBots,
		RequireUsername:   s.RequireUsername,
		MinUsernameLength: s.MinUsernameLength,
	}
}

// Describe renders the settings for the /settings command (HTML).
func (s *ChatSettings) Describe() string {
	var sb strings.Builder
	sb.WriteString("⚙️ <b>Einstellungen</b>\n\n")
	sb.WriteString(fmt.Sprintf("Modus: <code>%s</code>\n", s.Mode))
	sb.WriteString(fmt.Sprintf("Bots blockieren: <code>%s</code>\n", onOff(s.BlockBots)))
	sb.WriteString(fmt.Sprintf("Username erforderlich: <code>%s</code>\n", onOff(s.RequireUsername)))
	sb.WriteString(fmt.Sprintf("Mindestlänge Username: <code>%d</code>", s.MinUsernameLength))
	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "AN"
	}
	return "AUS"
}

var (
	onTokens  = []string{"on", "an", "true", "yes", "y", "1"}
	offTokens = []string{"off", "aus", "false", "no", "n", "0"}
)

// ParseToggle maps the accepted on/off tokens to a boolean.
func ParseToggle(s string) (bool, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	if slices.Contains(onTokens, token) {
		return true, nil
	}
	if slices.Contains(offTokens, token) {
		return false, nil
	}
	return false, ErrInvalidToggle
}

// ParseLength parses a non-negative username length.
func ParseLength(s string) (int64, error) {
	length, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || length < 0 {
		return 0, ErrInvalidLength
	}
	return length, nil
}

// ParseMode wraps gatekeeper.ParseMode into the model error taxonomy.
func ParseMode(s string) (gatekeeper.Mode, error) {
	mode, ok := gatekeeper.ParseMode(s)
	if !ok {
		return "", ErrInvalidMode
	}
	return mode, nil
}
