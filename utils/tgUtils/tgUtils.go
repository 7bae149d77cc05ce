package tgUtils

import (
	"os"
	"strconv"

	"github.com/Brawl345/gatekeeper/logger"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

const (
	ErrBlockedByUser     = "Forbidden: bot was blocked by the user"
	ErrNotStartedByUser  = "Forbidden: bot can't initiate conversation with a user"
	ErrUserIsDeactivated = "Forbidden: user is deactivated"
)

var log = logger.New("tgUtils")

// GlobalAdminID reads the designated operator from the ADMIN_ID env var.
// Returns 0 when unset or unparseable.
func GlobalAdminID() int64 {
	adminId, _ := strconv.ParseInt(os.Getenv("ADMIN_ID"), 10, 64)
	return adminId
}

func IsGlobalAdmin(user *gotgbot.User) bool {
	adminId := GlobalAdminID()
	return adminId != 0 && adminId == user.Id
}

// IsChatAdmin asks Telegram whether the user administers the chat.
func IsChatAdmin(b *gotgbot.Bot, chatID int64, userID int64) bool {
	admins, err := b.GetChatAdministrators(chatID, nil)
	if err != nil {
		log.Err(err).
			Int64("chat_id", chatID).
			Msg("Failed to get chat administrators")
		return false
	}

	for _, admin := range admins {
		if admin.MergeChatMember().User.Id == userID {
			return true
		}
	}

	return false
}

func FromGroup(message gotgbot.MaybeInaccessibleMessage) bool {
	return message.GetChat().Type == gotgbot.ChatTypeGroup || message.GetChat().Type == gotgbot.ChatTypeSupergroup
}

func IsPrivate(message *gotgbot.Message) bool {
	return message.Chat.Type == gotgbot.ChatTypePrivate
}

// ChatTypeLabel returns the German label used in user-facing texts.
func ChatTypeLabel(chat *gotgbot.Chat) string {
	switch chat.Type {
	case gotgbot.ChatTypeGroup, gotgbot.ChatTypeSupergroup:
		return "Gruppe"
	case gotgbot.ChatTypeChannel:
		return "Kanal"
	default:
		return "Chat"
	}
}
