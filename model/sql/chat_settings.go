package sql

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/model"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/jmoiron/sqlx"
)

type chatSettingsService struct {
	*sqlx.DB
	log    *logger.Logger
	sqlite bool
}

func NewChatSettingsService(db *sqlx.DB) *chatSettingsService {
	return &chatSettingsService{
		DB:     db,
		log:    logger.New("chatSettingsService"),
		sqlite: isSQLite(db),
	}
}

func (db *chatSettingsService) GetSettings(chatID int64) (*model.ChatSettings, error) {
	const query = `SELECT chat_id, title, mode, block_bots, require_username, min_username_length
    FROM chats WHERE chat_id = ?`

	var settings model.ChatSettings
	err := db.Get(&settings, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		// Absent rows are not an error, the chat just runs on defaults.
		return model.DefaultChatSettings(chatID), nil
	}
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

func (db *chatSettingsService) SetMode(chat *gotgbot.Chat, mode gatekeeper.Mode) error {
	if !mode.Valid() {
		return model.ErrInvalidMode
	}
	return db.upsertColumn(chat, "mode", string(mode))
}

func (db *chatSettingsService) SetBlockBots(chat *gotgbot.Chat, enabled bool) error {
	return db.upsertColumn(chat, "block_bots", enabled)
}

func (db *chatSettingsService) SetRequireUsername(chat *gotgbot.Chat, enabled bool) error {
	return db.upsertColumn(chat, "require_username", enabled)
}

func (db *chatSettingsService) SetMinUsernameLength(chat *gotgbot.Chat, length int64) error {
	if length < 0 {
		return model.ErrInvalidLength
	}
	return db.upsertColumn(chat, "min_username_length", length)
}

// upsertColumn writes one settings column, materializing the row with its
// defaults on first write. Column names are compile-time constants.
func (db *chatSettingsService) upsertColumn(chat *gotgbot.Chat, column string, value any) error {
	var query string
	if db.sqlite {
		query = fmt.Sprintf(`INSERT INTO
    chats (chat_id, title, %[1]s)
    VALUES (?, ?, ?)
    ON CONFLICT (chat_id) DO UPDATE SET title = excluded.title, %[1]s = excluded.%[1]s`, column)
	} else {
		query = fmt.Sprintf(`INSERT INTO
    chats (chat_id, title, %[1]s)
    VALUES (?, ?, ?)
    ON DUPLICATE KEY UPDATE title = VALUES(title), %[1]s = VALUES(%[1]s)`, column)
	}

	_, err := db.Exec(query, chat.Id, NewNullString(chat.Title), value)
	return err
}
