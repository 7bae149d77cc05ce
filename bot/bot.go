package bot

import (
	"time"

	"github.com/Brawl345/gatekeeper/logger"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

var log = logger.New("bot")

func New(token string) (*gotgbot.Bot, error) {
	return gotgbot.NewBot(token, &gotgbot.BotOpts{
		BotClient: &gotgbot.BaseBotClient{
			DefaultRequestOpts: &gotgbot.RequestOpts{
				Timeout: 15 * time.Second,
			},
		},
	})
}

// Run starts long polling and blocks until the updater is stopped.
func Run(b *gotgbot.Bot, processor *Processor) error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Processor: processor,
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Err(err).Msg("Error while handling update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	err := updater.StartPolling(b, &ext.PollingOpts{
		DropPendingUpdates: false,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			AllowedUpdates: []string{"message", "edited_message", "chat_join_request"},
			Timeout:        10,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 15 * time.Second,
			},
		},
	})
	if err != nil {
		return err
	}

	log.Info().Msgf("Logged in as @%s (%d)", b.User.Username, b.User.Id)
	updater.Idle()

	return nil
}
