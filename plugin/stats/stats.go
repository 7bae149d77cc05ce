package stats

import (
	"fmt"
	"regexp"

	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/model"
	"github.com/Brawl345/gatekeeper/plugin"
	"github.com/Brawl345/gatekeeper/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/rs/xid"
)

var log = logger.New("stats")

type Plugin struct {
	settingsService model.ChatSettingsService
	statsService    model.StatsService
}

func New(settingsService model.ChatSettingsService, statsService model.StatsService) *Plugin {
	return &Plugin{
		settingsService: settingsService,
		statsService:    statsService,
	}
}

func (*Plugin) Name() string {
	return "stats"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "status",
			Description: "Modus und Statistik anzeigen",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/status(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onStatus,
		},
	}
}

func (p *Plugin) onStatus(b *gotgbot.Bot, c plugin.GobotContext) error {
	settings, err := p.settingsService.GetSettings(c.EffectiveChat.Id)
	if err != nil {
		return p.replyError(b, c, err, "Failed to load settings")
	}

	snapshot, err := p.statsService.Snapshot(c.EffectiveChat.Id)
	if err != nil {
		return p.replyError(b, c, err, "Failed to load stats")
	}

	_, err = c.EffectiveMessage.Reply(b, snapshot.Describe(settings.Mode), utils.DefaultSendOptions)
	return err
}

func (p *Plugin) replyError(b *gotgbot.Bot, c plugin.GobotContext, err error, msg string) error {
	guid := xid.New().String()
	log.Err(err).
		Str("guid", guid).
		Int64("chat_id", c.EffectiveChat.Id).
		Msg(msg)
	_, replyErr := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Es ist ein Fehler aufgetreten.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions)
	return replyErr
}
