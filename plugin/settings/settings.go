package settings

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/model"
	"github.com/Brawl345/gatekeeper/plugin"
	"github.com/Brawl345/gatekeeper/utils"
	"github.com/rs/xid"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

var log = logger.New("settings")

type Plugin struct {
	settingsService model.ChatSettingsService
}

func New(settingsService model.ChatSettingsService) *Plugin {
	return &Plugin{
		settingsService: settingsService,
	}
}

func (*Plugin) Name() string {
	return "settings"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "settings",
			Description: "Konfiguration anzeigen",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/settings(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onSettings,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_mode(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: usage("/set_mode auto | filtered | off"),
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_mode(?:@%s)? (\S+)$`, botInfo.Username)),
			HandlerFunc: p.onSetMode,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_require_username(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: usage("/set_require_username an | aus"),
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_require_username(?:@%s)? (\S+)$`, botInfo.Username)),
			HandlerFunc: p.onSetRequireUsername,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_block_bots(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: usage("/set_block_bots an | aus"),
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_block_bots(?:@%s)? (\S+)$`, botInfo.Username)),
			HandlerFunc: p.onSetBlockBots,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_min_username_length(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: usage("/set_min_username_length <Zahl>"),
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/set_min_username_length(?:@%s)? (\S+)$`, botInfo.Username)),
			HandlerFunc: p.onSetMinUsernameLength,
			AdminOnly:   true,
		},
	}
}

func usage(text string) plugin.GobotHandlerFunc {
	return func(b *gotgbot.Bot, c plugin.GobotContext) error {
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("Verwendung: <code>%s</code>", utils.Escape(text)), utils.DefaultSendOptions)
		return err
	}
}

func (p *Plugin) onSettings(b *gotgbot.Bot, c plugin.GobotContext) error {
	settings, err := p.settingsService.GetSettings(c.EffectiveChat.Id)
	if err != nil {
		return p.replyError(b, c, err, "Failed to load settings")
	}

	_, err = c.EffectiveMessage.Reply(b, settings.Describe(), utils.DefaultSendOptions)
	return err
}

func (p *Plugin) onSetMode(b *gotgbot.Bot, c plugin.GobotContext) error {
	mode, err := model.ParseMode(c.Matches[1])
	if err != nil {
		_, err := c.EffectiveMessage.Reply(b, "❌ Ungültiger Modus. Erlaubt: <code>auto</code>, <code>filtered</code>, <code>off</code>", utils.DefaultSendOptions)
		return err
	}

	if err := p.settingsService.SetMode(c.EffectiveChat, mode); err != nil {
		return p.replyError(b, c, err, "Failed to set mode")
	}

	_, err = c.EffectiveMessage.Reply(b, fmt.Sprintf("✅ Modus geändert: <code>%s</code>", mode), utils.DefaultSendOptions)
	return err
}

func (p *Plugin) onSetRequireUsername(b *gotgbot.Bot, c plugin.GobotContext) error {
	enabled, err := model.ParseToggle(c.Matches[1])
	if err != nil {
		_, err := c.EffectiveMessage.Reply(b, "❌ Ungültiger Wert. Erlaubt: <code>an</code> oder <code>aus</code>", utils.DefaultSendOptions)
		return err
	}

	if err := p.settingsService.SetRequireUsername(c.EffectiveChat, enabled); err != nil {
		return p.replyError(b, c, err, "Failed to set require_username")
	}

	_, err = c.EffectiveMessage.Reply(b, fmt.Sprintf("✅ Username erforderlich: <code>%s</code>", anAus(enabled)), utils.DefaultSendOptions)
	return err
}

func (p *Plugin) onSetBlockBots(b *gotgbot.Bot, c plugin.GobotContext) error {
	enabled, err := model.ParseToggle(c.Matches[1])
	if err != nil {
		_, err := c.EffectiveMessage.Reply(b, "❌ Ungültiger Wert. Erlaubt: <code>an</code> oder <code>aus</code>", utils.DefaultSendOptions)
		return err
	}

	if err := p.settingsService.SetBlockBots(c.EffectiveChat, enabled); err != nil {
		return p.replyError(b, c, err, "Failed to set block_bots")
	}

	_, err = c.EffectiveMessage.Reply(b, fmt.Sprintf("✅ Bots blockieren: <code>%s</code>", anAus(enabled)), utils.DefaultSendOptions)
	return err
}

func (p *Plugin) onSetMinUsernameLength(b *gotgbot.Bot, c plugin.GobotContext) error {
	length, err := model.ParseLength(c.Matches[1])
	if err != nil {
		_, err := c.EffectiveMessage.Reply(b, "❌ Bitte eine Zahl ≥ 0 angeben.", utils.DefaultSendOptions)
		return err
	}

	if err := p.settingsService.SetMinUsernameLength(c.EffectiveChat, length); err != nil {
		if errors.Is(err, model.ErrInvalidLength) {
			_, err := c.EffectiveMessage.Reply(b, "❌ Bitte eine Zahl ≥ 0 angeben.", utils.DefaultSendOptions)
			return err
		}
		return p.replyError(b, c, err, "Failed to set min_username_length")
	}

	_, err = c.EffectiveMessage.Reply(b, fmt.Sprintf("✅ Mindestlänge für Usernames: <code>%d</code>", length), utils.DefaultSendOptions)
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

func anAus(b bool) string {
	if b {
		return "AN"
	}
	return "AUS"
}
