package testjoin

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/model"
	"github.com/Brawl345/gatekeeper/plugin"
	"github.com/Brawl345/gatekeeper/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/rs/xid"
)

var log = logger.New("testjoin")

// Plugin simulates join-request handling. It runs the same Evaluate
// function as the live handler, but never calls the real approve/decline
// API, so the simulation cannot drift from the production behavior.
type Plugin struct {
	settingsService model.ChatSettingsService
}

func New(settingsService model.ChatSettingsService) *Plugin {
	return &Plugin{
		settingsService: settingsService,
	}
}

func (*Plugin) Name() string {
	return "testjoin"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return nil // Admin-only plugin
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/test_join(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onTestJoin,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/test_join(?:@%s)? (\S+)$`, botInfo.Username)),
			HandlerFunc: p.onTestJoin,
			AdminOnly:   true,
		},
	}
}

func (p *Plugin) onTestJoin(b *gotgbot.Bot, c plugin.GobotContext) error {
	settings, err := p.settingsService.GetSettings(c.EffectiveChat.Id)
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("chat_id", c.EffectiveChat.Id).
			Msg("Failed to load settings")
		_, replyErr := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Es ist ein Fehler aufgetreten.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions)
		return replyErr
	}

	// Default: simulate the calling user. "/test_join bot" simulates a
	// bot account, any other argument is taken as the username.
	request := gatekeeper.JoinRequest{
		ChatID:    c.EffectiveChat.Id,
		UserID:    c.EffectiveUser.Id,
		Username:  c.EffectiveUser.Username,
		IsBot:     false,
		Timestamp: time.Now(),
	}
	if len(c.Matches) > 1 {
		arg := c.Matches[1]
		if strings.EqualFold(arg, "bot") {
			request.IsBot = true
			request.Username = ""
		} else {
			request.Username = strings.TrimPrefix(arg, "@")
		}
	}

	decision := gatekeeper.Evaluate(request, settings.Rules())

	var sb strings.Builder
	sb.WriteString("🧪 <b>Simulation</b>\n\n")
	if request.IsBot {
		sb.WriteString("Anfrage: <i>Bot-Account</i>\n")
	} else if request.Username == "" {
		sb.WriteString("Anfrage: <i>ohne Username</i>\n")
	} else {
		sb.WriteString(fmt.Sprintf("Anfrage: @%s\n", utils.Escape(request.Username)))
	}
	sb.WriteString(fmt.Sprintf("Ergebnis: <b>%s</b>\n", outcomeLabel(decision.Outcome)))
	if decision.Reason != gatekeeper.ReasonNone {
		sb.WriteString(fmt.Sprintf("Grund: <code>%s</code>\n", decision.Reason))
	}
	sb.WriteString("\n")
	sb.WriteString(settings.Describe())
	sb.WriteString("\n\n<i>Nur eine Simulation. Echte Anfragen folgen denselben Regeln.</i>")

	_, err = c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
	return err
}

func outcomeLabel(outcome gatekeeper.Outcome) string {
	switch outcome {
	case gatekeeper.OutcomeApprove:
		return "✅ Annehmen"
	case gatekeeper.OutcomeDecline:
		return "❌ Ablehnen"
	case gatekeeper.OutcomeHold:
		return "⏸ Zurückstellen"
	default:
		return string(outcome)
	}
}
