package about

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/plugin"
	"github.com/Brawl345/gatekeeper/utils"
	"github.com/Brawl345/gatekeeper/utils/tgUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

var log = logger.New("about")

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (*Plugin) Name() string {
	return "about"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "help",
			Description: "Befehle anzeigen",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/start(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: onStart,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/help(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: onHelp,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/about(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: onAbout,
		},
	}
}

func onStart(b *gotgbot.Bot, c plugin.GobotContext) error {
	if tgUtils.IsPrivate(c.EffectiveMessage) {
		var sb strings.Builder
		sb.WriteString("👋 <b>Hallo!</b>\n\n")
		sb.WriteString("Ich verwalte Beitrittsanfragen für Gruppen und Kanäle.\n\n")
		sb.WriteString("So nutzt du mich:\n")
		sb.WriteString("1️⃣ Füge mich deiner Gruppe oder deinem Kanal hinzu\n")
		sb.WriteString("2️⃣ Ernenne mich zum Administrator\n")
		sb.WriteString("3️⃣ Aktiviere Beitrittsanfragen („Beitritt auf Anfrage“)\n")
		sb.WriteString("4️⃣ Nutze /settings im Chat (nur Admins)\n\n")
		sb.WriteString("/help zeigt alle Befehle.")

		if tgUtils.IsGlobalAdmin(c.EffectiveUser) {
			sb.WriteString("\n\nDu bist als globaler Admin eingetragen.")
		}

		_, err := c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
		return err
	}

	_, err := c.EffectiveMessage.Reply(b,
		"✅ Ich bin in diesem Chat aktiv.\n\nNur Admins können mich konfigurieren.\n/settings zeigt die aktuelle Konfiguration.",
		utils.DefaultSendOptions)
	return err
}

func onHelp(b *gotgbot.Bot, c plugin.GobotContext) error {
	var sb strings.Builder
	sb.WriteString("🤖 <b>Befehle</b>\n\n")
	sb.WriteString("/status - Modus und Statistik anzeigen\n")
	sb.WriteString("/settings - Konfiguration anzeigen\n")
	sb.WriteString("/set_mode <code>auto|filtered|off</code> - Modus ändern\n")
	sb.WriteString("/set_require_username <code>an|aus</code>\n")
	sb.WriteString("/set_block_bots <code>an|aus</code>\n")
	sb.WriteString("/set_min_username_length <code>&lt;Zahl&gt;</code>\n")
	sb.WriteString("/test_join - Beitrittsanfrage simulieren (ohne echte Aktion)\n")

	_, err := c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
	return err
}

func onAbout(b *gotgbot.Bot, c plugin.GobotContext) error {
	versionInfo, err := utils.ReadVersionInfo()
	if err != nil {
		log.Err(err).Msg("Failed to read build info")
		_, err := c.EffectiveMessage.Reply(b, "Gatekeeper", utils.DefaultSendOptions)
		return err
	}

	text := fmt.Sprintf("<b>Gatekeeper</b>\n<code>%s</code>\n<i>Committed on %s</i>",
		versionInfo.Revision,
		versionInfo.LastCommit.Format("02.01.2006 15:04:05"),
	)
	if versionInfo.DirtyBuild {
		text += " (dirty)"
	}

	_, err = c.EffectiveMessage.Reply(b, text, utils.DefaultSendOptions)
	return err
}
