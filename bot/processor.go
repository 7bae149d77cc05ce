package bot

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Brawl345/gatekeeper/plugin"
	"github.com/Brawl345/gatekeeper/utils"
	"github.com/Brawl345/gatekeeper/utils/tgUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/rs/xid"
)

type Processor struct {
	gate    *GateService
	plugins []plugin.Plugin
}

func NewProcessor(gate *GateService, plugins []plugin.Plugin) *Processor {
	return &Processor{
		gate:    gate,
		plugins: plugins,
	}
}

func (p *Processor) ProcessUpdate(d *ext.Dispatcher, b *gotgbot.Bot, ctx *ext.Context) error {
	if ctx.ChatJoinRequest != nil {
		return p.gate.HandleJoinRequest(b, ctx.ChatJoinRequest)
	}

	if ctx.Message != nil || ctx.EditedMessage != nil {
		return p.onMessage(b, ctx)
	}

	return nil
}

func (p *Processor) onMessage(b *gotgbot.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	if msg == nil || ctx.EffectiveChat == nil || ctx.EffectiveUser == nil {
		return nil
	}
	isEdited := msg.EditDate != 0

	text := msg.Caption
	if text == "" {
		text = msg.Text
	}
	if text == "" {
		return nil
	}

	for _, plg := range p.plugins {
		plg := plg
		for _, h := range plg.Handlers(&b.User) {
			h := h

			handler, ok := h.(*plugin.CommandHandler)
			if !ok {
				continue
			}

			if isEdited && !handler.HandleEdits {
				continue
			}

			if !tgUtils.FromGroup(msg) && handler.GroupOnly {
				continue
			}

			command, ok := handler.Command().(*regexp.Regexp)
			if !ok {
				panic("Unsupported command handler type!! Must be regexp.Regexp!")
			}

			matches := command.FindStringSubmatch(text)
			if len(matches) == 0 {
				continue
			}

			log.Debug().
				Str("plugin", plg.Name()).
				Str("trigger", command.String()).
				Msg("Matched plugin")

			namedMatches := make(map[string]string)
			for i, name := range matches {
				namedMatches[command.SubexpNames()[i]] = name
			}

			go func() {
				defer func() {
					if r := recover(); r != nil {
						guid := xid.New().String()
						log.Err(errors.New("panic")).
							Str("guid", guid).
							Int64("chat_id", ctx.EffectiveChat.Id).
							Int64("user_id", ctx.EffectiveUser.Id).
							Str("text", text).
							Str("component", plg.Name()).
							Msgf("%s", r)
						_, _ = ctx.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Es ist ein Fehler aufgetreten.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions)
					}
				}()

				if handler.AdminOnly && !isAuthorized(b, ctx.EffectiveChat, ctx.EffectiveUser) {
					log.Debug().
						Int64("chat_id", ctx.EffectiveChat.Id).
						Int64("user_id", ctx.EffectiveUser.Id).
						Msg("User is not an admin")
					_, _ = ctx.EffectiveMessage.Reply(b, "❌ Dieser Befehl ist nur für Admins.", utils.DefaultSendOptions)
					return
				}

				err := handler.Run(b, plugin.GobotContext{
					Context:      ctx,
					Matches:      matches,
					NamedMatches: namedMatches,
				})
				if err != nil {
					guid := xid.New().String()
					log.Err(err).
						Str("guid", guid).
						Int64("chat_id", ctx.EffectiveChat.Id).
						Int64("user_id", ctx.EffectiveUser.Id).
						Str("text", text).
						Str("component", plg.Name()).
						Send()
					_, _ = ctx.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Es ist ein Fehler aufgetreten.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions)
				}
			}()
		}
	}

	return nil
}

// isAuthorized grants mutating commands to the global admin and, in
// groups/channels, to the chat's administrators. In private chats only the
// global admin counts.
func isAuthorized(b *gotgbot.Bot, chat *gotgbot.Chat, user *gotgbot.User) bool {
	if tgUtils.IsGlobalAdmin(user) {
		return true
	}

	if chat.Type == gotgbot.ChatTypePrivate {
		return false
	}

	return tgUtils.IsChatAdmin(b, chat.Id, user.Id)
}
