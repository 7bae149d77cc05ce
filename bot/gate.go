package bot

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/metrics"
	"github.com/Brawl345/gatekeeper/model"
	"github.com/Brawl345/gatekeeper/utils"
	"github.com/Brawl345/gatekeeper/utils/tgUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/rs/xid"
	"github.com/sosodev/duration"
)

const notificationLimit = 5

// GateService receives join requests, evaluates them against the chat's
// rules and carries out the decision.
type GateService struct {
	settingsService model.ChatSettingsService
	statsService    model.StatsService
	notifyGuard     *floodGuard
	log             *logger.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewGateService(settingsService model.ChatSettingsService, statsService model.StatsService) *GateService {
	gateLog := logger.New("gate")

	window := defaultNotifyWindow
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_WINDOW")); raw != "" {
		parsed, err := duration.Parse(raw)
		if err != nil {
			gateLog.Warn().
				Err(err).
				Str("NOTIFY_WINDOW", raw).
				Msg("Invalid NOTIFY_WINDOW, using default")
		} else {
			window = parsed.ToTimeDuration()
		}
	}

	return &GateService{
		settingsService: settingsService,
		statsService:    statsService,
		notifyGuard:     newFloodGuard(notificationLimit, window),
		log:             gateLog,
		locks:           make(map[int64]*sync.Mutex),
	}
}

// chatLock serializes join-request handling per chat. Different chats do
// not block one another.
func (s *GateService) chatLock(chatID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[chatID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[chatID] = lock
	}
	return lock
}

func (s *GateService) HandleJoinRequest(b *gotgbot.Bot, request *gotgbot.ChatJoinRequest) error {
	lock := s.chatLock(request.Chat.Id)
	lock.Lock()
	defer lock.Unlock()

	settings, err := s.settingsService.GetSettings(request.Chat.Id)
	if err != nil {
		metrics.StorageErrors.WithLabelValues("get_settings").Inc()
		return fmt.Errorf("failed to load settings for chat %d: %w", request.Chat.Id, err)
	}

	decision := gatekeeper.Evaluate(gatekeeper.JoinRequest{
		ChatID:    request.Chat.Id,
		UserID:    request.From.Id,
		Username:  request.From.Username,
		IsBot:     request.From.IsBot,
		Timestamp: utils.TimestampToTime(request.Date),
	}, settings.Rules())

	metrics.CountDecision(decision)
	s.log.Info().
		Int64("chat_id", request.Chat.Id).
		Int64("user_id", request.From.Id).
		Str("username", request.From.Username).
		Bool("is_bot", request.From.IsBot).
		Str("outcome", string(decision.Outcome)).
		Str("reason", string(decision.Reason)).
		Msg("Join request evaluated")

	switch decision.Outcome {
	case gatekeeper.OutcomeApprove:
		if _, err := b.ApproveChatJoinRequest(request.Chat.Id, request.From.Id, nil); err != nil {
			metrics.TelegramErrors.WithLabelValues("approve").Inc()
			return fmt.Errorf("failed to approve join request: %w", err)
		}
		s.record(request.Chat.Id, decision.Outcome)
		s.sendWelcome(b, request)
	case gatekeeper.OutcomeDecline:
		if _, err := b.DeclineChatJoinRequest(request.Chat.Id, request.From.Id, nil); err != nil {
			metrics.TelegramErrors.WithLabelValues("decline").Inc()
			return fmt.Errorf("failed to decline join request: %w", err)
		}
		s.record(request.Chat.Id, decision.Outcome)
		s.notifyDeclined(b, request, settings, decision)
	case gatekeeper.OutcomeHold:
		// No platform call, the request stays pending for manual review.
		s.record(request.Chat.Id, decision.Outcome)
		s.notifyPending(b, request)
	}

	return nil
}

// record must not fail the already executed platform action, errors are
// logged and counted only.
func (s *GateService) record(chatID int64, outcome gatekeeper.Outcome) {
	if err := s.statsService.Record(chatID, outcome); err != nil {
		metrics.StorageErrors.WithLabelValues("record").Inc()
		guid := xid.New().String()
		s.log.Err(err).
			Str("guid", guid).
			Int64("chat_id", chatID).
			Str("outcome", string(outcome)).
			Msg("Failed to record stats")
	}
}

func (s *GateService) sendWelcome(b *gotgbot.Bot, request *gotgbot.ChatJoinRequest) {
	chatLabel := request.Chat.Title
	if chatLabel == "" {
		chatLabel = "diesem Chat"
	}

	text := fmt.Sprintf(
		"✅ Deine Beitrittsanfrage für <b>%s</b> (%s) wurde angenommen.\n\nBitte lies die Regeln und respektiere die anderen Mitglieder.",
		utils.Escape(chatLabel),
		tgUtils.ChatTypeLabel(&request.Chat),
	)

	_, err := b.SendMessage(request.From.Id, text, utils.DefaultSendOptions)
	if err != nil {
		if strings.Contains(err.Error(), tgUtils.ErrNotStartedByUser) ||
			strings.Contains(err.Error(), tgUtils.ErrBlockedByUser) {
			s.log.Debug().
				Int64("user_id", request.From.Id).
				Msg("Could not send welcome message")
			return
		}
		metrics.TelegramErrors.WithLabelValues("welcome").Inc()
		s.log.Warn().
			Err(err).
			Int64("user_id", request.From.Id).
			Msg("Could not send welcome message")
	}
}

func (s *GateService) notifyDeclined(b *gotgbot.Bot, request *gotgbot.ChatJoinRequest, settings *model.ChatSettings, decision gatekeeper.Decision) {
	text := fmt.Sprintf(
		"❌ Beitrittsanfrage in <b>%s</b> (<code>%d</code>) abgelehnt.\nNutzer: %s (<code>%d</code>)\nGrund: %s",
		utils.Escape(request.Chat.Title),
		request.Chat.Id,
		mention(&request.From),
		request.From.Id,
		reasonText(decision.Reason, settings),
	)
	s.notifyAdmin(b, request.Chat.Id, text)
}

func (s *GateService) notifyPending(b *gotgbot.Bot, request *gotgbot.ChatJoinRequest) {
	text := fmt.Sprintf(
		"ℹ️ Beitrittsanfrage in <b>%s</b> (<code>%d</code>) wartet.\nNutzer: %s (<code>%d</code>)\nDer Modus ist OFF, es wird nichts automatisch angenommen.",
		utils.Escape(request.Chat.Title),
		request.Chat.Id,
		mention(&request.From),
		request.From.Id,
	)
	s.notifyAdmin(b, request.Chat.Id, text)
}

func (s *GateService) notifyAdmin(b *gotgbot.Bot, chatID int64, text string) {
	adminID := tgUtils.GlobalAdminID()
	if adminID == 0 {
		return
	}

	if !s.notifyGuard.Allow(chatID) {
		metrics.SuppressedNotifications.Inc()
		s.log.Debug().
			Int64("chat_id", chatID).
			Msg("Admin notification suppressed by flood guard")
		return
	}

	if _, err := b.SendMessage(adminID, text, utils.DefaultSendOptions); err != nil {
		metrics.TelegramErrors.WithLabelValues("notify").Inc()
		s.log.Warn().
			Err(err).
			Int64("chat_id", chatID).
			Msg("Could not notify admin")
	}
}

func mention(user *gotgbot.User) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`,
		user.Id,
		utils.Escape(utils.FullName(user.FirstName, user.LastName)),
	)
}

func reasonText(reason gatekeeper.Reason, settings *model.ChatSettings) string {
	switch reason {
	case gatekeeper.ReasonIsBot:
		return "Der Account ist ein Bot."
	case gatekeeper.ReasonNoUsername:
		return "Es ist kein Username gesetzt."
	case gatekeeper.ReasonUsernameTooShort:
		return fmt.Sprintf("Der Username ist zu kurz (Minimum: %d Zeichen).", settings.MinUsernameLength)
	default:
		return "Durch die Regeln gefiltert."
	}
}
