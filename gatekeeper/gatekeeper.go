package gatekeeper

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Mode is the per-chat top-level policy switch for join requests.
type Mode string

const (
	ModeAuto     Mode = "AUTO"     // approve everything
	ModeFiltered Mode = "FILTERED" // apply the filter rules
	ModeOff      Mode = "OFF"      // leave requests pending
)

func ParseMode(s string) (Mode, bool) {
	mode := Mode(strings.ToUpper(strings.TrimSpace(s)))
	return mode, mode.Valid()
}

func (m Mode) Valid() bool {
	switch m {
	case ModeAuto, ModeFiltered, ModeOff:
		return true
	}
	return false
}

type Outcome string

const (
	OutcomeApprove Outcome = "APPROVE"
	OutcomeDecline Outcome = "DECLINE"
	OutcomeHold    Outcome = "HOLD"
)

type Reason string

const (
	ReasonNone             Reason = "NONE"
	ReasonModeOff          Reason = "MODE_OFF"
	ReasonIsBot            Reason = "IS_BOT"
	ReasonNoUsername       Reason = "NO_USERNAME"
	ReasonUsernameTooShort Reason = "USERNAME_TOO_SHORT"
)

type (
	// Rules is the snapshot of a chat's configuration that Evaluate reads.
	Rules struct {
		Mode              Mode
		BlockBots         bool
		RequireUsername   bool
		MinUsernameLength int64
	}

	// JoinRequest carries the fields of a chat_join_request update that the
	// rules look at. It is built per update and discarded after evaluation.
	JoinRequest struct {
		ChatID    int64
		UserID    int64
		Username  string
		IsBot     bool
		Timestamp time.Time
	}

	Decision struct {
		Outcome Outcome
		Reason  Reason
	}
)

// Evaluate decides what to do with a join request. It is pure and
// deterministic; the first matching rule wins. The IsBot flag is trusted
// as delivered by Telegram, no own bot detection happens here.
func Evaluate(req JoinRequest, rules Rules) Decision {
	if rules.Mode == ModeOff {
		return Decision{Outcome: OutcomeHold, Reason: ReasonModeOff}
	}

	if rules.Mode == ModeFiltered {
		if rules.BlockBots && req.IsBot {
			return Decision{Outcome: OutcomeDecline, Reason: ReasonIsBot}
		}

		if rules.RequireUsername {
			if req.Username == "" {
				return Decision{Outcome: OutcomeDecline, Reason: ReasonNoUsername}
			}
			// Inclusive bound: a username of exactly MinUsernameLength passes.
			if int64(utf8.RuneCountInString(req.Username)) < rules.MinUsernameLength {
				return Decision{Outcome: OutcomeDecline, Reason: ReasonUsernameTooShort}
			}
		}
	}

	return Decision{Outcome: OutcomeApprove, Reason: ReasonNone}
}
