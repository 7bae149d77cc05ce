package gatekeeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		input string
		mode  Mode
		ok    bool
	}{
		{"auto", ModeAuto, true},
		{"AUTO", ModeAuto, true},
		{" Filtered ", ModeFiltered, true},
		{"off", ModeOff, true},
		{"", "", false},
		{"banana", "", false},
	}

	for _, tc := range cases {
		mode, ok := ParseMode(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		if tc.ok {
			assert.Equal(t, tc.mode, mode, "input %q", tc.input)
		}
	}
}

func TestEvaluate_AutoApprovesEverything(t *testing.T) {
	rules := Rules{Mode: ModeAuto, BlockBots: true, RequireUsername: true, MinUsernameLength: 99}

	for _, req := range []JoinRequest{
		{UserID: 1},
		{UserID: 2, IsBot: true},
		{UserID: 3, Username: "x"},
	} {
		decision := Evaluate(req, rules)
		assert.Equal(t, OutcomeApprove, decision.Outcome)
		assert.Equal(t, ReasonNone, decision.Reason)
	}
}

func TestEvaluate_OffHoldsEverything(t *testing.T) {
	rules := Rules{Mode: ModeOff}

	for _, req := range []JoinRequest{
		{UserID: 1},
		{UserID: 2, IsBot: true},
		{UserID: 3, Username: "perfectly_fine"},
	} {
		decision := Evaluate(req, rules)
		assert.Equal(t, OutcomeHold, decision.Outcome)
		assert.Equal(t, ReasonModeOff, decision.Reason)
	}
}

func TestEvaluate_Filtered(t *testing.T) {
	cases := []struct {
		name    string
		rules   Rules
		req     JoinRequest
		outcome Outcome
		reason  Reason
	}{
		{
			name:    "bot blocked before username rules",
			rules:   Rules{Mode: ModeFiltered, BlockBots: true, RequireUsername: true, MinUsernameLength: 5},
			req:     JoinRequest{IsBot: true, Username: ""},
			outcome: OutcomeDecline,
			reason:  ReasonIsBot,
		},
		{
			name:    "bots pass when block is off",
			rules:   Rules{Mode: ModeFiltered, BlockBots: false},
			req:     JoinRequest{IsBot: true},
			outcome: OutcomeApprove,
			reason:  ReasonNone,
		},
		{
			name:    "missing username",
			rules:   Rules{Mode: ModeFiltered, RequireUsername: true},
			req:     JoinRequest{Username: ""},
			outcome: OutcomeDecline,
			reason:  ReasonNoUsername,
		},
		{
			name:    "missing username allowed when not required",
			rules:   Rules{Mode: ModeFiltered, RequireUsername: false, MinUsernameLength: 5},
			req:     JoinRequest{Username: ""},
			outcome: OutcomeApprove,
			reason:  ReasonNone,
		},
		{
			name:    "username too short",
			rules:   Rules{Mode: ModeFiltered, RequireUsername: true, MinUsernameLength: 5},
			req:     JoinRequest{Username: "abcd"},
			outcome: OutcomeDecline,
			reason:  ReasonUsernameTooShort,
		},
		{
			name:    "exact minimum length passes",
			rules:   Rules{Mode: ModeFiltered, RequireUsername: true, MinUsernameLength: 5},
			req:     JoinRequest{Username: "abcde"},
			outcome: OutcomeApprove,
			reason:  ReasonNone,
		},
		{
			name:    "length counts runes not bytes",
			rules:   Rules{Mode: ModeFiltered, RequireUsername: true, MinUsernameLength: 4},
			req:     JoinRequest{Username: "日本語х"},
			outcome: OutcomeApprove,
			reason:  ReasonNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := Evaluate(tc.req, tc.rules)
			assert.Equal(t, tc.outcome, decision.Outcome)
			assert.Equal(t, tc.reason, decision.Reason)
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	rules := Rules{Mode: ModeFiltered, BlockBots: true, RequireUsername: true, MinUsernameLength: 3}
	req := JoinRequest{ChatID: 1, UserID: 2, Username: "ab"}

	first := Evaluate(req, rules)
	second := Evaluate(req, rules)
	assert.Equal(t, first, second)
}

func TestEvaluate_Scenarios(t *testing.T) {
	filtered := Rules{Mode: ModeFiltered, BlockBots: true, RequireUsername: true, MinUsernameLength: 3}

	decision := Evaluate(JoinRequest{Username: "ab"}, filtered)
	assert.Equal(t, Decision{Outcome: OutcomeDecline, Reason: ReasonUsernameTooShort}, decision)

	decision = Evaluate(JoinRequest{Username: "abc"}, filtered)
	assert.Equal(t, Decision{Outcome: OutcomeApprove, Reason: ReasonNone}, decision)

	decision = Evaluate(JoinRequest{IsBot: true}, Rules{Mode: ModeAuto})
	assert.Equal(t, Decision{Outcome: OutcomeApprove, Reason: ReasonNone}, decision)

	decision = Evaluate(JoinRequest{Username: "whatever"}, Rules{Mode: ModeOff})
	assert.Equal(t, Decision{Outcome: OutcomeHold, Reason: ReasonModeOff}, decision)
}
