package model

import (
	"fmt"
	"strings"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/Brawl345/gatekeeper/utils"
)

type (
	StatsService interface {
		// Record increments the counter matching the outcome for the
		// current day. The row is created lazily, counters never decrease.
		Record(chatID int64, outcome gatekeeper.Outcome) error
		Snapshot(chatID int64) (*StatsSnapshot, error)
	}

	StatsSnapshot struct {
		ApprovedToday int64
		DeclinedToday int64
		HeldToday     int64
		ApprovedTotal int64
		DeclinedTotal int64
		HeldTotal     int64
	}
)

func (s *StatsSnapshot) TotalToday() int64 {
	return s.ApprovedToday + s.DeclinedToday + s.HeldToday
}

func (s *StatsSnapshot) TotalAllTime() int64 {
	return s.ApprovedTotal + s.DeclinedTotal + s.HeldTotal
}

// Describe renders the snapshot for the /status command (HTML).
func (s *StatsSnapshot) Describe(mode gatekeeper.Mode) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Status</b>\n\n")
	sb.WriteString(fmt.Sprintf("Modus: <code>%s</code>\n\n", mode))
	sb.WriteString(fmt.Sprintf("Heute angenommen: <code>%s</code>\n", utils.FormatThousand(s.ApprovedToday)))
	sb.WriteString(fmt.Sprintf("Heute abgelehnt: <code>%s</code>\n", utils.FormatThousand(s.DeclinedToday)))
	sb.WriteString(fmt.Sprintf("Heute zurückgestellt: <code>%s</code>\n", utils.FormatThousand(s.HeldToday)))
	sb.WriteString(fmt.Sprintf("Insgesamt angenommen: <code>%s</code>\n", utils.FormatThousand(s.ApprovedTotal)))
	sb.WriteString(fmt.Sprintf("Insgesamt abgelehnt: <code>%s</code>\n", utils.FormatThousand(s.DeclinedTotal)))
	sb.WriteString(fmt.Sprintf("Insgesamt zurückgestellt: <code>%s</code>", utils.FormatThousand(s.HeldTotal)))
	return sb.String()
}
