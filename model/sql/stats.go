package sql

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/model"
	"github.com/jmoiron/sqlx"
)

type statsService struct {
	*sqlx.DB
	log    *logger.Logger
	sqlite bool
}

func NewStatsService(db *sqlx.DB) *statsService {
	return &statsService{
		DB:     db,
		log:    logger.New("statsService"),
		sqlite: isSQLite(db),
	}
}

func currentDay() string {
	return time.Now().Format(time.DateOnly)
}

func (db *statsService) Record(chatID int64, outcome gatekeeper.Outcome) error {
	var column string
	switch outcome {
	case gatekeeper.OutcomeApprove:
		column = "approved"
	case gatekeeper.OutcomeDecline:
		column = "declined"
	case gatekeeper.OutcomeHold:
		column = "held"
	default:
		return fmt.Errorf("unknown outcome: %q", outcome)
	}

	// Single atomic upsert, concurrent handlers cannot lose increments.
	var query string
	if db.sqlite {
		query = fmt.Sprintf(`INSERT INTO
    join_stats (chat_id, day, %[1]s)
    VALUES (?, ?, 1)
    ON CONFLICT (chat_id, day) DO UPDATE SET %[1]s = %[1]s + 1`, column)
	} else {
		query = fmt.Sprintf(`INSERT INTO
    join_stats (chat_id, day, %[1]s)
    VALUES (?, ?, 1)
    ON DUPLICATE KEY UPDATE %[1]s = %[1]s + 1`, column)
	}

	_, err := db.Exec(query, chatID, currentDay())
	return err
}

func (db *statsService) Snapshot(chatID int64) (*model.StatsSnapshot, error) {
	const totalsQuery = `SELECT
    COALESCE(SUM(approved), 0) AS approved,
    COALESCE(SUM(declined), 0) AS declined,
    COALESCE(SUM(held), 0) AS held
    FROM join_stats WHERE chat_id = ?`

	const todayQuery = `SELECT approved, declined, held
    FROM join_stats WHERE chat_id = ? AND day = ?`

	var totals struct {
		Approved int64 `db:"approved"`
		Declined int64 `db:"declined"`
		Held     int64 `db:"held"`
	}
	if err := db.Get(&totals, totalsQuery, chatID); err != nil {
		return nil, err
	}

	var today struct {
		Approved int64 `db:"approved"`
		Declined int64 `db:"declined"`
		Held     int64 `db:"held"`
	}
	err := db.Get(&today, todayQuery, chatID, currentDay())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return &model.StatsSnapshot{
		ApprovedToday: today.Approved,
		DeclinedToday: today.Declined,
		HeldToday:     today.Held,
		ApprovedTotal: totals.Approved,
		DeclinedTotal: totals.Declined,
		HeldTotal:     totals.Held,
	}, nil
}
