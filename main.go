package main

import (
	"os"
	"strings"

	"github.com/Brawl345/gatekeeper/bot"
	"github.com/Brawl345/gatekeeper/logger"
	"github.com/Brawl345/gatekeeper/metrics"
	sqlmodel "github.com/Brawl345/gatekeeper/model/sql"
	"github.com/Brawl345/gatekeeper/plugin"
	"github.com/Brawl345/gatekeeper/plugin/about"
	"github.com/Brawl345/gatekeeper/plugin/settings"
	"github.com/Brawl345/gatekeeper/plugin/stats"
	"github.com/Brawl345/gatekeeper/plugin/testjoin"
	"github.com/Brawl345/gatekeeper/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	_ "github.com/joho/godotenv/autoload"
)

var log = logger.New("main")

func main() {
	versionInfo, err := utils.ReadVersionInfo()
	if err == nil {
		log.Info().Msgf("Gatekeeper-%s, %v", versionInfo.Revision, versionInfo.LastCommit)
	}

	db, err := sqlmodel.New()
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Send()
	}

	log.Info().Str("driver", db.DriverName()).Msg("Database connection established")

	settingsService := sqlmodel.NewChatSettingsService(db)
	statsService := sqlmodel.NewStatsService(db)

	b, err := bot.New(os.Getenv("BOT_TOKEN"))
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	if strings.TrimSpace(os.Getenv("ADMIN_ID")) == "" {
		log.Warn().Msg("ADMIN_ID is not set, admin notifications are disabled")
	}

	plugins := []plugin.Plugin{
		about.New(),
		settings.New(settingsService),
		stats.New(settingsService, statsService),
		testjoin.New(settingsService),
	}
	for i, plg := range plugins {
		log.Info().Msgf("Registering plugin (%d/%d): %s", i+1, len(plugins), plg.Name())
	}

	var commands []gotgbot.BotCommand
	for _, plg := range plugins {
		commands = append(commands, plg.Commands()...)
	}
	if _, err := b.SetMyCommands(commands, nil); err != nil {
		log.Err(err).Msg("Failed to set commands")
	}

	if addr := strings.TrimSpace(os.Getenv("METRICS_ADDR")); addr != "" {
		metrics.Serve(addr)
	}

	gate := bot.NewGateService(settingsService, statsService)
	processor := bot.NewProcessor(gate, plugins)

	if err := bot.Run(b, processor); err != nil {
		log.Fatal().Err(err).Send()
	}
}
