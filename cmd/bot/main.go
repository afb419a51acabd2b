// Package main contains the entrypoint for the guild bot application.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/renatkhugaev-eng/guildbot/internal/bot"
	"github.com/renatkhugaev-eng/guildbot/internal/bot/handlers"
	"github.com/renatkhugaev-eng/guildbot/internal/bot/tasks"
	"github.com/renatkhugaev-eng/guildbot/internal/config"
	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/game"
	"github.com/renatkhugaev-eng/guildbot/internal/gemini"
	"github.com/renatkhugaev-eng/guildbot/internal/logger"
	"github.com/renatkhugaev-eng/guildbot/internal/profile"
	"github.com/renatkhugaev-eng/guildbot/internal/telegram"

	_ "modernc.org/sqlite"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:          "guildbot",
		Short:        "Telegram group game bot with behavioral profiling",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./config.yaml", "Path to configuration file")

	root.AddCommand(newServeCmd(), newRebuildCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newRebuildCmd() *cobra.Command {
	var (
		chatID int64
		all    bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Reset and replay behavioral profiles from the message log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !all && chatID == 0 {
				return fmt.Errorf("either --chat or --all is required")
			}
			return runRebuild(cmd.Context(), chatID, all, limit)
		},
	}
	cmd.Flags().Int64Var(&chatID, "chat", 0, "Rebuild a single chat by ID")
	cmd.Flags().BoolVar(&all, "all", false, "Rebuild every chat in the message log")
	cmd.Flags().IntVar(&limit, "limit", 0, "Per-user message limit (0 uses the configured default)")
	return cmd
}

func runServe(ctx context.Context) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return err
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return err
	}

	cooldowns, err := newCooldowns(ctx, cfg, log)
	if err != nil {
		return err
	}

	profiles := profile.NewService(store, profile.DefaultLexicon(), log)
	rebuilder := profile.NewRebuilder(store, profiles, log)

	hDeps := handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Store:        store,
		GeminiClient: gemClient,
		Profiles:     profiles,
		Rebuilder:    rebuilder,
		Formatter:    profile.NewFormatter(),
		Cooldowns:    cooldowns,
	}
	tDeps := tasks.TaskDeps{
		Logger:    log,
		Store:     store,
		Rebuilder: rebuilder,
		Config:    cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return err
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return err
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return err
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}
	app := bot.NewBot(log, cfg, db, store, gemClient, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return runErr
	}

	log.Info("Bot stopped gracefully.")
	return nil
}

func runRebuild(ctx context.Context, chatID int64, all bool, limit int) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return err
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	if limit <= 0 {
		limit = cfg.Profile.RebuildPerUserLimit
	}

	profiles := profile.NewService(store, profile.DefaultLexicon(), log)
	rebuilder := profile.NewRebuilder(store, profiles, log)

	var stats profile.RebuildStats
	if all {
		stats, err = rebuilder.RebuildAll(ctx, limit)
	} else {
		stats, err = rebuilder.RebuildChat(ctx, chatID, limit)
	}
	if err != nil {
		log.Error("Rebuild failed", "error", err)
		return err
	}

	log.Info("Rebuild finished",
		"users", stats.UsersProcessed,
		"profiles", stats.ProfilesCreated,
		"messages", stats.MessagesAnalyzed,
		"errors", len(stats.Errors))
	for _, e := range stats.Errors {
		log.Warn("Rebuild error", "detail", e)
	}
	return nil
}

// newCooldowns picks the Redis-backed cooldown store when an address is
// configured, falling back to the in-memory tracker.
func newCooldowns(ctx context.Context, cfg *config.Config, log *slog.Logger) (game.Cooldowns, error) {
	if cfg.Redis.Addr == "" {
		log.Info("Using in-memory cooldown store")
		return game.NewMemoryCooldowns(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "addr", cfg.Redis.Addr, "error", err)
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	log.Info("Using Redis cooldown store", "addr", cfg.Redis.Addr)
	return game.NewRedisCooldowns(client), nil
}
