package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/CarloMagno/Warlight/internal/bot"
	"github.com/CarloMagno/Warlight/internal/config"
	"github.com/CarloMagno/Warlight/internal/logger"
	"github.com/CarloMagno/Warlight/internal/protocol"
)

func main() {
	configPath := flag.String("config", "", "config file (default: config.yaml if present)")
	strategyName := flag.String("strategy", "", "bot strategy (heuristic, random, hold, external); overrides config")
	transport := flag.String("transport", "", "stdio or ws; overrides config")
	wsURL := flag.String("url", "", "websocket host URL; overrides config")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg := config.Get()
	logger.Init(cfg.Log)

	name := cfg.Bot.Strategy
	if *strategyName != "" {
		name = *strategyName
	}
	mode := cfg.Bot.Transport
	if *transport != "" {
		mode = *transport
	}
	url := cfg.Bot.WSURL
	if *wsURL != "" {
		url = *wsURL
	}

	strategy := bot.StrategyForName(name, bot.StrategyOptions{
		Params:        bot.ParamsFromConfig(cfg.Planner),
		EnginePath:    cfg.Bot.EnginePath,
		EngineTimeout: cfg.Bot.EngineTimeout,
	})
	if c, ok := strategy.(bot.Closer); ok {
		defer c.Close()
	}

	// Retune the planner between turns when the config file changes.
	if h, ok := strategy.(*bot.HeuristicStrategy); ok {
		config.Watch(func(c *config.Config) {
			h.SetParams(bot.ParamsFromConfig(c.Planner))
			log.Info().Str("file", config.ConfigFilePath()).Msg("Planner params reloaded")
		}, func(err error) {
			log.Warn().Err(err).Msg("Keeping previous planner params")
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	gameCtx := logger.WithGameID(ctx, logger.NewGameID())
	l := logger.ForGame(gameCtx).With().Str("strategy", strategy.Name()).Logger()
	l.Info().Str("transport", mode).Msg("Bot started")

	var err error
	switch mode {
	case "ws":
		conn, derr := protocol.DialWS(gameCtx, url)
		if derr != nil {
			l.Fatal().Err(derr).Str("url", url).Msg("Websocket dial failed")
		}
		err = protocol.NewDriver(strategy, l).Serve(gameCtx, conn)
	default:
		err = protocol.Serve(gameCtx, strategy, os.Stdin, os.Stdout, l)
	}
	if err != nil && ctx.Err() == nil {
		l.Fatal().Err(err).Msg("Bot stopped")
	}
	l.Info().Msg("Bot finished")
}
