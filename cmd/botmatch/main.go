package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/CarloMagno/Warlight/internal/arena"
	"github.com/CarloMagno/Warlight/internal/bot"
	"github.com/CarloMagno/Warlight/internal/config"
	"github.com/CarloMagno/Warlight/internal/logger"
	"github.com/CarloMagno/Warlight/internal/repository"
	"github.com/CarloMagno/Warlight/internal/repository/postgres"
	"github.com/CarloMagno/Warlight/internal/repository/redis"
)

func main() {
	var (
		configPath string
		p1, p2     string
		numGames   int
		workers    int
		maxRounds  int
		seed       int64
		dryRun     bool
		jsonOut    bool
	)

	flag.StringVar(&configPath, "config", "", "Config file (default: config.yaml if present)")
	flag.StringVar(&p1, "p1", "heuristic", "Strategy for player1 (heuristic, random, hold, external)")
	flag.StringVar(&p2, "p2", "random", "Strategy for player2")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 0, "Concurrency (parallel games, default from config)")
	flag.IntVar(&maxRounds, "max-rounds", 0, "Max rounds before the game is scored (default from config)")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.BoolVar(&dryRun, "dry-run", false, "Skip database and cache writes")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")

	flag.Parse()

	if err := config.Init(configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg := config.Get()
	logger.Init(cfg.Log)

	if workers <= 0 {
		workers = cfg.Arena.Workers
	}
	if maxRounds <= 0 {
		maxRounds = cfg.Arena.MaxRounds
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	var repo repository.MatchRepository
	var cache repository.MatchCache
	if !dryRun {
		if cfg.Arena.DatabaseURL != "" {
			db, err := postgres.Connect(ctx, cfg.Arena.DatabaseURL)
			if err != nil {
				log.Fatal().Err(err).Msg("Database connection failed")
			}
			defer db.Close()
			repo = postgres.NewMatchRepo(db)
		}
		if cfg.Arena.RedisURL != "" {
			rc, err := redis.NewClient(cfg.Arena.RedisURL, cfg.Arena.SnapshotTTL)
			if err != nil {
				log.Fatal().Err(err).Msg("Redis connection failed")
			}
			defer rc.Close()
			cache = rc
		}
	}

	opts := bot.StrategyOptions{
		Params:        bot.ParamsFromConfig(cfg.Planner),
		EnginePath:    cfg.Bot.EnginePath,
		EngineTimeout: cfg.Bot.EngineTimeout,
	}

	// Run games
	results := make([]*arena.Result, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := seed
			if seed != 0 {
				gameSeed = seed + int64(idx)
			}

			result, err := arena.RunGame(ctx, arena.Config{
				Player1:       p1,
				Player2:       p2,
				Options:       opts,
				MaxRounds:     maxRounds,
				Seed:          gameSeed,
				NeutralArmies: cfg.Arena.NeutralArmies,
				StartingPicks: cfg.Arena.StartingPicks,
			}, repo, cache)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("game", idx+1).Str("winner", result.Winner).Int("rounds", result.Rounds).Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, [2]string{p1, p2}, maxRounds, errCount, repo != nil)
	}
}

func printSummary(results []*arena.Result, strategies [2]string, maxRounds, errCount int, saved bool) {
	type stats struct {
		wins           int
		draws          int
		totalTerritory int
		totalRounds    int
		games          int
	}

	players := [2]string{"player1", "player2"}
	byPlayer := map[string]*stats{players[0]: {}, players[1]: {}}

	completed := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		for _, p := range players {
			s := byPlayer[p]
			s.games++
			s.totalTerritory += r.Territories[p]
			s.totalRounds += r.Rounds
			if r.Winner == p {
				s.wins++
			} else if r.Winner == "" {
				s.draws++
			}
		}
	}

	fmt.Printf("\nResults (%d games, max rounds %d):\n", completed, maxRounds)
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}

	for i, p := range players {
		s := byPlayer[p]
		avgTerr, avgRounds := 0.0, 0.0
		if s.games > 0 {
			avgTerr = float64(s.totalTerritory) / float64(s.games)
			avgRounds = float64(s.totalRounds) / float64(s.games)
		}
		fmt.Printf("  %-8s (%s):  %d wins, %d draws  -- avg territories: %.1f, avg rounds: %.1f\n",
			p, strategies[i], s.wins, s.draws, avgTerr, avgRounds)
	}

	if saved && completed > 0 {
		fmt.Printf("\n%d matches saved to database\n", completed)
	}
}

func printJSON(results []*arena.Result, total, errCount int) {
	out := struct {
		Total   int             `json:"total"`
		Errors  int             `json:"errors"`
		Results []*arena.Result `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
