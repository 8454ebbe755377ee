// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/larder"
	"github.com/poiesic/larder/config"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/ingestion"
	"github.com/poiesic/larder/metrics"
	"github.com/poiesic/larder/search"
	"github.com/poiesic/larder/transport/rest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

func openDatabase(cfg config.Config, readOnly bool) (*larder.Database, error) {
	opts := []larder.DatabaseOption{larder.WithLogger(slog.Default())}
	if readOnly {
		opts = append(opts, larder.WithReadOnly())
	}
	db, err := larder.NewDatabase(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func loadCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Storage.ReadOnly {
		return errors.New("storage is configured read-only; cannot load")
	}

	var src io.Reader = os.Stdin
	if path := c.String("source"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer f.Close()
		src = f
	}

	if c.Bool("replace") {
		if err := os.RemoveAll(cfg.Storage.Path); err != nil {
			return fmt.Errorf("failed to remove existing store: %w", err)
		}
	}

	db, err := openDatabase(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingestion.Option{
		ingestion.WithBatchSize(firstPositive(c.Int("batch-size"), cfg.Load.BatchSize)),
		ingestion.WithLimit(firstPositive(c.Int("limit"), cfg.Load.Limit)),
	}
	if size := firstPositive(c.Int("pool-size"), cfg.Load.PoolSize); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	loader, err := db.NewLoader(opts...)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}
	defer loader.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Source: %s\n", c.String("source"))
	fmt.Fprintln(os.Stderr)

	started := time.Now()
	stats, err := loader.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("load failed after %d recipes: %w", stats.Stored, err)
	}

	fmt.Fprintf(os.Stderr, "Stored %d recipes in %s (read %d, skipped %d, malformed %d, duplicates %d)\n",
		stats.Stored, time.Since(started).Round(time.Millisecond),
		stats.Read, stats.Skipped, stats.Malformed, stats.Duplicates)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(search.WithConfig(cfg.Search))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	req := &search.Request{
		Keyword: strings.Join(c.Args().Slice(), " "),
		Filters: search.Filters{
			Time:               core.TimeTier(c.String("time")),
			Budget:             core.BudgetTier(c.String("budget")),
			Difficulty:         core.Difficulty(c.String("difficulty")),
			Cuisines:           c.StringSlice("cuisine"),
			Diets:              c.StringSlice("diet"),
			ExcludeAllergens:   c.StringSlice("exclude-allergen"),
			ExcludeIngredients: c.StringSlice("exclude-ingredient"),
			IncludeIngredient:  c.String("include-ingredient"),
			CaloriesMin:        intFlag(c, "calories-min"),
			CaloriesMax:        intFlag(c, "calories-max"),
			MaxSpice:           intFlag(c, "max-spice"),
		},
		Limit: c.Int("limit"),
	}
	if req.Preferences, err = preferences(c); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	result, err := searcher.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printResult(c.App.Writer, result, c.Bool("json"))
}

func printResult(w io.Writer, result *search.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.SuggestedKeyword != "" {
		fmt.Fprintf(w, "Showing results for %q\n", result.SuggestedKeyword)
	}
	fmt.Fprintf(w, "Found %d hits (%d matched of %d candidates)\n",
		len(result.Recipes), result.Matched, result.Candidates)
	for i, r := range result.Recipes {
		fmt.Fprintf(w, "%d: '%s' (%d)[%.1f, %d min, %s]\n",
			i, r.Title, r.ID, r.Rating, r.TimeMinutes, strings.Join(r.CuisineTags, ","))
	}
	return nil
}

func cuisinesCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	tags, err := db.RecipeRepository().Tags(context.Background(), core.DimensionCuisine)
	if err != nil {
		return fmt.Errorf("failed to list cuisines: %w", err)
	}
	for _, tag := range tags {
		fmt.Fprintln(c.App.Writer, strings.ReplaceAll(tag, "_", " "))
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	logger := slog.Default()

	db, err := openDatabase(cfg, cfg.Storage.ReadOnly)
	if err != nil {
		return err
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	searcher, err := db.NewSearcher(search.WithConfig(cfg.Search), search.WithMonitor(m.Monitor()))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	server, err := rest.NewServer(searcher, db.RecipeRepository(),
		rest.WithLogger(logger),
		rest.WithLimits(cfg.HTTP.DefaultLimit, cfg.HTTP.MaxLimit),
		rest.WithMetrics(m, reg),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", cfg.HTTP.Addr, "db", cfg.Storage.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "err", err)
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}

// firstPositive returns the first value greater than zero, or zero.
// intFlag returns the flag value, or nil when it was not given.
func intFlag(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}

func preferences(c *cli.Context) (search.Preferences, error) {
	weights := make(map[string]float64)
	for _, entry := range c.StringSlice("prefer-cuisine") {
		name, value, found := strings.Cut(entry, "=")
		weight := 1.0
		if found {
			w, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return search.Preferences{}, fmt.Errorf("invalid cuisine weight %q: %w", entry, err)
			}
			weight = w
		}
		weights[strings.TrimSpace(name)] = weight
	}

	toggles := make(map[string]bool)
	for _, entry := range c.StringSlice("prefer-diet") {
		name, value, found := strings.Cut(entry, "=")
		on := true
		if found {
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return search.Preferences{}, fmt.Errorf("invalid diet toggle %q: %w", entry, err)
			}
			on = b
		}
		toggles[strings.TrimSpace(name)] = on
	}

	return search.Preferences{
		CuisineWeights:      core.NewFoldMap(weights),
		DietToggles:         core.NewFoldMap(toggles),
		BudgetDefault:       core.BudgetTier(c.String("budget-default")),
		TimeDefault:         core.TimeTier(c.String("time-default")),
		DislikedIngredients: c.StringSlice("dislike"),
	}, nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
