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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/larder/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	dbFlag := &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB database directory (overrides storage.path)",
	}

	return &cli.App{
		Name:  "larder",
		Usage: "Recipe search: load a recipe corpus and rank it against queries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"LARDER_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Load JSON-lines recipe records into the store",
				Action: loadCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "JSON-lines source file, or - for stdin",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Delete the existing store before loading",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of workers mapping records (0 uses the config value)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of recipes written per transaction (0 uses the config value)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Stop after this many records (0 uses the config value)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the store and print ranked recipes",
				ArgsUsage: "[keyword...]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{Name: "time", Usage: "Time tier (quick, medium, long)"},
					&cli.StringFlag{Name: "budget", Usage: "Budget tier (low, medium, high)"},
					&cli.StringFlag{Name: "difficulty", Usage: "Difficulty (easy, medium, hard)"},
					&cli.StringSliceFlag{Name: "cuisine", Usage: "Allowed cuisine (repeatable)"},
					&cli.StringSliceFlag{Name: "diet", Usage: "Required diet (repeatable)"},
					&cli.StringSliceFlag{Name: "exclude-allergen", Usage: "Allergen to exclude (repeatable)"},
					&cli.StringSliceFlag{Name: "exclude-ingredient", Usage: "Ingredient to exclude (repeatable)"},
					&cli.StringFlag{Name: "include-ingredient", Usage: "Ingredient that must be present"},
					&cli.IntFlag{Name: "calories-min", Usage: "Minimum calories"},
					&cli.IntFlag{Name: "calories-max", Usage: "Maximum calories"},
					&cli.IntFlag{Name: "max-spice", Usage: "Maximum spice level (0-2)"},
					&cli.StringSliceFlag{Name: "prefer-cuisine", Usage: "Preferred cuisine as name[=weight] (repeatable)"},
					&cli.StringSliceFlag{Name: "prefer-diet", Usage: "Diet preference as name[=true|false] (repeatable)"},
					&cli.StringFlag{Name: "budget-default", Usage: "Preferred budget tier"},
					&cli.StringFlag{Name: "time-default", Usage: "Preferred time tier"},
					&cli.StringSliceFlag{Name: "dislike", Usage: "Disliked ingredient (repeatable)"},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
			},
			{
				Name:   "cuisines",
				Usage:  "List cuisine tags present in the store",
				Action: cuisinesCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:   "serve",
				Usage:  "Serve the search HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides http.addr)",
					},
				},
			},
		},
	}
}

// loadConfig reads the file named by --config, or returns defaults.
// --db overrides the configured store path.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	if db := c.String("db"); db != "" {
		cfg.Storage.Path = db
	}
	if !c.IsSet("log-level") {
		if err := configureLogger(cfg.Logging.Level); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func setupLogger(c *cli.Context) error {
	return configureLogger(c.String("log-level"))
}

func configureLogger(levelStr string) error {
	// Normalize to lowercase
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
