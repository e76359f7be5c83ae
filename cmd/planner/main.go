package main

import (
	"os"

	"github.com/andresuchdata/retail-backoffice/internal/config"
	"github.com/andresuchdata/retail-backoffice/pkg/logger"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (defaults to the DB_* settings)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func main() {
	cfg := config.Load()
	logger.Configure(cfg.Server.Mode, cfg.Server.LogLevel)

	app := &cli.App{
		Name:  "planner",
		Usage: "Purchase-order planning from the command line",
		Commands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "Build a purchase-order plan and print it as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "supplier", Usage: "Supplier id (empty for all suppliers)"},
					&cli.StringFlag{Name: "delivery-date", Usage: "Delivery date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "target-date", Usage: "Target date (defaults to the day after delivery)"},
					&cli.IntFlag{Name: "days", Usage: "Forecast window length", Value: cfg.Planner.ForecastDays},
					&cli.StringFlag{Name: "inventory-file", Usage: "Read stock rows from an .xlsx export instead of the backend"},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Sales and inventory source: mock, http or postgres",
						Value: defaultSource(cfg),
					},
					newDBURLFlag(),
				},
				Action: func(c *cli.Context) error {
					return runPlan(c, cfg)
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply the database schema",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					return runMigrate(c, cfg)
				},
			},
			{
				Name:  "seed",
				Usage: "Load the demo catalogue and recent sales into the database",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "days", Usage: "Days of sales history to generate", Value: 35},
				},
				Action: func(c *cli.Context) error {
					return runSeed(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("planner failed")
	}
}

func defaultSource(cfg *config.Config) string {
	if cfg.Backend.UseMockBackend {
		return sourceMock
	}
	return cfg.Backend.Source
}
