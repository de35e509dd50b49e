package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/habitatshift/internal/api"
	"github.com/lox/habitatshift/internal/models"
	"github.com/lox/habitatshift/internal/probe"
	"github.com/lox/habitatshift/internal/session"
	"github.com/lox/habitatshift/internal/synth"
)

type CLI struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file.'"`

	Serve    ServeCmd    `cmd:"" default:"withargs" help:"Serve the dashboard (default)."`
	Generate GenerateCmd `cmd:"" help:"Print the observation table and exit."`
	Probe    ProbeCmd    `cmd:"" help:"Wait for a running server to report healthy."`
}

type ServeCmd struct {
	Port          string        `default:"8080" env:"PORT" help:"HTTP server port."`
	Seed          uint32        `default:"42" env:"SEED" help:"Seed for the observation table."`
	LegacyReseed  bool          `name:"legacy-reseed" env:"LEGACY_RESEED" help:"Regenerate an unseeded table on every request instead of memoizing per session."`
	SessionTTL    time.Duration `name:"session-ttl" default:"30m" env:"SESSION_TTL" help:"Idle time before a session and its table are dropped."`
	SweepInterval time.Duration `default:"1m" env:"SWEEP_INTERVAL" help:"How often idle sessions are swept."`
}

func (c *ServeCmd) Run() error {
	gen := synth.NewSeeded(c.Seed)
	if c.LegacyReseed {
		gen = synth.NewUnseeded()
		log.Println("legacy reseed enabled: tables regenerate on every request")
	}

	sessions := session.NewStore(gen, session.Options{
		Regenerate: c.LegacyReseed,
		TTL:        c.SessionTTL,
	})
	server := api.NewServer(sessions, c.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go sessions.Run(ctx, c.SweepInterval)

	log.Printf("starting server on :%s (seed %d)", c.Port, c.Seed)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Println("server stopped")
	return nil
}

type GenerateCmd struct {
	Format   string `enum:"csv,json" default:"csv" help:"Output format (csv, json)."`
	Seed     uint32 `default:"42" env:"SEED" help:"Seed for the observation table."`
	Unseeded bool   `help:"Draw a fresh seed instead of --seed."`
	Year     *int   `help:"Only print rows for this year; years outside 2000-2024 print none."`
}

func (c *GenerateCmd) Run() error {
	gen := synth.NewSeeded(c.Seed)
	if c.Unseeded {
		gen = synth.NewUnseeded()
	}
	rows := selectRows(gen.Generate(), c.Year)

	switch c.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return writeCSV(os.Stdout, rows)
	}
}

// selectRows returns the whole table when year is unset.
func selectRows(table *models.Table, year *int) []models.Observation {
	if year == nil {
		return table.Rows
	}
	return synth.FilterByYear(table, *year)
}

func writeCSV(w io.Writer, rows []models.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "mean_temperature", "sighting_count", "lat", "lon"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			strconv.FormatFloat(r.MeanTemperature, 'g', -1, 64),
			strconv.FormatFloat(r.SightingCount, 'g', -1, 64),
			strconv.FormatFloat(r.Latitude, 'g', -1, 64),
			strconv.FormatFloat(r.Longitude, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type ProbeCmd struct {
	URL     string        `default:"http://localhost:8080/health" env:"PROBE_URL" help:"Health endpoint to poll."`
	Timeout time.Duration `default:"30s" help:"Give up after this long."`
}

func (c *ProbeCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	health, err := probe.New(c.URL, c.Timeout).Wait(ctx)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	log.Printf("healthy: %d rows, %d sessions", health.Rows, health.Sessions)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("habitatshift"),
		kong.Description("Climate change and species distribution dashboard."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
