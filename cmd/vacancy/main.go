package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/funkymunkycool/classical-dipoles/config"
	"github.com/funkymunkycool/classical-dipoles/logging"
	"github.com/funkymunkycool/classical-dipoles/render"
	"github.com/funkymunkycool/classical-dipoles/store"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "TOML run configuration")
		presetArg = flag.String("preset", "", "vacancy charge state preset (overrides config)")
		outDir    = flag.String("out", "", "directory for rendered charts (overrides config)")
		dbPath    = flag.String("db", "", "sqlite database to record the run in (overrides config)")
		norender  = flag.Bool("norender", false, "skip rendering charts")
		nextreme  = flag.Int("extremes", 1, "number of extreme frames to report")
	)
	flag.Parse()

	// a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *presetArg != "" {
		cfg.System.Preset = *presetArg
	}
	if *outDir != "" {
		cfg.Render.OutputDir = *outDir
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if *norender {
		cfg.Render.Enabled = false
	}

	log := logging.New(os.Stderr, cfg.Logging)
	if err := run(context.Background(), log, cfg, *nextreme); err != nil {
		log.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg config.Config, nextreme int) error {
	sys, err := cfg.Build()
	if err != nil {
		return err
	}
	log.Info("system initialized",
		"particles", len(sys.Start),
		"preset", cfg.System.Preset,
		"frames", sys.Frames(),
		"steepness", sys.Steepness(),
	)

	tr, err := sys.Run()
	if err != nil {
		return err
	}
	for _, f := range tr.Frames {
		log.Debug("frame", "index", f.Index, "t", f.T, "dx", f.Total.X, "dy", f.Total.Y, "magnitude", f.Magnitude)
	}
	lowest, highest := tr.Extremes(nextreme)
	for _, f := range lowest {
		log.Info("lowest magnitude", "frame", f.Index, "magnitude", f.Magnitude)
	}
	for _, f := range highest {
		log.Info("highest magnitude", "frame", f.Index, "magnitude", f.Magnitude)
	}

	if cfg.Render.Enabled {
		colors := map[string]string{}
		radii := map[string]float64{}
		for name, st := range cfg.Render.Species {
			colors[name] = st.Color
			radii[name] = st.Radius
		}
		table, err := render.ParseTable(colors, radii)
		if err != nil {
			return err
		}

		r := render.New(table, cfg.Render.Width, cfg.Render.Height)
		paths, err := r.SaveAll(cfg.Render.OutputDir, sys)
		if err != nil {
			return err
		}
		log.Info("charts written", "files", paths)
	}

	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.Record(ctx, tr)
		if err != nil {
			return err
		}
		log.Info("run recorded", "db", cfg.Store.Path, "run", id)
	}
	return nil
}
