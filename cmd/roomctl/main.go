package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roomcraft/roomcraft/backend-go/internal/config"
	"github.com/roomcraft/roomcraft/backend-go/internal/engine"
)

var rootCmd = &cobra.Command{
	Use:   "roomctl",
	Short: "Inspect and convert room designs from the command line",
	Long: `roomctl works on design documents as saved by the editor. It reports
closure, area and perimeter of the room, renders plan previews and
exports the room as an STL mesh.

Editor tuning is read from the same environment variables as the server
(SNAP_DISTANCE, MIN_WALL_LENGTH, GRID_ENABLED, WALL_HEIGHT, WALL_THICKNESS).`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newEngine returns an engine tuned from the environment.
func newEngine() (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return engine.NewEngine(cfg.EngineOptions()), cfg, nil
}

// loadDesign reads a design document into a new engine.
func loadDesign(path string) (*engine.Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e, _, err := newEngine()
	if err != nil {
		return nil, err
	}
	if err := e.LoadDocument(string(data)); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return e, nil
}

// output opens path for writing, or stdout for "" and "-".
func output(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
