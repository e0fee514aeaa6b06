// ABOUTME: Entry point for the santa-exchange server
// ABOUTME: Dispatches serve, init, and health subcommands

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/santa-exchange/internal/config"
	"github.com/2389/santa-exchange/internal/gateway"
)

// version is set by the release build.
var version = "dev"

const banner = `
                      _
 ___  __ _ _ __  __  | |_  __ _
/ __|/ _' | '_ \/ _'.| __|/ _' |   * secret santa exchange *
\__ \ (_| | | | | (_||| |_| (_| |
|___/\__,_|_| |_|\__,_|\__|\__,_|
`

const starterConfig = `server:
  http_addr: ":8080"

database:
  driver: "sqlite"
  path: "data/wishes.db"

event:
  manifest: "event.toml"

web:
  static_dir: "static"

logging:
  level: "info"
  format: "text"
`

const starterManifest = `title = "Secret Santa"
greeting = """
Write down **three presents** you wish for, and a place you have never been.
"""
submissions_open = true
draw_open = true
`

// getConfigPath returns the path to the config file.
// Priority: SANTA_CONFIG env var > ./santa-exchange.yaml > ~/.config/santa-exchange/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("SANTA_CONFIG"); envPath != "" {
		return envPath
	}

	if _, err := os.Stat("santa-exchange.yaml"); err == nil {
		return "santa-exchange.yaml"
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "santa-exchange.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "santa-exchange", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: santa-exchange <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the exchange server")
		fmt.Println("  init      Write starter config and event manifest")
		fmt.Println("  health    Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(setupLogger(cfg.Logging))

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s (%s)\n", cfg.Database.Path, cfg.Database.Driver)
	fmt.Println()

	slog.Info("starting santa-exchange",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	gw, err := gateway.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// runInit writes a starter config and event manifest into the current
// directory, refusing to overwrite existing files.
func runInit() error {
	files := []struct {
		path    string
		content string
	}{
		{"santa-exchange.yaml", starterConfig},
		{"event.toml", starterManifest},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", f.path)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Printf("wrote %s\n", f.path)
	}

	fmt.Println("edit santa-exchange.yaml, then run: santa-exchange serve")
	return nil
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
