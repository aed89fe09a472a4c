// cmd/insights runs the terminal client. Slots live in a YAML file under
// ~/.insights and logs go to ~/.insights/insights.log so they do not draw
// over the alternate screen.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/universityinsights/insights-web/internal/apiclient"
	"github.com/universityinsights/insights-web/internal/config"
	"github.com/universityinsights/insights-web/internal/repository"
	"github.com/universityinsights/insights-web/internal/service"
	"github.com/universityinsights/insights-web/internal/tui"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		os.Exit(1)
	}
	dataDir := filepath.Join(home, ".insights")

	apiURL := flag.String("api", cfg.APIURL, "base URL of the auth API")
	storePath := flag.String("store", filepath.Join(dataDir, "storage.yaml"), "path of the local slot file")
	clientID := flag.String("client", "local", "slot namespace inside the store file")
	flag.Parse()

	logFile, err := openLog(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	store, err := repository.NewFileStore(*storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(apiclient.New(*apiURL), store, cfg.SessionTTL)
	slog.Info("terminal client starting", "api", *apiURL, "store", store.Path(), "client_id", *clientID)

	p := tea.NewProgram(
		tui.NewApp(authService, *clientID),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func openLog(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "insights.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
