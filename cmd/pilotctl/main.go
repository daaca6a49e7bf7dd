package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/backend"
	"github.com/omrstudio/pilotctl/internal/config"
	"github.com/omrstudio/pilotctl/internal/demo"
	"github.com/omrstudio/pilotctl/internal/history"
	"github.com/omrstudio/pilotctl/internal/provider"
	"github.com/omrstudio/pilotctl/internal/router"
	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/tui"
)

var version = "0.1.0"

var (
	flagView      string
	flagBackend   string
	flagDemo      bool
	flagEnvFile   string
	flagConfigDir string
	flagNoArchive bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pilotctl",
	Short: "Pilot - admin console for your WhatsApp attendant",
	Long: `Pilot is the terminal console for small businesses running the Pilot
WhatsApp attendant: keep the business profile and catalogs up to date,
test-drive the attendant before customers talk to it, and manage the
WhatsApp connection.

Configuration lives in ~/.pilotctl/config.yaml and can be overridden via
PILOTCTL_* environment variables or a .env file.

Examples:
  pilotctl                       # Start the console
  pilotctl --demo                # Seeded demo workspace, no credentials
  pilotctl --view conexoes       # Deep link straight into a tab
  pilotctl --backend provider    # Talk to the hosted provider directly`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagView, "view", "", "open on a specific tab (dados, test-drive, conexoes, ajuda)")
	rootCmd.Flags().StringVar(&flagBackend, "backend", "", "backend variant: webhook, provider or demo")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "shorthand for --backend demo")
	rootCmd.Flags().StringVar(&flagEnvFile, "env-file", "", "load settings from a .env file")
	rootCmd.Flags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.pilotctl)")
	rootCmd.Flags().BoolVar(&flagNoArchive, "no-archive", false, "disable the local call log and chat transcript")
}

func run() error {
	paths, err := config.Initialize(flagConfigDir)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := config.Load(paths, flagEnvFile)
	if err != nil {
		return err
	}
	if flagBackend != "" {
		settings.Backend = flagBackend
	}
	if flagDemo {
		settings.Backend = config.BackendDemo
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if flagView != "" && !state.IsKnownView(flagView) {
		return fmt.Errorf("unknown view %q", flagView)
	}

	// The TUI owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(paths.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	persister := state.NewFilePersister(paths.ThemeFile, paths.SessionFile)
	store := state.New(persister, logger, 0)

	var archive *history.Manager
	if !flagNoArchive {
		archive, err = history.NewManager(paths.DatabasePath)
		if err != nil {
			// The console works without the archive.
			logger.Warn("local archive unavailable", "error", err)
			archive = nil
		} else {
			defer archive.Close()
		}
	}

	be, err := buildBackend(settings, store, archive, logger)
	if err != nil {
		return err
	}

	// Restore the session before the first routing decision so a deep
	// link can land on an authenticated view.
	store.HydrateAuth()

	nav := router.NewHistory(flagView)
	stopRouter := router.New(store, nav, logger).Start()
	defer stopRouter()

	model := tui.New(store, be, nav, archive, settings.EventsURL, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("console crashed: %w", err)
	}
	return nil
}

func buildBackend(settings *config.Settings, store *state.Store, archive *history.Manager, logger *slog.Logger) (backend.Backend, error) {
	var clientOpts []api.ClientOption
	if archive != nil {
		clientOpts = append(clientOpts, api.WithRecorder(archive))
	}

	switch settings.Backend {
	case config.BackendDemo:
		return demo.New()
	case config.BackendProvider:
		p, err := provider.New(provider.Config{
			BaseURL: settings.ProviderURL,
			AnonKey: settings.ProviderKey,
		}, store, logger)
		if err != nil {
			return nil, err
		}
		webhook := api.NewClient(api.Config{BaseURL: settings.WebhookURL}, store, logger, clientOpts...)
		return backend.NewProvider(p, webhook), nil
	default:
		client := api.NewClient(api.Config{BaseURL: settings.WebhookURL}, store, logger, clientOpts...)
		return backend.NewWebhook(client), nil
	}
}
