package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cinebox/api"
	"cinebox/config"
	"cinebox/handlers"
	"cinebox/internal/logging"
	"cinebox/services/browser"
	"cinebox/services/state"
	"cinebox/services/tmdb"
	"cinebox/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var settingsPath string

	serve := func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), settingsPath)
	}

	rootCmd := &cobra.Command{
		Use:          "cinebox",
		Short:        "Browse the TMDB catalog from any browser on the network",
		SilenceUsage: true,
		RunE:         serve,
	}
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", defaultSettingsPath(), "Path to settings.json")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|status|version]",
		Short:     "Manage the sqlite state database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return runMigrate(cmd, settingsPath, action)
		},
	}

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset saved browsing state",
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved UI state of one client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, _ := cmd.Flags().GetString("client")
			return runStateClear(cmd, settingsPath, clientID)
		},
	}
	clearCmd.Flags().String("client", "", "Client id (the cinebox_client cookie value)")
	_ = clearCmd.MarkFlagRequired("client")
	stateCmd.AddCommand(clearCmd)

	rootCmd.AddCommand(serveCmd, migrateCmd, stateCmd)
	return rootCmd
}

func defaultSettingsPath() string {
	if v := os.Getenv("CINEBOX_CONFIG"); v != "" {
		return v
	}
	return filepath.Join("cache", "settings.json")
}

// loadSettings reads the settings file and applies .env and environment overrides.
func loadSettings(path string) (config.Settings, error) {
	config.LoadDotEnv()
	settings, err := config.NewManager(path).Load()
	if err != nil {
		return config.Settings{}, err
	}
	config.ApplyEnv(&settings, os.LookupEnv)
	return settings, nil
}

func runServe(ctx context.Context, settingsPath string) error {
	settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}
	if err := config.Validate(&settings); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", settingsPath, err)
	}

	logCloser := logging.Setup(settings.Log)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := state.Open(ctx, settings.Storage)
	if err != nil {
		return fmt.Errorf("open %s state store: %w", settings.Storage.Backend, err)
	}
	stateSvc := state.NewService(store)
	defer stateSvc.Close()

	catalog := tmdb.NewClient(tmdb.Options{
		APIKey:         settings.TMDB.APIKey,
		BaseURL:        settings.TMDB.BaseURL,
		ImageBaseURL:   settings.TMDB.ImageBaseURL,
		PrimaryLocale:  settings.TMDB.PrimaryLocale,
		FallbackLocale: settings.TMDB.FallbackLocale,
	})

	renderer, err := handlers.NewRenderer()
	if err != nil {
		return err
	}

	var limiter *api.ClientRateLimiter
	if settings.Server.RatePerMinute > 0 {
		limiter = api.NewClientRateLimiter(settings.Server.RatePerMinute, settings.Server.RateBurst)
		defer limiter.Stop()
	}

	policy := utils.NewOriginPolicy(settings.Server.AllowedOrigins)
	sections := tmdb.HomeSections()

	router := utils.NewRouter(policy)
	handlers.Routes{
		Pages: handlers.NewPagesHandler(renderer, catalog, stateSvc, sections),
		Session: handlers.NewSessionHandler(catalog, stateSvc, renderer, policy, limiter, browser.Options{
			Debounce:     time.Duration(settings.UI.SearchDebounceMs) * time.Millisecond,
			ScrollSettle: time.Duration(settings.UI.ScrollSettleMs) * time.Millisecond,
			Sections:     sections,
		}),
		State:   handlers.NewClientStateHandler(stateSvc),
		Catalog: handlers.NewCatalogHandler(catalog),
		Static:  handlers.NewStaticHandler(),
	}.Register(router, limiter)

	addr := net.JoinHostPort(settings.Server.Host, strconv.Itoa(settings.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Sessions hijack their connection, so they end with ctx rather than Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[main] cinebox listening on %s (storage: %s)", addr, settings.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[main] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, settingsPath, action string) error {
	settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}
	if settings.Storage.Backend != config.StorageSQLite {
		return fmt.Errorf("migrations apply to the sqlite backend, settings use %q", settings.Storage.Backend)
	}

	// Opening the store already applies pending migrations.
	store, err := state.OpenSQLite(settings.Storage.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	migrator := store.Migrator()
	switch action {
	case "up":
		if err := migrator.Up(); err != nil {
			return err
		}
		fallthrough
	case "version":
		version, err := migrator.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d\n", state.SQLitePath(settings.Storage.DataDir), version)
	case "status":
		return migrator.Status()
	}
	return nil
}

func runStateClear(cmd *cobra.Command, settingsPath, clientID string) error {
	settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}
	store, err := state.Open(cmd.Context(), settings.Storage)
	if err != nil {
		return err
	}
	svc := state.NewService(store)
	defer svc.Close()

	if err := svc.ClearState(cmd.Context(), clientID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared saved state for client %s\n", clientID)
	return nil
}
