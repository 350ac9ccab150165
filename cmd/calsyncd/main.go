package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/salonkit/calendar-sync/internal/api"
	"github.com/salonkit/calendar-sync/internal/calendar"
	"github.com/salonkit/calendar-sync/internal/config"
	"github.com/salonkit/calendar-sync/internal/domain"
	"github.com/salonkit/calendar-sync/internal/store/sqlite"
	syncengine "github.com/salonkit/calendar-sync/internal/sync"
	"github.com/salonkit/calendar-sync/internal/token"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "calsyncd",
		Short: "Appointment calendar sync engine",
		Long: `calsyncd propagates appointment lifecycle events (create, update,
delete) to the external calendars connected by staff and clients:
Google Calendar and Outlook, up to four targets per appointment.`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	var action string
	syncCmd := &cobra.Command{
		Use:   "sync <appointment-id>",
		Short: "Run one sync pass for an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := domain.ParseAction(action)
			if err != nil {
				return err
			}

			eng, err := buildEngine()
			if err != nil {
				return err
			}
			defer eng.db.Close()

			results, err := eng.orchestrator.Sync(cmd.Context(), args[0], parsed)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	syncCmd.Flags().StringVar(&action, "action", "update", "Sync action: create, update or delete")
	rootCmd.AddCommand(syncCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP sync trigger and schedule feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			defer eng.db.Close()

			server := api.NewServer(eng.orchestrator, eng.staff, eng.appointments, eng.log)
			httpServer := &http.Server{
				Addr:         eng.cfg.Listen,
				Handler:      server.Router(),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			eng.log.Info().Str("listen", eng.cfg.Listen).Msg("starting calsyncd")
			return httpServer.ListenAndServe()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// engine bundles the wired-up components behind the CLI commands.
type engine struct {
	cfg          *config.Config
	db           *sqlite.DB
	orchestrator *syncengine.Orchestrator
	staff        domain.StaffRepository
	appointments domain.AppointmentRepository
	log          zerolog.Logger
}

func buildEngine() (*engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg.Environment)

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	appointments := sqlite.NewAppointmentRepo(db)
	staff := sqlite.NewStaffRepo(db)
	clients := sqlite.NewClientRepo(db)

	outlook := calendar.NewOutlookAdapter(cfg.Outlook.ClientID, cfg.Outlook.ClientSecret, cfg.CallTimeout.Std())
	providers := map[domain.Provider]syncengine.ProviderBundle{
		domain.ProviderGoogle: {
			Adapter: calendar.NewGoogleAdapter(cfg.CallTimeout.Std()),
		},
		domain.ProviderOutlook: {
			Adapter:   outlook,
			Refresher: outlook,
		},
	}

	orchestrator := syncengine.NewOrchestrator(
		syncengine.NewResolver(appointments, staff, clients),
		appointments,
		providers,
		token.NewManager(cfg.TokenSkew.Std(), log),
		log,
	)

	return &engine{
		cfg:          cfg,
		db:           db,
		orchestrator: orchestrator,
		staff:        staff,
		appointments: appointments,
		log:          log,
	}, nil
}

func newLogger(environment string) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Str("service", "calsyncd").Logger()
	}

	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", "calsyncd").Logger()
}
