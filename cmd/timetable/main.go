package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"timetable-export/internal/app"
	"timetable-export/internal/config"
	"timetable-export/internal/logger"
	"timetable-export/internal/metrics"
	exportmigrations "timetable-export/migrations"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "timetable-export",
	Short: "Timetable export service",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.New("main", cfg.Logging.Level)

	var db *sql.DB
	if cfg.Store.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return err
		}
		if err := exportmigrations.Up(db); err != nil {
			return err
		}
		log.Debugf("database ready, artifacts persisted")
	}

	var sink metrics.Recorder = metrics.NopSink{}
	if cfg.Metrics.Enabled {
		promSink, err := metrics.NewSink(nil)
		if err != nil {
			return err
		}
		sink = promSink
		go func() {
			if err := metrics.StartServer(ctx, cfg.Metrics.Addr); err != nil {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	application, err := app.New(cfg, db, sink)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           application.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("http shutdown error: %v", err)
		}
	}()

	log.Infof("timetable-export listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
