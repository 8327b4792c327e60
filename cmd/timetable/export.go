package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timetable-export/internal/config"
	"timetable-export/internal/logger"
	"timetable-export/internal/service"
	"timetable-export/internal/store"
)

var (
	assignmentsPath string
	outPath         string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the pipeline once against an assignments CSV and write the archive to disk",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&assignmentsPath, "assignments", "a", "", "solved assignments CSV")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "timetables.zip", "output archive path")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	path := assignmentsPath
	if path == "" {
		path = cfg.Solver.AssignmentsFile
	}
	if path == "" {
		return errors.New("an assignments CSV is required (--assignments or solver.assignments_file)")
	}

	svc := service.NewExportService(
		service.FileSource{Path: path},
		store.NewMemoryStore(cfg.Store),
		cfg.Layout,
		time.Duration(cfg.Solver.TimeoutSeconds)*time.Second,
		logger.New("export", cfg.Logging.Level),
		nil,
	)

	artifact, err := svc.Generate(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, artifact.Data, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d assignments, %d files, %.2fs\n",
		outPath, artifact.TotalAssignments, artifact.TotalFiles, artifact.GenerationTime.Seconds())
	return nil
}
