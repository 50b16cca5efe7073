package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/todue/internal/config"
	"github.com/balkashynov/todue/internal/db"
	"github.com/balkashynov/todue/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string

	cfg       *config.Config
	store     *db.Store
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "todue",
	Short: "A terminal todo list with deadlines and time tracking",
	Long: `todue keeps your tasks with their deadlines, priorities and expected effort.
Tasks are colored by urgency, timed with a built-in tracker and shown on a
month calendar, all from the terminal.`,
	SilenceUsage: true,
}

// initDB loads the config, sets up logging and opens the database. Safe to
// call more than once.
func initDB() error {
	if store != nil {
		return nil
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	l, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logger, logCloser = l, closer
	slog.SetDefault(logger)

	s, err := db.Open(db.Options{
		Path:   cfg.Database.Path,
		Debug:  strings.EqualFold(cfg.Log.Level, "debug"),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	store = s
	logger.Debug("database opened", "path", cfg.Database.Path)
	return nil
}

// closeDB releases what initDB opened
func closeDB() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
		store = nil
	}
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

// withDB wraps a command function to initialize the database first
func withDB(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := initDB(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fn(cmd, args)
	}
}

// parseTaskID parses a task id argument
func parseTaskID(arg string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(arg, "#"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task ID '%s'", arg)
	}
	return uint(id), nil
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	defer closeDB()
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("todue %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.todue/config.yaml)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(durationCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(legendCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
