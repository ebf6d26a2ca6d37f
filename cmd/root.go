package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/atticdev/attic/archive"
	"github.com/atticdev/attic/internal/telemetry"
	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/store"
	"github.com/atticdev/attic/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "attic",
	Short: "Attic archives completed items and reports on your productivity.",
	Long: `Attic is the archive for your completed work. It moves finished
tasks, projects, notes, bookmarks and snippets out of the live
collections into a durable archive, restores them when you need them
back, and aggregates the archive into productivity reports.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main() exactly once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.attic/.attic.yaml or $HOME/.attic.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// dataFilePath returns the full path to one live collection file.
func dataFilePath(kind models.ItemType) string {
	config := GetConfig()
	name := fmt.Sprintf("%ss.%s", kind, config.Data.Format)
	return filepath.Join(config.Project.RootDir, config.Project.DataDir, name)
}

// GetStores initializes and returns the five live collection stores.
func GetStores() (store.ItemStores, error) {
	config := GetConfig()
	stores := make(store.ItemStores, len(models.AllItemTypes))
	for _, kind := range models.AllItemTypes {
		s, err := store.NewFileItemStore(kind)
		if err != nil {
			return nil, err
		}
		path := dataFilePath(kind)
		if err := s.Initialize(map[string]string{
			"dataFile":       path,
			"dataFileFormat": config.Data.Format,
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize %s store at %s: %w", kind, path, err)
		}
		stores[kind] = s
	}
	return stores, nil
}

// GetArchiveStore opens the archive database.
func GetArchiveStore() (store.ArchiveStore, error) {
	config := GetConfig()
	dbPath := filepath.Join(config.Project.RootDir, config.Archive.File)
	s, err := store.NewSQLiteArchiveStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database at %s: %w", dbPath, err)
	}
	return s, nil
}

// GetTelemetryClient builds the audit sink from configuration. Never
// fails the caller: a broken sink degrades to a no-op client.
func GetTelemetryClient() telemetry.Client {
	config := GetConfig()
	if config.Telemetry.Disabled || config.Telemetry.APIKey == "" {
		return telemetry.NewNoopClient()
	}
	tcfg, err := telemetry.Load()
	if err != nil {
		logger().Warn("telemetry config unavailable, events disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   config.Telemetry.APIKey,
		Version:  version,
		Config:   tcfg,
		Endpoint: config.Telemetry.Endpoint,
	})
	if err != nil {
		logger().Warn("telemetry client init failed, events disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	return client
}

// GetService wires the archive service over the configured stores.
// The returned cleanup closes every store and flushes the sink.
func GetService() (*archive.Service, telemetry.Client, func(), error) {
	stores, err := GetStores()
	if err != nil {
		return nil, nil, nil, err
	}
	archiveStore, err := GetArchiveStore()
	if err != nil {
		_ = stores.Close()
		return nil, nil, nil, err
	}
	events := GetTelemetryClient()

	svc := archive.NewService(stores, archiveStore, archive.ServiceOptions{
		Events: events,
		Logger: logger(),
	})
	cleanup := func() {
		_ = events.Close()
		_ = archiveStore.Close()
		_ = stores.Close()
	}
	return svc, events, cleanup, nil
}

// runWithService builds the service for one command invocation, runs
// fn, and records the command outcome on the audit sink.
func runWithService(commandName string, fn func(svc *archive.Service) error) error {
	svc, events, cleanup, err := GetService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := fn(svc); err != nil {
		events.Track(telemetry.EventCommandError, telemetry.Properties{
			"command":   commandName,
			"errorCode": string(types.CodeOf(err)),
		})
		return err
	}
	events.Track(telemetry.EventCommandExecuted, telemetry.Properties{
		"command": commandName,
	})
	return nil
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if GetConfig().Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
