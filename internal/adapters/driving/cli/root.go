// Package cli implements the quarry command line interface.
//
// Commands are wired to core services through package-level variables
// set during PersistentPreRunE. Tests swap in memory-backed services.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/quarrylabs/quarry-cli/internal/adapters/driven/config/file"
	indexfile "github.com/quarrylabs/quarry-cli/internal/adapters/driven/index/file"
	"github.com/quarrylabs/quarry-cli/internal/adapters/driven/storage/sqlite"
	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driven"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driving"
	"github.com/quarrylabs/quarry-cli/internal/core/services"
	"github.com/quarrylabs/quarry-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	flagOwner     string
	flagDataDir   string
	flagConfigDir string
	flagVerbose   bool
)

// Services wired during PersistentPreRunE; tests replace these.
var (
	ingestService   *services.IngestService
	queryService    driving.QueryEngine
	documentService driving.DocumentManager
	indexService    driving.IndexManager
	configStore     driven.ConfigStore
)

// store holds the open SQLite handle for shutdown.
var store *sqlite.Store

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Ask questions against your own documents",
	Long: `Quarry is a personal document retrieval engine.
Upload plain-text documents, then ask natural-language questions;
answers are extracted from your own uploads with citations, and
withheld when the evidence is weak.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		// Tests pre-wire services; don't disturb them.
		if queryService != nil {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		shutdownServices()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagOwner, "owner", "", "owner identity for all operations")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.quarry/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.quarry)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

// initServices opens the stores and builds the service graph.
func initServices() error {
	cfg, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	store, err = sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	indexStore, err := indexfile.NewIndexStore(indexDir())
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}

	docStore := store.DocumentStore()

	var indexerOpts []services.IndexerOption
	if n := configStore.GetInt("index.max_vocabulary"); n > 0 {
		indexerOpts = append(indexerOpts, services.WithMaxVocabulary(n))
	}
	indexer := services.NewIndexer(docStore, indexStore, indexerOpts...)

	policy := policyFromConfig(configStore)

	queryService = services.NewQueryService(docStore, indexer,
		services.WithAbstentionPolicy(policy))
	documentService = services.NewDocumentService(docStore, indexer)
	indexService = indexer

	ingestService = services.NewIngestService(docStore, indexer, 2, 16)
	ingestService.Start()

	return nil
}

// shutdownServices drains the ingest queue and closes the store.
// When tests pre-wire services, store stays nil and teardown is theirs.
func shutdownServices() {
	if store == nil {
		return
	}
	if ingestService != nil {
		ingestService.Stop()
	}
	store.Close() //nolint:errcheck
	store = nil
}

// policyFromConfig overlays configured abstention thresholds onto the
// defaults. Presence is what matters; an explicit zero disables the
// corresponding check.
func policyFromConfig(cfg driven.ConfigStore) domain.AbstentionPolicy {
	policy := domain.DefaultAbstentionPolicy()
	if _, ok := cfg.Get("query.abstain_score"); ok {
		policy.MinScore = cfg.GetFloat("query.abstain_score")
	}
	if _, ok := cfg.Get("query.abstain_gap"); ok {
		policy.MinGap = cfg.GetFloat("query.abstain_gap")
	}
	return policy
}

// indexDir places index artifacts next to the SQLite database when a
// data directory override is given.
func indexDir() string {
	if flagDataDir == "" {
		return ""
	}
	return filepath.Join(flagDataDir, "indexes")
}

// currentOwner resolves the owner identity: flag, then config, then
// the fixed default.
func currentOwner() string {
	if flagOwner != "" {
		return flagOwner
	}
	if configStore != nil {
		if owner := configStore.GetString("owner"); owner != "" {
			return owner
		}
	}
	return "default"
}
