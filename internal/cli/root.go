package cli

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kirillkom/pdf-archivist/internal/bootstrap"
	"github.com/kirillkom/pdf-archivist/internal/config"
	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "archivist",
	Short: "OCR, classify and archive scanned PDF documents",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every PDF in the inbox once and move results into the archive",
	RunE:  runBatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("archivist %s\n", Version)
	},
}

var (
	flagConfig  string
	flagInbox   string
	flagArchive string
	flagFailed  string
)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	runCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML config file")
	runCmd.Flags().StringVar(&flagInbox, "inbox", "", "Inbox directory (overrides config)")
	runCmd.Flags().StringVar(&flagArchive, "archive", "", "Archive root directory (overrides config)")
	runCmd.Flags().StringVar(&flagFailed, "failed", "", "Failure holding directory (overrides config)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagInbox != "" {
		cfg.InboxDir = flagInbox
	}
	if flagArchive != "" {
		cfg.ArchiveDir = flagArchive
	}
	if flagFailed != "" {
		cfg.FailedDir = flagFailed
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsPort != "" {
		go func() {
			addr := ":" + cfg.MetricsPort
			mux := http.NewServeMux()
			mux.Handle("/metrics", app.Metrics.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				app.Logger.Warn("metrics_listener_stopped", "error", err)
			}
		}()
	}

	summary, err := app.BatchUC.Run(ctx)
	printSummary(summary)
	return err
}

func printSummary(summary domain.BatchSummary) {
	fmt.Println("\n--- Summary ---")
	fmt.Printf("Total files:    %d\n", summary.Total)
	fmt.Printf("Archived:       %d\n", summary.Succeeded)
	fmt.Printf("Failed:         %d\n", summary.Failed)
	if len(summary.FailedFiles) > 0 {
		fmt.Println("\nFailed files (moved to the failure holding directory):")
		for _, name := range summary.FailedFiles {
			fmt.Printf("- %s\n", name)
		}
	}
}
