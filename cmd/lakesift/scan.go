package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lakesift/lakesift/internal/cli"
	"github.com/lakesift/lakesift/internal/engine"
	"github.com/lakesift/lakesift/internal/inspect"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify columns by sampling table contents",
		Long: `Sample rows from every table matching the pattern, match each rule
against every string-like column, and propose tags for the columns
whose match frequency clears the classification threshold.

By default proposals are only displayed. Use --review to decide on each
proposal interactively, or --publish to accept and publish all of them
in one non-interactive batch.`,
		RunE: runScan,
	}

	// Flags
	cmd.Flags().StringP("catalogs", "c", "*", "Catalog pattern: *, a name, or a comma list")
	cmd.Flags().StringP("databases", "d", "*", "Database pattern")
	cmd.Flags().StringP("tables", "t", "*", "Table pattern")
	cmd.Flags().StringP("rules", "r", "*", "Rule name filter")
	cmd.Flags().Int("sample-size", 0, "Rows sampled per table (0 uses the configured default)")
	cmd.Flags().Bool("dry-run", false, "Print the read statements without touching table data")
	cmd.Flags().Bool("review", false, "Review each proposal interactively, then publish the accepted ones")
	cmd.Flags().Bool("publish", false, "Accept every proposal and publish without review")
	cmd.Flags().Float64("threshold", 0, "Override the classification threshold for this scan")
	cmd.Flags().Int("workers", 0, "Override the scan worker count")

	// Bind to viper
	_ = viper.BindPFlag("scan.catalogs", cmd.Flags().Lookup("catalogs"))
	_ = viper.BindPFlag("scan.databases", cmd.Flags().Lookup("databases"))
	_ = viper.BindPFlag("scan.tables", cmd.Flags().Lookup("tables"))
	_ = viper.BindPFlag("scan.rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("scan.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("scan.review", cmd.Flags().Lookup("review"))
	_ = viper.BindPFlag("scan.publish", cmd.Flags().Lookup("publish"))

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Per-invocation overrides land in viper before the engine is built.
	if v, _ := cmd.Flags().GetFloat64("threshold"); v != 0 {
		viper.Set("classification.threshold", v)
	}
	if v, _ := cmd.Flags().GetInt("workers"); v != 0 {
		viper.Set("scan.workers", v)
	}
	if v, _ := cmd.Flags().GetInt("sample-size"); v != 0 {
		viper.Set("scan.sample_size", v)
	}

	eng, cleanup, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	pattern := patternFromFlags(
		viper.GetString("scan.catalogs"),
		viper.GetString("scan.databases"),
		viper.GetString("scan.tables"))
	dryRun := viper.GetBool("scan.dry_run")

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Scanning %s", pattern)))

	var bar *progressbar.ProgressBar
	req := engine.ScanRequest{
		Pattern: pattern,
		Rules:   viper.GetString("scan.rules"),
		DryRun:  dryRun,
	}
	if !dryRun {
		req.Progress = func(done, total int, _ string) {
			if bar == nil {
				bar = newScanBar(total)
			}
			if err := bar.Set(done); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	result, err := eng.Scan(ctx, req)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if dryRun {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: %d read statements, nothing executed", len(result.Statements))))
		for _, statement := range result.Statements {
			fmt.Println("  " + statement)
		}
		return nil
	}

	printScanSummary(result)

	session := eng.Inspect(result)
	switch {
	case viper.GetBool("scan.publish"):
		session.AcceptAll()
	case viper.GetBool("scan.review"):
		interrupts := cli.NewInterruptHandler(os.Stdout)
		reviewCtx := interrupts.Watch(ctx)
		prompter := cli.NewReviewPrompter(os.Stdin, os.Stdout)
		if err := prompter.Review(reviewCtx, session); err != nil {
			return err
		}
	default:
		printProposals(session)
		fmt.Println(cli.SubtleStyle.Render("Re-run with --review or --publish to persist tags."))
		return nil
	}

	published, err := eng.Publish(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to publish tags: %w", err)
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Published %d tags (%d already present)",
		published.Inserted, published.Skipped)))
	return nil
}

func newScanBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Scanning tables...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func printScanSummary(result *model.ScanResult) {
	content := fmt.Sprintf("Tables scanned: %d\n", len(result.Tables)) +
		fmt.Sprintf("Column/rule records: %d\n", result.RecordCount()) +
		fmt.Sprintf("Tables skipped: %d\n", len(result.Skipped)) +
		fmt.Sprintf("Elapsed: %s", result.Elapsed.Round(time.Millisecond))
	fmt.Println(cli.RenderBox(fmt.Sprintf("%s Scan %s", cli.ScanIcon, result.RunID), content))

	for _, skip := range result.Skipped {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipped %s: %s", skip.Table, skip.Reason)))
	}
}

func printProposals(session *inspect.Session) {
	proposals := session.Proposals()
	if len(proposals) == 0 {
		fmt.Println(cli.FormatInfo("No column cleared the classification threshold."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() {
		_ = w.Flush()
	}()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Table"),
		cli.TableHeaderStyle.Render("Column"),
		cli.TableHeaderStyle.Render("Tag"),
		cli.TableHeaderStyle.Render("Frequency"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 30),
		strings.Repeat("-", 15),
		strings.Repeat("-", 15),
		strings.Repeat("-", 9))

	for _, p := range proposals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\n", p.Table, p.Column, p.Tag, p.Frequency*100)
	}
}
