package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lakesift/lakesift/internal/cli"
	"github.com/spf13/cobra"
)

func housekeepingCmd() *cobra.Command {
	var (
		catalogs  string
		databases string
		tables    string
	)

	cmd := &cobra.Command{
		Use:   "housekeeping",
		Short: "Collect maintenance statistics for tables",
		Long: `Collect row counts, size, and last maintenance time for every table
matching the pattern, as far as the warehouse exposes them. Tables the
warehouse cannot report on are listed with the reason; they never fail
the run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			pattern := patternFromFlags(catalogs, databases, tables)
			result, err := eng.Housekeeping(ctx, pattern)
			if err != nil {
				return err
			}

			if len(result.Stats) > 0 {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					cli.TableHeaderStyle.Render("Table"),
					cli.TableHeaderStyle.Render("Rows"),
					cli.TableHeaderStyle.Render("Size"),
					cli.TableHeaderStyle.Render("Columns"),
					cli.TableHeaderStyle.Render("Last maintained"))
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					strings.Repeat("-", 30),
					strings.Repeat("-", 10),
					strings.Repeat("-", 10),
					strings.Repeat("-", 7),
					strings.Repeat("-", 15))

				for _, s := range result.Stats {
					maintained := "unknown"
					if s.LastMaintained != nil {
						maintained = s.LastMaintained.Format("2006-01-02 15:04")
					}
					fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n",
						s.Table, s.RowCount, formatBytes(s.SizeBytes), s.ColumnCount, maintained)
				}
				_ = w.Flush()
			}

			for table, err := range result.Errors {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %v", table, err)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogs, "catalogs", "c", "*", "Catalog pattern")
	cmd.Flags().StringVarP(&databases, "databases", "d", "*", "Database pattern")
	cmd.Flags().StringVarP(&tables, "tables", "t", "*", "Table pattern")

	return cmd
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
