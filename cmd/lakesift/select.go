package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/lakesift/lakesift/internal/cli"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/spf13/cobra"
)

func selectCmd() *cobra.Command {
	var (
		catalogs  string
		databases string
		tables    string
		byTags    []string
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Project tagged columns across tables",
		Long: `Select the values of every column carrying one of the requested tags,
across all tables matching the pattern. Each output row pairs the
source table with the tagged column values of one source row.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			pattern := patternFromFlags(catalogs, databases, tables)
			rows, err := eng.SelectByTags(ctx, pattern, byTags)
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Println(cli.FormatInfo("No tagged columns in the matching tables."))
				return nil
			}

			printTaggedRows(rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogs, "catalogs", "c", "*", "Catalog pattern")
	cmd.Flags().StringVarP(&databases, "databases", "d", "*", "Database pattern")
	cmd.Flags().StringVarP(&tables, "tables", "t", "*", "Table pattern")
	cmd.Flags().StringSliceVar(&byTags, "tags", nil, "Tags identifying the columns to project (required)")
	_ = cmd.MarkFlagRequired("tags")

	return cmd
}

// printTaggedRows renders one line per source row: table, then
// tag=column:value triples sorted by tag.
func printTaggedRows(rows []model.ResultRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() {
		_ = w.Flush()
	}()

	fmt.Fprintf(w, "%s\t%s\n",
		cli.TableHeaderStyle.Render("Table"),
		cli.TableHeaderStyle.Render("Tagged values"))

	for _, row := range rows {
		tags := make([]string, 0, len(row.Tagged))
		for tag := range row.Tagged {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		var parts []string
		for _, tag := range tags {
			for _, tc := range row.Tagged[tag] {
				parts = append(parts, fmt.Sprintf("%s=%s:%s", tag, tc.Column, tc.Value))
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", row.Table, strings.Join(parts, "  "))
	}
}
