package main

import (
	"fmt"
	"strings"

	"github.com/lakesift/lakesift/internal/cli"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		catalogs  string
		databases string
		tables    string
		byTags    []string
	)

	cmd := &cobra.Command{
		Use:   "search <value>",
		Short: "Find a value in every column carrying one of the tags",
		Long: `Search every table matching the pattern for rows where a tagged
column equals the given value. Only columns carrying one of the
requested tags are checked; results carry the table they came from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			pattern := patternFromFlags(catalogs, databases, tables)
			rows, err := eng.Search(ctx, args[0], pattern, byTags)
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Println(cli.FormatInfo("No matching rows."))
				return nil
			}

			printResultRows(rows)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d rows matched.", len(rows))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogs, "catalogs", "c", "*", "Catalog pattern")
	cmd.Flags().StringVarP(&databases, "databases", "d", "*", "Database pattern")
	cmd.Flags().StringVarP(&tables, "tables", "t", "*", "Table pattern")
	cmd.Flags().StringSliceVar(&byTags, "tags", nil, "Tags identifying the columns to search (required)")
	_ = cmd.MarkFlagRequired("tags")

	return cmd
}

// printResultRows renders full rows grouped by source table.
func printResultRows(rows []model.ResultRow) {
	var lastTable string
	for _, row := range rows {
		if table := row.Table.String(); table != lastTable {
			fmt.Println(cli.TitleStyle.Render(cli.TableIcon + " " + table))
			lastTable = table
		}

		pairs := make([]string, 0, len(row.Columns))
		for i, col := range row.Columns {
			pairs = append(pairs, fmt.Sprintf("%s=%s", col, row.Values[i]))
		}
		fmt.Println("  " + strings.Join(pairs, "  "))
	}
}
