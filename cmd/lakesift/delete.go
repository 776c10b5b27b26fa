package main

import (
	"fmt"

	"github.com/lakesift/lakesift/internal/cli"
	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	var (
		catalogs  string
		databases string
		tables    string
		byTag     string
		values    []string
		confirm   bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete rows by tagged column values",
		Long: `Delete the rows whose tagged column holds one of the given values, in
every table matching the pattern that carries the tag.

Without --confirm nothing is executed: the compiled delete statements
are printed as a plan. Pass --confirm to execute them. Each table's
delete runs independently; a failure in one table does not roll back
the others.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			pattern := patternFromFlags(catalogs, databases, tables)
			result, err := eng.DeleteByTag(ctx, pattern, byTag, values, confirm)
			if err != nil {
				return err
			}

			if len(result.Plan.Statements) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("No table carries tag %q in the matching pattern.", byTag)))
				return nil
			}

			if !confirm {
				fmt.Println(cli.FormatWarning("Preview only. Re-run with --confirm to execute."))
				for _, statement := range result.Plan.Statements {
					fmt.Println("  " + statement.SQL)
				}
				return nil
			}

			for _, t := range result.Tables {
				if t.Err != nil {
					fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", t.Table, t.Err)))
					continue
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: %d rows deleted", t.Table, t.RowsDeleted)))
			}

			if failed := result.Failed(); len(failed) > 0 {
				return fmt.Errorf("delete failed on %d of %d tables", len(failed), len(result.Tables))
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %d rows total.", result.TotalDeleted())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogs, "catalogs", "c", "*", "Catalog pattern")
	cmd.Flags().StringVarP(&databases, "databases", "d", "*", "Database pattern")
	cmd.Flags().StringVarP(&tables, "tables", "t", "*", "Table pattern")
	cmd.Flags().StringVar(&byTag, "tag", "", "Tag identifying the columns to filter on (required)")
	cmd.Flags().StringSliceVar(&values, "values", nil, "Values to delete rows for (required)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Execute the delete instead of previewing it")
	_ = cmd.MarkFlagRequired("tag")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}
