package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lakesift/lakesift/internal/cli"
	"github.com/spf13/cobra"
)

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List published column tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := eng.Tags(ctx)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println(cli.FormatInfo("No tags published yet. Run 'lakesift scan' first."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Table"),
				cli.TableHeaderStyle.Render("Column"),
				cli.TableHeaderStyle.Render("Tag"),
				cli.TableHeaderStyle.Render("Published"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 30),
				strings.Repeat("-", 15),
				strings.Repeat("-", 15),
				strings.Repeat("-", 10))

			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.Table, e.Column, e.Tag, e.PublishedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}
