package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lakesift/lakesift/internal/catalog"
	"github.com/lakesift/lakesift/internal/cli"
	"github.com/lakesift/lakesift/internal/rules"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules [filter]",
		Short: "List classification rules",
		Long: `List the built-in and configured custom rules, with the tag each one
emits. The optional filter uses the same syntax as table patterns:
"*", a rule name, or a comma list of names.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			filter := "*"
			if len(args) > 0 {
				filter = args[0]
			}

			cfg, err := engineConfig()
			if err != nil {
				return err
			}
			set, err := rules.NewSet(cfg.CustomRules)
			if err != nil {
				return err
			}

			f, err := catalog.CompileFilter(filter)
			if err != nil {
				return err
			}
			var matched []*rules.Rule
			for _, r := range set.All() {
				if f.Match(r.Name) {
					matched = append(matched, r)
				}
			}
			if len(matched) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("No rules match %q.", filter)))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Kind"),
				cli.TableHeaderStyle.Render("Tag"),
				cli.TableHeaderStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 9),
				strings.Repeat("-", 15),
				strings.Repeat("-", 40))

			for _, r := range matched {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.Name, r.Kind, r.EffectiveTag(cfg.TagPrefix), r.Description)
			}
			return nil
		},
	}
}
