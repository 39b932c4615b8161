package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/triquad/triquad/catalog"
)

func (a *app) catalogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and prepare formula catalog documents",
	}
	c.AddCommand(a.catalogListCmd(), catalogNormalizeCmd(), catalogSortCmd())
	return c
}

func (a *app) catalogListCmd() *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "list",
		Short: "List the rules served by /api/formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.loader().Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				b, err := json.MarshalIndent(cat, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s\n", b)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tNODES\tWEIGHT SUM\tDESCRIPTION")
			for _, r := range cat.Rules() {
				fmt.Fprintf(tw, "%s\t%d\t%.6g\t%s\n", r.Name, len(r.Nodes), floats.Sum(r.Weights), r.Description)
			}
			return tw.Flush()
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return c
}

func catalogNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <legacy.json> [out.json]",
		Short: "Convert a {name: [[l1, l2, w], ...]} table into the catalog format",
		Long: `Convert a legacy table mapping names to [l1, l2, w] rows into the catalog
format {name: {"data": [...], "description": null}}, sorted by node count.
The input file is replaced when no output is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			doc, err := catalog.Normalize(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return writeDocument(cmd, doc, args)
		},
	}
}

func catalogSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort <catalog.json> [out.json]",
		Short: "Order a catalog document by ascending node count",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := catalog.ReadFile(args[0])
			if err != nil {
				return err
			}
			catalog.SortByNodeCount(doc)
			return writeDocument(cmd, doc, args)
		},
	}
}

// writeDocument writes to args[1], or back to args[0] when only one is given.
func writeDocument(cmd *cobra.Command, doc *catalog.Document, args []string) error {
	dst := args[len(args)-1]
	if err := catalog.WriteFile(dst, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d rule(s) written to %s\n", len(doc.Entries), dst)
	return nil
}
