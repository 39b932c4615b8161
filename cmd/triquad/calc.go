package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	triquad "github.com/triquad/triquad/core"
)

func (a *app) calcCmd() *cobra.Command {
	var (
		vertices string
		rule     string
		nodes    string
		all      bool
	)

	c := &cobra.Command{
		Use:   "calc <function>",
		Short: "Integrate a LaTeX function of x and y over a triangle",
		Example: `  triquad calc '\sin(x) + y^2' --rule dunavant_7
  triquad calc 'xy' --vertices 0,0,2,0,0,2 --nodes '0.5,0,0.1667;0.5,0.5,0.1667;0,0.5,0.1667'
  triquad calc '\frac{1}{1+x}' --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseVertices(vertices)
			if err != nil {
				return err
			}
			f, err := triquad.ParseFunc(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if all {
				c, err := a.loader().Load(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "RULE\tNODES\tRESULT")
				for _, r := range c.Rules() {
					v, err := triquad.EvaluateFunc(t, f, r.Nodes, r.Weights)
					if err != nil {
						return fmt.Errorf("%s: %w", r.Name, err)
					}
					fmt.Fprintf(tw, "%s\t%d\t%.15g\n", r.Name, len(r.Nodes), v)
				}
				return tw.Flush()
			}

			r, err := a.selectRule(cmd.Context(), rule, nodes, true)
			if err != nil {
				return err
			}
			if err := r.Validate(); err != nil {
				return err
			}
			v, err := triquad.EvaluateFunc(t, f, r.Nodes, r.Weights)
			if err != nil {
				return err
			}
			a.log.Debug("calc", "func", f.String(), "rule", r.Name, "nodes", len(r.Nodes))
			fmt.Fprintf(out, "%.15g\n", v)
			return nil
		},
	}

	c.Flags().StringVar(&vertices, "vertices", defaultVertices, "triangle as x1,y1,x2,y2,x3,y3")
	c.Flags().StringVarP(&rule, "rule", "r", "", "catalog rule name")
	c.Flags().StringVarP(&nodes, "nodes", "n", "", "custom rule as l1,l2,w;l1,l2,w;...")
	c.Flags().BoolVar(&all, "all", false, "integrate with every catalog rule")
	return c
}
