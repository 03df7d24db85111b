package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List the material grades",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := calculator()
		if err != nil {
			return err
		}
		def := c.Catalog.Default().Name
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Grade\tYield [N/mm2]\tDescription")
		for _, g := range c.Catalog.Grades() {
			name := g.Name
			if name == def {
				name += " *"
			}
			fmt.Fprintf(w, "%s\t%.0f\t%s\n", name, g.YieldStress, g.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(gradesCmd)
}
