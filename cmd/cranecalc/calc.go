package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"Jibcrane/internal/calc/crane"

	"github.com/spf13/cobra"
)

var calcJSON bool

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Solve the crane and check member stresses",
	Example: `  cranecalc calc --mass 80 --arm-len 1200
  cranecalc calc -i crane.json --grade STK500 --json`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	addCraneFlags(calcCmd)
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the result document as JSON")
}

func runCalc(cmd *cobra.Command, args []string) error {
	in, err := craneInput(cmd)
	if err != nil {
		return err
	}
	c, err := calculator()
	if err != nil {
		return err
	}
	res, err := c.Calculate(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if calcJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "Tube %s, grade %s (yield %.0f N/mm2), %s\n\n", res.Section.Name, res.Grade, res.YieldStress, res.Combination)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Member\tElements\tM max [N mm]\tStress [N/mm2]\t\t")
	failed := map[string]bool{}
	for _, f := range res.Failures {
		failed[f] = true
	}
	for _, name := range crane.MemberNames() {
		mr := res.MemberResults[name]
		mark := ""
		if failed[name] {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.1f\t%s\t\n", name, len(mr.Elements), mr.MaxMoment, mr.MaxStress, mark)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTip deflection: dx %.3f  dy %.3f  dz %.3f mm\n",
		res.TipDisplacement.DX, res.TipDisplacement.DY, res.TipDisplacement.DZ)
	fmt.Fprintf(out, "Reactions FZ:  ")
	for _, c := range crane.Corners {
		fmt.Fprintf(out, " %s %.1f N", c, res.Reactions[c])
	}
	fmt.Fprintf(out, "\nMax stress:     %.1f N/mm2\n", res.MaxStress)
	if !res.OK {
		return fmt.Errorf("members above yield: %s", strings.Join(res.Failures, ", "))
	}
	fmt.Fprintln(out, "All members below yield.")
	return nil
}
