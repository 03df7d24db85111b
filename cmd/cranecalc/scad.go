package main

import (
	"os"

	"Jibcrane/internal/calc/crane"
	"Jibcrane/internal/export/scad"

	"github.com/spf13/cobra"
)

var scadOut string

var scadCmd = &cobra.Command{
	Use:   "scad",
	Short: "Export the crane geometry as an OpenSCAD model",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := craneInput(cmd)
		if err != nil {
			return err
		}
		p, err := crane.Resolve(in)
		if err != nil {
			return err
		}
		m, err := crane.BuildModel(p)
		if err != nil {
			return err
		}
		if scadOut == "" || scadOut == "-" {
			return scad.Write(cmd.OutOrStdout(), m.Frame, p.PipeOD)
		}
		f, err := os.Create(scadOut)
		if err != nil {
			return err
		}
		if err := scad.Write(f, m.Frame, p.PipeOD); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(scadCmd)
	addCraneFlags(scadCmd)
	scadCmd.Flags().StringVarP(&scadOut, "output", "o", "crane_model.scad", "output file, - for stdout")
}
