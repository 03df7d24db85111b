package main

import (
	"encoding/json"
	"fmt"
	"os"

	"Jibcrane/internal/calc/crane"
	"Jibcrane/internal/calc/material"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	gradesFile string
	params     = crane.Defaults()
	yieldFlag  float64
)

var rootCmd = &cobra.Command{
	Use:   "cranecalc",
	Short: "Pipe-frame jib crane calculator",
	Long: `cranecalc builds the pipe-frame jib crane for the given dimensions,
solves it as a linear-elastic 3-D frame and checks the member bending
stresses against the yield stress of the chosen grade.

Lengths are in mm, mass in kg, stresses in N/mm2.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "JSON request file; flags override its fields")
	rootCmd.PersistentFlags().StringVar(&gradesFile, "grades", "", "YAML grade catalog replacing the built-in one")
}

// addCraneFlags binds the crane parameters to cmd.
func addCraneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&params.PipeOD, "pipe-od", params.PipeOD, "tube outer diameter")
	f.Float64Var(&params.TWall, "t-wall", params.TWall, "tube wall thickness")
	f.Float64Var(&params.BaseLen, "base-len", params.BaseLen, "base length along X")
	f.Float64Var(&params.BaseWid, "base-wid", params.BaseWid, "base width along Y")
	f.Float64Var(&params.ArmPivotHeight, "arm-pivot-height", params.ArmPivotHeight, "arm pivot height above the base datum")
	f.Float64Var(&params.TripodAttachHeight, "tripod-attach-height", params.TripodAttachHeight, "tripod leg attachment height")
	f.Float64Var(&params.BraceMastHeight, "brace-mast-height", params.BraceMastHeight, "arm brace foot height")
	f.Float64Var(&params.ArmLen, "arm-len", params.ArmLen, "arm length")
	f.Float64Var(&params.ArmAngle, "arm-angle", params.ArmAngle, "arm direction in degrees from +X")
	f.Float64Var(&params.MassTip, "mass", params.MassTip, "suspended mass at the arm tip in kg")
	f.Float64Var(&yieldFlag, "yield", 0, "yield stress override")
	f.StringVar(&params.Grade, "grade", "", "material grade (default STK400)")
	f.StringVar((*string)(&params.Combination), "combination", string(params.Combination), "load combination: service or uls")
}

// craneInput merges the input file with the flags the user set.
func craneInput(cmd *cobra.Command) (crane.Input, error) {
	var in crane.Input
	if inputFile != "" {
		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return in, err
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return in, fmt.Errorf("parse %s: %w", inputFile, err)
		}
	}
	set := map[string]**float64{
		"pipe-od":              &in.PipeOD,
		"t-wall":               &in.TWall,
		"base-len":             &in.BaseLen,
		"base-wid":             &in.BaseWid,
		"arm-pivot-height":     &in.ArmPivotHeight,
		"tripod-attach-height": &in.TripodAttachHeight,
		"brace-mast-height":    &in.BraceMastHeight,
		"arm-len":              &in.ArmLen,
		"arm-angle":            &in.ArmAngle,
		"mass":                 &in.MassTip,
		"yield":                &in.YieldStress,
	}
	for name, dst := range set {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(name)
		if err != nil {
			return in, err
		}
		*dst = &v
	}
	if cmd.Flags().Changed("grade") {
		in.Grade = params.Grade
	}
	if cmd.Flags().Changed("combination") {
		in.Combination = string(params.Combination)
	}
	return in, nil
}

func calculator() (*crane.Calculator, error) {
	c := crane.New()
	if gradesFile == "" {
		return c, nil
	}
	raw, err := os.ReadFile(gradesFile)
	if err != nil {
		return nil, err
	}
	cat, err := material.ParseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", gradesFile, err)
	}
	c.Catalog = cat
	return c, nil
}
