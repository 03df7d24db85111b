package main

import (
	"os"
	"time"

	"Jibcrane/internal/calc/report"

	"github.com/spf13/cobra"
)

var (
	reportOut  string
	reportMeta report.Input
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a PDF calculation report",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		f, err := os.Create(reportOut)
		if err != nil {
			return err
		}
		if err := report.Write(f, reportMeta, res, time.Now()); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addCraneFlags(reportCmd)
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "crane-report.pdf", "output file")
	reportCmd.Flags().StringVar(&reportMeta.Project, "project", "", "project name")
	reportCmd.Flags().StringVar(&reportMeta.Author, "author", "", "author")
	reportCmd.Flags().StringVar(&reportMeta.Title, "title", "", "report title")
	reportCmd.Flags().StringVar(&reportMeta.Notes, "notes", "", "free text appended to the report")
}
