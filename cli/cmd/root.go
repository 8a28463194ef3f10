// Package cmd implements the sift command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "Forensic/OSINT correlation and relevance ranking",
	Long: `sift correlates forensic timeline events with open-source intelligence
and ranks OSINT items by evidentiary relevance.

Run the HTTP service, or correlate and rank directly from JSON files.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
}
