package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "obs",
	Short: "Consolidated order book observer",
}
