package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fxconvert/internal/currency"
)

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List supported currencies",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printCurrencies(cmd.OutOrStdout())
	},
}

func printCurrencies(w io.Writer) {
	for _, c := range currency.All() {
		fmt.Fprintf(w, "%-4s %-4s %s\n", c.Code, c.Symbol, c.Name)
	}
}
