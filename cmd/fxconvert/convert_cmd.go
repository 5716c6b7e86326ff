package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fxconvert/internal/form"
)

var convertCmd = &cobra.Command{
	Use:   "convert AMOUNT",
	Short: "Convert an amount once through the provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from == "" {
			from = cfg.Converter.From
		}
		if to == "" {
			to = cfg.Converter.To
		}

		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		m, err := form.NewManual(a.provider, from, to, logger)
		if err != nil {
			return err
		}
		if swap, _ := cmd.Flags().GetBool("swap"); swap {
			m.Swap()
		}
		m.SetAmount(args[0])

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runManual(ctx, m, cmd.OutOrStdout(), time.Local)
	},
}

func init() {
	convertCmd.Flags().String("from", "", "source currency code (default from config)")
	convertCmd.Flags().String("to", "", "target currency code (default from config)")
	convertCmd.Flags().Bool("swap", false, "swap the currencies before converting")
}

// runManual presses Convert once and prints the result panel or the banner.
func runManual(ctx context.Context, m *form.Manual, out io.Writer, loc *time.Location) error {
	err := m.Convert(ctx)
	s := m.State()
	if err != nil {
		fmt.Fprintln(out, color.New(color.FgRed, color.Bold).Sprint(s.Error))
		return err
	}
	lines := form.Summary(*s.Result, loc)
	fmt.Fprintln(out, color.New(color.FgGreen, color.Bold).Sprint(lines[0]))
	for _, l := range lines[1:] {
		fmt.Fprintln(out, color.New(color.Faint).Sprint(l))
	}
	return nil
}
