package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fxconvert/internal/form"
)

const liveCmdLong = `Reads commands from stdin and converts as you type.

  s AMOUNT    edit the source amount
  t AMOUNT    edit the target amount
  from CODE   select the source currency
  to CODE     select the target currency
  swap        exchange currencies and amounts
  show        print the current state
  quit        exit`

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Interactive two-field converter with debounced auto-conversion",
	Long:  liveCmdLong,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		ctrl, err := form.NewController(a.engine, form.ControllerConfig{
			SourceCurrency: cfg.Converter.From,
			TargetCurrency: cfg.Converter.To,
			Debounce:       cfg.Converter.Debounce(),
			Logger:         logger,
		})
		if err != nil {
			return err
		}
		defer ctrl.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		a.serveMetrics(ctx, cfg.Metrics.Addr, logger)

		return runLive(ctx, ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var errQuit = errors.New("quit")

type command struct {
	name string
	arg  string
}

var aliases = map[string]string{
	"s":      "source",
	"source": "source",
	"t":      "target",
	"target": "target",
	"from":   "from",
	"to":     "to",
	"swap":   "swap",
	"show":   "show",
	"help":   "help",
	"q":      "quit",
	"quit":   "quit",
	"exit":   "quit",
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, nil
	}
	name, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	arg := strings.Join(fields[1:], " ")
	switch name {
	case "source", "target":
		// an empty argument clears the field
	case "from", "to":
		if arg == "" {
			return command{}, fmt.Errorf("%s needs a currency code", name)
		}
	default:
		if arg != "" {
			return command{}, fmt.Errorf("%s takes no argument", name)
		}
	}
	return command{name: name, arg: arg}, nil
}

func apply(ctrl *form.Controller, c command) error {
	switch c.name {
	case "source":
		ctrl.EditSource(c.arg)
	case "target":
		ctrl.EditTarget(c.arg)
	case "from":
		return ctrl.SetSourceCurrency(c.arg)
	case "to":
		return ctrl.SetTargetCurrency(c.arg)
	case "swap":
		ctrl.Swap()
	case "quit":
		return errQuit
	}
	return nil
}

// render draws the two fields, the loading marker and the error banner.
func render(s form.State) string {
	mark := func(p form.Provenance) string {
		if s.Provenance == p {
			return "*"
		}
		return " "
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s  <->  %s%s %s",
		mark(form.ProvenanceSource), s.SourceCurrency, field(s.SourceAmount),
		mark(form.ProvenanceTarget), s.TargetCurrency, field(s.TargetAmount))
	if s.Loading {
		b.WriteString(color.New(color.FgYellow).Sprint("  converting..."))
	}
	if s.Error != "" {
		b.WriteString("\n")
		b.WriteString(color.New(color.FgRed, color.Bold).Sprint(s.Error))
	}
	return b.String()
}

func field(v string) string {
	if v == "" {
		return "_"
	}
	return v
}

// runLive feeds stdin lines to the controller and re-renders on every
// change until quit, EOF or ctx is done. On EOF it waits for pending
// conversions so piped input still prints its result.
func runLive(ctx context.Context, ctrl *form.Controller, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	last := ""
	emit := func(s string, force bool) {
		mu.Lock()
		defer mu.Unlock()
		if s == last && !force {
			return
		}
		last = s
		fmt.Fprintln(out, s)
	}
	ctrl.Subscribe(func(s form.State) { emit(render(s), false) })
	emit(render(ctrl.State()), true)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// input ended: let the last edit finish converting
				if err := ctrl.Wait(ctx); err != nil {
					return nil
				}
				emit(render(ctrl.State()), false)
				return nil
			}
			c, err := parseCommand(line)
			if err != nil {
				emit(color.New(color.FgRed).Sprint(err.Error()), true)
				continue
			}
			switch c.name {
			case "":
				continue
			case "show":
				emit(render(ctrl.State()), true)
				continue
			case "help":
				emit(liveCmdHelp(), true)
				continue
			}
			if err := apply(ctrl, c); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				emit(color.New(color.FgRed).Sprint(err.Error()), true)
			}
		}
	}
}

func liveCmdHelp() string {
	_, help, _ := strings.Cut(liveCmdLong, "\n\n")
	return help
}
