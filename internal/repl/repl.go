// Package repl is the line-oriented command interface to the ledger.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"finbot/internal/core"
	"finbot/internal/ledger"
	"finbot/internal/log"
)

const helpText = `Commands:
  log [category] [amount]         - Record expense
  summary                         - Show budget status
  plot                            - Visualize spending
  add [category] [budget]         - Create or update a category
  set income [amount]             - Set monthly income
  add debt [name] [balance] [apr] - Add debt
  recommend                       - Get personalized advice
  health                          - Check financial health
  plan debt [method]              - Debt payoff plan (avalanche/snowball)
  ask [question]                  - Get financial advice
  save                            - Save progress
  load                            - Load previous data
  help                            - Show this list
  quit                            - Save and exit`

const plotWidth = 40

type REPL struct {
	ledger *ledger.Ledger
	in     *bufio.Scanner
	out    io.Writer
	st     styles
	logger *log.Logger

	// loadFailed is set while the stored document could not be read back.
	// Quit does not overwrite it until an explicit save or a good load.
	loadFailed bool
}

type Option func(*REPL)

func WithLogger(logger *log.Logger) Option {
	return func(r *REPL) { r.logger = logger.WithComponent(log.ComponentREPL) }
}

func New(l *ledger.Ledger, in io.Reader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		ledger: l,
		in:     bufio.NewScanner(in),
		out:    out,
		st:     newStyles(out),
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads saved data, prints the banner and processes commands until quit,
// end of input or ctx cancellation. Quit and end of input both save first,
// unless the stored document failed to load.
func (r *REPL) Run(ctx context.Context) error {
	r.load(ctx)
	r.println()
	r.println(r.st.title.Render("💡 FinBot - Smart Money Management"))
	r.println(helpText)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, "\n"+r.st.prompt.Render(">")+" ")
		if !r.in.Scan() {
			if err := r.in.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			r.println()
			r.quit(ctx)
			return nil
		}
		if r.Execute(ctx, r.in.Text()) {
			return nil
		}
	}
}

// Execute runs a single command line and reports whether the session should
// end.
func (r *REPL) Execute(ctx context.Context, line string) bool {
	cmd := strings.ToLower(strings.TrimSpace(line))
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}

	switch {
	case cmd == "quit" || cmd == "exit":
		r.quit(ctx)
		return true
	case cmd == "help":
		r.println(helpText)
	case cmd == "summary":
		r.summary()
	case cmd == "plot":
		r.plot()
	case cmd == "recommend":
		r.recommend()
	case cmd == "health":
		r.health()
	case cmd == "save":
		r.save(ctx)
	case cmd == "load":
		r.load(ctx)
	case fields[0] == "log":
		r.logExpense(fields[1:])
	case fields[0] == "add" && len(fields) > 1 && fields[1] == "debt":
		r.addDebt(fields[2:])
	case fields[0] == "add":
		r.addBudget(fields[1:])
	case fields[0] == "set" && len(fields) > 1 && fields[1] == "income":
		r.setIncome(fields[2:])
	case fields[0] == "plan" && len(fields) > 1 && fields[1] == "debt":
		r.planDebt(fields[2:])
	case fields[0] == "ask":
		r.ask(strings.TrimSpace(strings.TrimPrefix(cmd, "ask")))
	default:
		r.println(r.st.formatError("Unknown command. Type 'help' for options"))
	}
	return false
}

func (r *REPL) println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

func (r *REPL) usage(err error, usage string) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		r.println(r.st.formatError(ve.Error()))
	}
	r.println(r.st.formatError("Use: " + usage))
}
