package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nlnotebook/internal/cli/output"
	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/submit"
)

// ErrQueryFailed is returned when the query service could not answer.
var ErrQueryFailed = errors.New("error sending query")

// ErrNoQuery is returned when ask gets no text from its arguments or stdin.
var ErrNoQuery = errors.New("no query given")

// AskOptions holds options for the ask command.
type AskOptions struct {
	Format string
}

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	opts := &AskOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the query service one question",
		Long: `Send a natural-language question to the query service and print the
answer: status, explanation, generated SQL and the returned rows.

The question is read from the arguments, or from stdin when none are given.`,
		Example: `  # Ask a question
  nlnotebook ask "Show active users"

  # Pipe a question in and print JSON
  echo "How many orders shipped today?" | nlnotebook ask --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json (default: --output)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string, opts *AskOptions) error {
	cctx := NewCommandContext(cmd)
	r := cctx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && isTerminal(f) {
			return ErrNoQuery
		}
		content, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		query = strings.TrimSpace(string(content))
	}
	if query == "" {
		return ErrNoQuery
	}

	page, err := cctx.terminalPage()
	if err != nil {
		return err
	}

	entry, err := submitAndFetch(cmd, page.Control, page.History, query)
	if err != nil {
		return err
	}
	return renderEntry(r, entry)
}

// submitAndFetch sends query and returns the entry it produced.
func submitAndFetch(cmd *cobra.Command, control *submit.Control, store *history.Store, query string) (history.Entry, error) {
	status, err := control.Submit(cmd.Context(), query, store.Record)
	if err != nil {
		return history.Entry{}, err
	}
	switch status {
	case submit.StatusCompleted:
		entries := store.Entries()
		if len(entries) == 0 {
			// The malformed reply was dropped by policy.
			return history.Entry{}, fmt.Errorf("%w: reply discarded", ErrQueryFailed)
		}
		return entries[0], nil
	case submit.StatusSkipped:
		return history.Entry{}, ErrNoQuery
	default:
		return history.Entry{}, ErrQueryFailed
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
