package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nlnotebook/internal/cli/output"
	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

const replPrompt = "nlnotebook> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Ask questions interactively",
		Long: `Start an interactive session that keeps its own query history.

Every line is sent to the query service as a question. Lines starting with a
dot are commands; type .help to list them.`,
		Example: `  nlnotebook repl`,
		RunE:    runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cctx := NewCommandContext(cmd)
	page, err := cctx.terminalPage()
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     replHistoryFile(),
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	return replLoop(cmd, rl, cctx.Renderer, page, cctx.Cfg.QueryAPI.URL)
}

// lineReader is the part of readline the loop needs.
type lineReader interface {
	Readline() (string, error)
}

func replLoop(cmd *cobra.Command, rl lineReader, r *output.Renderer, page *workspace.Page, serviceURL string) error {
	r.Printf("NL Notebook REPL (query service: %s)\n", serviceURL)
	r.Println("Type .help for commands, .quit to exit")
	r.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(r, page.History, line); quit {
				return nil
			}
			continue
		}

		entry, err := submitAndFetch(cmd, page.Control, page.History, line)
		if err != nil {
			r.Error(err.Error())
			continue
		}
		if err := renderEntry(r, entry); err != nil {
			r.Error(err.Error())
		}
	}
}

// handleDotCommand runs a dot-command and reports whether the REPL should exit.
func handleDotCommand(r *output.Renderer, store *history.Store, line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".history":
		entries := store.Entries()
		if len(entries) == 0 {
			r.Println("No queries yet.")
			return false
		}
		for i, e := range entries {
			r.Printf("%2d. %s  %s\n", i+1, r.Badge(e.Reply.Status.String(), e.Reply.Succeeded()), e.Query)
		}

	case ".clear":
		r.Printf("\033[H\033[2J")

	default:
		r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .history        List this session's questions, newest first
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Any other line is sent to the query service as a question
  - Use arrow keys to navigate previous questions
`
	_, _ = fmt.Fprintln(w, help)
}

func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".history"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// replHistoryFile keeps line history in the user cache directory. An empty
// path disables it.
func replHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "nlnotebook")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}
