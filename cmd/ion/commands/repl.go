package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
	"github.com/panyam/ion/console"
	"github.com/panyam/ion/loader"
	"github.com/panyam/ion/runtime"
	"github.com/spf13/cobra"
)

// Characters that end the word being completed.
const completionSeparators = " \t+-*/%()[]{},;:<>"

var (
	plainREPL   bool
	historyFile string
)

var replCmd = &cobra.Command{
	Use:     "repl [file.io...]",
	Aliases: []string{"console"},
	Short:   "Start an interactive session",
	Long: `Starts a read-eval-print loop. Bindings persist across lines, a failing
line leaves earlier bindings intact, and a statement may span several
lines. Files given as arguments are loaded first.

Type .help inside the session for its commands. History is kept in
--history-file (default ~/.ion_history).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("history-file") {
			cfg.HistoryFile = historyFile
		}
		// input() and the plain loop share one reader so neither reads ahead of the other.
		in := bufio.NewReader(cmd.InOrStdin())
		host := &runtime.Host{Stdout: cmd.OutOrStdout(), Stdin: in}
		session := console.NewSession(cfg, host, loader.NewLocalFS(""))
		for _, path := range args {
			if _, err := session.Exec(".load " + path); err != nil {
				printError(cmd.ErrOrStderr(), err)
			}
		}

		if plainREPL || !isatty.IsTerminal(os.Stdin.Fd()) {
			return plainLoop(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), session)
		}
		return promptLoop(cmd, session)
	},
}

// report writes one line's outcome. It returns false when the session should end.
func report(out, errOut io.Writer, res console.Result, err error) bool {
	if res.Tree != "" {
		fmt.Fprintln(errOut, dimLabel(res.Tree))
	}
	if errors.Is(err, console.ErrExit) {
		return false
	}
	if err != nil {
		printError(errOut, err)
		return true
	}
	if res.Output != "" {
		fmt.Fprintln(out, res.Output)
	}
	return true
}

// plainLoop reads lines without any terminal handling, for pipes and scripts.
func plainLoop(in *bufio.Reader, out, errOut io.Writer, session *console.Session) error {
	for {
		line, err := in.ReadString('\n')
		if line != "" {
			res, execErr := session.Exec(strings.TrimRight(line, "\r\n"))
			if !report(out, errOut, res, execErr) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	if session.Pending() {
		printError(errOut, fmt.Errorf("unexpected end of input inside a statement"))
	}
	return nil
}

// watchInterrupt calls onSignal on SIGINT or SIGTERM until stop is called.
// stop returns once the watching goroutine has exited.
func watchInterrupt(onSignal func()) (stop func()) {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	exited := make(chan struct{})
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer close(exited)
		select {
		case <-signals:
			onSignal()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
		<-exited
	}
}

func promptLoop(cmd *cobra.Command, session *console.Session) error {
	historyPath := cfg.HistoryFile
	if historyPath == "" {
		historyPath = console.DefaultHistoryPath()
	}
	history, err := console.LoadHistory(historyPath)
	if err != nil {
		runtime.Warn("could not read history from %s: %v", historyPath, err)
	}
	saveHistory := func() {
		if err := history.Save(); err != nil {
			runtime.Warn("could not save history to %s: %v", historyPath, err)
		}
	}

	stop := watchInterrupt(func() {
		saveHistory()
		os.Exit(0)
	})
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "ion %s. Type .help for commands, Ctrl+D to quit.\n", Version)

	exiting := false
	executor := func(line string) {
		history.Add(line)
		res, err := session.Exec(line)
		if !report(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, err) {
			exiting = true
		}
	}
	completer := func(d prompt.Document) []prompt.Suggest {
		if d.TextBeforeCursor() == "" {
			return nil
		}
		word := d.GetWordBeforeCursorUntilSeparator(completionSeparators)
		var out []prompt.Suggest
		for _, c := range session.Completions(word) {
			out = append(out, prompt.Suggest{Text: c.Text, Description: c.Description})
		}
		return out
	}

	p := prompt.New(
		executor,
		completer,
		prompt.OptionTitle("ion"),
		prompt.OptionPrefix(cfg.Prompt),
		prompt.OptionLivePrefix(func() (string, bool) { return session.Prompt(), true }),
		prompt.OptionHistory(history.Lines),
		prompt.OptionPrefixTextColor(prompt.Yellow),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSelectedSuggestionTextColor(prompt.Black),
		prompt.OptionDescriptionBGColor(prompt.DarkGray),
		prompt.OptionDescriptionTextColor(prompt.White),
		prompt.OptionCompletionWordSeparator(completionSeparators),
		prompt.OptionMaxSuggestion(10),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && exiting
		}),
	)
	p.Run()
	saveHistory()
	return nil
}

func init() {
	replCmd.Flags().BoolVar(&plainREPL, "plain", false, "Read plain lines from stdin without line editing")
	replCmd.Flags().StringVar(&historyFile, "history-file", "", "Where to keep command history")
	AddCommand(replCmd)
}
