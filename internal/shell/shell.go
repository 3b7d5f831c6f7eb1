// Package shell wires terminal, history, configuration, logging, and the
// executor together into the interactive REPL.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arvalan/poshell/internal/builtins"
	"github.com/arvalan/poshell/internal/config"
	"github.com/arvalan/poshell/internal/env"
	"github.com/arvalan/poshell/internal/executor"
	"github.com/arvalan/poshell/internal/history"
	"github.com/arvalan/poshell/internal/logging"
	"github.com/arvalan/poshell/internal/pathresolver"
	"github.com/arvalan/poshell/internal/shellenv"
	"github.com/arvalan/poshell/internal/terminal"
	"go.uber.org/zap"
)

// candidateSource feeds the LineEditor's TAB completion from the fixed
// builtin set plus PATH-resolved executables.
type candidateSource struct {
	resolver *pathresolver.Resolver
}

func (c candidateSource) BuiltinNames() []string { return builtins.Names }
func (c candidateSource) Completions(prefix string) []string {
	return c.resolver.SortedCompletions(prefix)
}

// Shell owns every long-lived component of one interactive session: the
// terminal, line editor, history, executor, and ambient config/logging.
type Shell struct {
	cfg      *config.Config
	term     *terminal.Terminal
	colors   *terminal.ColorScheme
	editor   *terminal.LineEditor
	hist     *history.History
	resolver *pathresolver.Resolver
	ex       *executor.Executor
	logger   *zap.SugaredLogger
	syncLog  func() error
	watcher  *config.Watcher

	stdout io.Writer
	stderr io.Writer
}

// New builds a Shell from the process environment and ambient config. It
// loads the history file if one exists, opens the structured logger, and
// enters raw terminal mode if attached to a TTY.
func New() (*Shell, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sessionID := logging.NewSessionID()
	logger, syncLog, err := logging.New(cfg.Logging.File, cfg.Logging.Level, sessionID)
	if err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}

	term, err := terminal.New()
	if err != nil {
		syncLog()
		return nil, fmt.Errorf("opening terminal: %w", err)
	}

	histFile := shellenv.HistFile()
	hist := history.New(cfg.History.MaxSize)
	if err := hist.LoadFromFile(histFile); err != nil {
		logger.Warnw("loading history file", "file", histFile, "error", err)
	}

	resolver := pathresolver.New(shellenv.PathDirs())
	environment := env.New()

	workDir, err := os.Getwd()
	if err != nil {
		workDir = shellenv.Home()
	}

	ex := executor.New(
		executor.WithResolver(resolver),
		executor.WithEnv(environment),
		executor.WithTerminal(term),
		executor.WithLogger(logger),
		executor.WithWorkDir(workDir),
		executor.WithStdio(os.Stdin, os.Stdout, os.Stderr),
	)

	runner := builtins.New(
		builtins.WithEnv(environment),
		builtins.WithHistory(hist),
		builtins.WithResolver(resolver),
		builtins.WithWorkDir(ex.WorkDir, ex.SetWorkDir),
		builtins.WithLastStatus(ex.LastStatus),
	)
	ex.SetBuiltins(runner)

	editor := terminal.NewLineEditor(term, hist, candidateSource{resolver: resolver})

	s := &Shell{
		cfg:      cfg,
		term:     term,
		colors:   terminal.NewColorScheme(&cfg.Colors),
		editor:   editor,
		hist:     hist,
		resolver: resolver,
		ex:       ex,
		logger:   logger,
		syncLog:  syncLog,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}

	if w, err := config.Watch(config.ConfigPath(), s.onConfigReload); err != nil {
		logger.Debugw("config watch disabled", "error", err)
	} else {
		s.watcher = w
	}

	return s, nil
}

func (s *Shell) onConfigReload(cfg *config.Config) {
	s.cfg = cfg
	s.colors = terminal.NewColorScheme(&cfg.Colors)
	s.logger.Infow("config reloaded")
}

// Run drives the REPL until EOF (Ctrl+D on an empty line) or an `exit`
// builtin fires, then persists history and flushes the logger.
func (s *Shell) Run(ctx context.Context) int {
	defer s.shutdown()

	status := 0
	for {
		s.writePrompt()

		line, err := s.editor.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.stdout)
			break
		}
		if err != nil {
			s.logger.Errorw("reading line", "error", err)
			break
		}

		s.hist.Add(line)

		result, err := s.ex.ExecuteLine(ctx, line)
		if err != nil {
			s.logger.Errorw("executing line", "error", err)
			continue
		}
		status = result.Code
		if result.Exit {
			break
		}
	}

	return status
}

func (s *Shell) writePrompt() {
	s.term.WriteString(s.colors.Prompt(s.cfg.Prompt))
}

func (s *Shell) shutdown() {
	if s.watcher != nil {
		s.watcher.Close()
	}
	if err := s.hist.WriteToFile(shellenv.HistFile()); err != nil {
		s.logger.Warnw("writing history file", "error", err)
	}
	s.term.RestoreCooked()
	s.syncLog()
}
