package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/arvalan/poshell/internal/builtins"
	"github.com/arvalan/poshell/internal/env"
	"github.com/arvalan/poshell/internal/lexer"
	"github.com/arvalan/poshell/internal/pathresolver"
	"github.com/arvalan/poshell/internal/shellerrors"
	"github.com/arvalan/poshell/internal/terminal"
	"go.uber.org/zap"
)

// Result is the outcome of running one Pipeline.
type Result struct {
	Code int
	Exit bool // an `exit` builtin ran in the (sole, unpiped) final stage
}

// Executor parses tokens into pipelines and runs them: per-stage
// redirection, external fork/exec via os/exec, builtin dispatch in-process
// or under the same pipe discipline as external stages, and exit-status
// propagation.
type Executor struct {
	resolver *pathresolver.Resolver
	runner   *builtins.Runner
	env      *env.Environment
	term     *terminal.Terminal
	logger   *zap.SugaredLogger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu         sync.Mutex
	workDir    string
	lastStatus int
}

// Option configures an Executor.
type Option func(*Executor)

func WithResolver(r *pathresolver.Resolver) Option { return func(e *Executor) { e.resolver = r } }
func WithEnv(en *env.Environment) Option           { return func(e *Executor) { e.env = en } }
func WithTerminal(t *terminal.Terminal) Option     { return func(e *Executor) { e.term = t } }
func WithLogger(l *zap.SugaredLogger) Option       { return func(e *Executor) { e.logger = l } }
func WithWorkDir(dir string) Option                { return func(e *Executor) { e.workDir = dir } }

// WithStdio overrides the default stdin/stdout/stderr streams (os.Stdin/
// Stdout/Stderr), primarily for tests.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(e *Executor) { e.stdin = in; e.stdout = out; e.stderr = errOut }
}

// New creates an Executor. The builtin Runner must be attached afterward
// with SetBuiltins, since the Runner itself needs this Executor's WorkDir/
// SetWorkDir/LastStatus accessors.
func New(opts ...Option) *Executor {
	e := &Executor{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if wd, err := os.Getwd(); err == nil {
		e.workDir = wd
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetBuiltins attaches the builtin Runner used to dispatch builtin stages.
func (e *Executor) SetBuiltins(r *builtins.Runner) {
	e.runner = r
}

// WorkDir returns the executor's current working directory, consulted by
// the cd/pwd builtins and used as external processes' Dir.
func (e *Executor) WorkDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workDir
}

// SetWorkDir changes the working directory after validating path is a
// directory. Filesystem errors are returned as-is (a non-directory yields
// syscall.ENOTDIR) for the caller to render via shellerrors. A relative
// path is resolved against the executor's current WorkDir, not the
// process's actual working directory, which the executor never changes.
func (e *Executor) SetWorkDir(path string) error {
	abs := path
	if !filepath.IsAbs(path) {
		abs = filepath.Join(e.WorkDir(), path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return syscall.ENOTDIR
	}
	abs, err = filepath.Abs(abs)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.workDir = abs
	e.mu.Unlock()
	return nil
}

// LastStatus returns the exit status of the most recently run pipeline,
// used as `exit`'s default argument.
func (e *Executor) LastStatus() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastStatus
}

func (e *Executor) setLastStatus(code int) {
	e.mu.Lock()
	e.lastStatus = code
	e.mu.Unlock()
}

// ExecuteLine tokenizes, parses, and runs a raw input line in one step.
// Tokenizer errors print their message and discard the line (continue the
// REPL, exit status unchanged); parse errors print their message with
// exit status 1, per the error-handling design.
func (e *Executor) ExecuteLine(ctx context.Context, line string) (Result, error) {
	tokens, err := lexer.New(line).Tokenize()
	if err != nil {
		fmt.Fprintln(e.stderr, err)
		return Result{Code: e.LastStatus()}, nil
	}
	if len(tokens) == 0 {
		return Result{Code: e.LastStatus()}, nil
	}

	pipeline, err := Parse(tokens)
	if err != nil {
		fmt.Fprintln(e.stderr, err)
		e.setLastStatus(1)
		return Result{Code: 1}, nil
	}

	return e.Run(ctx, pipeline)
}

// Run executes a parsed Pipeline and returns its final exit status.
func (e *Executor) Run(ctx context.Context, p *Pipeline) (Result, error) {
	if p == nil || len(p.Commands) == 0 {
		return Result{Code: e.LastStatus()}, nil
	}

	var result Result
	if len(p.Commands) == 1 {
		code, exit := e.runSingle(ctx, p.Commands[0])
		result = Result{Code: code, Exit: exit}
	} else {
		code := e.runMulti(ctx, p.Commands)
		result = Result{Code: code}
	}

	e.setLastStatus(result.Code)
	return result, nil
}

// runSingle runs a one-stage pipeline. A builtin stage with no pipe
// neighbours is invoked directly in this process (optionally against
// redirected files), matching §4.5.2's "without pipe neighbours" rule.
func (e *Executor) runSingle(ctx context.Context, cmd *Command) (int, bool) {
	if e.isExternal(cmd) && e.term != nil {
		e.term.RestoreCooked()
		defer e.term.EnterRaw()
	}
	return e.execStage(ctx, cmd, e.stdin, e.stdout, e.stderr, nil)
}

// runMulti runs an n>=2 stage pipeline: a pipe is created between every
// adjacent pair of stages, all stages run concurrently, and the caller
// waits for every stage before returning the final stage's exit status.
func (e *Executor) runMulti(ctx context.Context, cmds []*Command) int {
	n := len(cmds)

	readers := make([]io.Reader, n)
	writers := make([]io.Writer, n)
	pipeReaders := make([]*os.File, n-1)
	pipeWriters := make([]*os.File, n-1)

	readers[0] = e.stdin
	writers[n-1] = e.stdout

	for i := 0; i < n-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			fmt.Fprintf(e.stderr, "pipe: %s\n", err)
			return 1
		}
		pipeReaders[i] = pr
		pipeWriters[i] = pw
		writers[i] = pw
		readers[i+1] = pr
	}

	hasExternal := false
	for _, c := range cmds {
		if e.isExternal(c) {
			hasExternal = true
			break
		}
	}
	if hasExternal && e.term != nil {
		e.term.RestoreCooked()
	}

	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			var myWrite *os.File
			if idx < n-1 {
				myWrite = pipeWriters[idx]
				defer myWrite.Close()
			}
			if idx > 0 {
				defer pipeReaders[idx-1].Close()
			}

			code, _ := e.execStage(ctx, cmds[idx], readers[idx], writers[idx], e.stderr, myWrite)
			codes[idx] = code
		}(i)
	}
	wg.Wait()

	if hasExternal && e.term != nil {
		e.term.EnterRaw()
	}

	return codes[n-1]
}

// isExternal reports whether cmd's argv[0] names something other than a
// recognised builtin (an empty argv is neither).
func (e *Executor) isExternal(cmd *Command) bool {
	if len(cmd.Argv) == 0 {
		return false
	}
	return e.runner == nil || !builtins.IsBuiltin(cmd.Argv[0])
}

// execStage runs a single stage against its resolved stdin/stdout/stderr.
// pipeWriteEnd, when non-nil, is this stage's write end of the pipe to the
// next stage; it is closed immediately if the stage has an explicit
// StdoutFile, so the downstream stage observes an empty stream rather than
// blocking on output that is never coming (see design notes on the
// pipe-successor-with-explicit-stdout-file case).
func (e *Executor) execStage(ctx context.Context, cmd *Command, stdin io.Reader, defaultStdout io.Writer, defaultStderr io.Writer, pipeWriteEnd *os.File) (code int, exit bool) {
	if len(cmd.Argv) == 0 {
		return 0, false
	}

	stdoutOverride, stderrStream, closers, failCode, ok := e.prepareRedirects(cmd, defaultStderr)
	defer closeAll(closers)

	if cmd.StdoutFile != "" && pipeWriteEnd != nil {
		pipeWriteEnd.Close()
	}

	if !ok {
		return failCode, false
	}

	stdout := defaultStdout
	if stdoutOverride != nil {
		stdout = stdoutOverride
	}

	if e.runner != nil {
		if res, handled := e.runner.Run(cmd.Argv, stdout, stderrStream); handled {
			return res.Code, res.Exit
		}
	}

	return e.execExternal(ctx, cmd, stdin, stdout, stderrStream), false
}

// prepareRedirects opens this stage's explicit redirect targets, if any.
// stderr is opened first so that a stdout-open failure can be reported to
// the stage's own (possibly already-redirected) stderr target.
func (e *Executor) prepareRedirects(cmd *Command, baseStderr io.Writer) (stdout io.Writer, stderr io.Writer, closers []io.Closer, failCode int, ok bool) {
	stderr = baseStderr

	if cmd.StderrFile != "" {
		f, err := openRedirectFile(cmd.StderrFile, cmd.StderrAppend)
		if err != nil {
			fmt.Fprintf(baseStderr, "%s: %s\n", cmd.StderrFile, shellerrors.Errno(err))
			e.debugw("redirect open failed", "file", cmd.StderrFile, "error", err)
			return nil, nil, nil, 1, false
		}
		closers = append(closers, f)
		stderr = f
	}

	if cmd.StdoutFile != "" {
		f, err := openRedirectFile(cmd.StdoutFile, cmd.StdoutAppend)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", cmd.StdoutFile, shellerrors.Errno(err))
			e.debugw("redirect open failed", "file", cmd.StdoutFile, "error", err)
			closeAll(closers)
			return nil, nil, nil, 1, false
		}
		closers = append(closers, f)
		stdout = f
	}

	return stdout, stderr, closers, 0, true
}

// execExternal resolves argv[0] via PATH and runs it as a child process,
// translating its termination into the exit-code contract in §4.5.2/§7.
func (e *Executor) execExternal(ctx context.Context, cmd *Command, stdin io.Reader, stdout, stderr io.Writer) int {
	name := cmd.Argv[0]

	path, found := e.resolver.Resolve(name)
	if !found {
		fmt.Fprintf(stderr, "%s: command not found\n", name)
		e.debugw("command not found", "name", name)
		return 127
	}

	c := exec.CommandContext(ctx, path)
	c.Args = append([]string{name}, cmd.Argv[1:]...)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr
	c.Dir = e.WorkDir()
	if e.env != nil {
		c.Env = e.env.ToSlice()
	}

	if err := c.Start(); err != nil {
		fmt.Fprintf(stderr, "%s: fork failed: %s\n", name, err)
		e.debugw("fork failed", "name", name, "error", err)
		return 126
	}

	return exitCodeFromWait(c.Wait())
}

func (e *Executor) debugw(msg string, kv ...interface{}) {
	if e.logger != nil {
		e.logger.Debugw(msg, kv...)
	}
}

// exitCodeFromWait translates an os/exec Wait error into the exit code a
// fork/exec-based shell would report: 128+signal for a signal-killed
// child, the child's own status on normal exit, 126 on exec failure.
func exitCodeFromWait(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 126
}

func openRedirectFile(path string, appendMode bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, 0644)
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}
