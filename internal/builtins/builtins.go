// Package builtins implements the shell's fixed set of in-process
// commands: cd, echo, exit, history, pwd, type.
package builtins

import (
	"io"

	"github.com/arvalan/poshell/internal/env"
	"github.com/arvalan/poshell/internal/history"
	"github.com/arvalan/poshell/internal/pathresolver"
)

// Names is the closed, exhaustive set of recognised builtin names.
var Names = []string{"cd", "echo", "exit", "history", "pwd", "type"}

// IsBuiltin reports whether name is one of the six recognised builtins.
func IsBuiltin(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Result is a builtin's outcome: an exit code, and whether it requested
// the REPL itself terminate (only `exit` ever sets Exit).
type Result struct {
	Code int
	Exit bool
}

// Runner dispatches a resolved argv against the builtin set.
type Runner struct {
	env        *env.Environment
	history    *history.History
	resolver   *pathresolver.Resolver
	workDir    func() string
	setWorkDir func(string) error
	lastStatus func() int
}

// Option configures a Runner.
type Option func(*Runner)

// WithEnv sets the environment the cd builtin consults for HOME.
func WithEnv(e *env.Environment) Option {
	return func(r *Runner) { r.env = e }
}

// WithHistory sets the history the history builtin reads and persists.
func WithHistory(h *history.History) Option {
	return func(r *Runner) { r.history = h }
}

// WithResolver sets the PathResolver the type builtin consults.
func WithResolver(p *pathresolver.Resolver) Option {
	return func(r *Runner) { r.resolver = p }
}

// WithWorkDir wires the current/target working directory accessors cd and
// pwd use.
func WithWorkDir(get func() string, set func(string) error) Option {
	return func(r *Runner) {
		r.workDir = get
		r.setWorkDir = set
	}
}

// WithLastStatus wires the shell's last exit status, used as exit's
// default argument.
func WithLastStatus(get func() int) Option {
	return func(r *Runner) { r.lastStatus = get }
}

// New creates a Runner from opts.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run dispatches argv[0] to the matching builtin. ok is false iff argv[0]
// is not a recognised builtin name — the Executor should then resolve and
// exec it externally.
func (r *Runner) Run(argv []string, stdout, stderr io.Writer) (Result, bool) {
	if len(argv) == 0 {
		return Result{}, false
	}

	switch argv[0] {
	case "cd":
		return r.runCd(argv, stderr), true
	case "echo":
		return r.runEcho(argv, stdout), true
	case "exit":
		return r.runExit(argv, stderr), true
	case "history":
		return r.runHistory(argv, stdout, stderr), true
	case "pwd":
		return r.runPwd(argv, stdout), true
	case "type":
		return r.runType(argv, stdout, stderr), true
	default:
		return Result{}, false
	}
}
