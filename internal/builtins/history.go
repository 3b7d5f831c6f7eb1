package builtins

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arvalan/poshell/internal/shellerrors"
)

func (r *Runner) runHistory(argv []string, stdout, stderr io.Writer) Result {
	args := argv[1:]

	if len(args) >= 2 {
		switch args[0] {
		case "-a":
			return r.historyFileOp(r.history.AppendToFile, args[1], "history", stderr)
		case "-r":
			return r.historyFileOp(r.history.ReadFromFileIntoHistory, args[1], "history", stderr)
		case "-w":
			return r.historyFileOp(r.history.WriteToFile, args[1], "history", stderr)
		}
	}

	all := r.history.All()
	start := 0
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil && n >= 0 && n < len(all) {
			start = len(all) - n
		}
	}

	for i := start; i < len(all); i++ {
		fmt.Fprintf(stdout, "    %d  %s\n", i+1, all[i])
	}
	return Result{Code: 0}
}

func (r *Runner) historyFileOp(op func(string) error, path, context string, stderr io.Writer) Result {
	if err := op(path); err != nil {
		fmt.Fprintf(stderr, "%s: %s: %s\n", context, path, shellerrors.Errno(err))
		return Result{Code: 1}
	}
	return Result{Code: 0}
}
