package builtins

import (
	"fmt"
	"io"
	"strconv"
)

func (r *Runner) runExit(argv []string, stderr io.Writer) Result {
	code := r.lastStatus()
	if len(argv) > 1 {
		n, err := strconv.Atoi(argv[1])
		if err != nil {
			fmt.Fprintf(stderr, "exit: invalid exit code: %s\n", argv[1])
			return Result{Code: 1, Exit: true}
		}
		code = n
	}
	return Result{Code: code, Exit: true}
}
