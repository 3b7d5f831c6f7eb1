package builtins

import (
	"io"
	"strings"
)

func (r *Runner) runEcho(argv []string, stdout io.Writer) Result {
	io.WriteString(stdout, strings.Join(argv[1:], " "))
	io.WriteString(stdout, "\n")
	return Result{Code: 0}
}
