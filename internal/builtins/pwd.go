package builtins

import (
	"fmt"
	"io"
)

func (r *Runner) runPwd(argv []string, stdout io.Writer) Result {
	fmt.Fprintln(stdout, r.workDir())
	return Result{Code: 0}
}
