package builtins

import (
	"fmt"
	"io"

	"github.com/arvalan/poshell/internal/shellerrors"
)

func (r *Runner) runCd(argv []string, stderr io.Writer) Result {
	target := ""
	if len(argv) > 1 {
		target = argv[1]
	}

	home := r.env.Get("HOME")
	if target == "" || target == "~" {
		if home == "" {
			fmt.Fprintln(stderr, "cd: HOME not set")
			return Result{Code: 1}
		}
		target = home
	}

	if err := r.setWorkDir(target); err != nil {
		fmt.Fprintf(stderr, "cd: %s: %s\n", target, shellerrors.Errno(err))
		return Result{Code: 1}
	}
	return Result{Code: 0}
}
