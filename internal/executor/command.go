// Package executor parses a token stream into a Pipeline and runs it:
// per-stage stdout/stderr redirection, fork/exec of external stages,
// builtin dispatch, and exit-status propagation.
package executor

import (
	"github.com/arvalan/poshell/internal/lexer"
	"github.com/arvalan/poshell/internal/shellerrors"
)

// Command is a single pipeline stage.
type Command struct {
	Argv         []string
	StdoutFile   string
	StdoutAppend bool
	StderrFile   string
	StderrAppend bool
}

// Pipeline is an ordered sequence of one or more Commands, linked by pipes.
type Pipeline struct {
	Commands []*Command
}

// Parse scans tokens into a Pipeline. A Word is pushed onto the current
// command's argv; a redirect operator must be immediately followed by a
// Word naming its target (else ErrMissingRedirectTarget); a Pipe
// finalises the current command and starts the next one. An empty argv
// for any stage is legal and executes as a no-op stage.
func Parse(tokens []lexer.Token) (*Pipeline, error) {
	pipeline := &Pipeline{}
	cur := &Command{}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.Type {
		case lexer.TokenWord:
			cur.Argv = append(cur.Argv, tok.Value)

		case lexer.TokenRedirectOut, lexer.TokenRedirectAppend,
			lexer.TokenRedirectErr, lexer.TokenRedirectErrAppend:
			if i+1 >= len(tokens) || tokens[i+1].Type != lexer.TokenWord {
				return nil, shellerrors.ErrMissingRedirectTarget
			}
			target := tokens[i+1].Value
			switch tok.Type {
			case lexer.TokenRedirectOut:
				cur.StdoutFile, cur.StdoutAppend = target, false
			case lexer.TokenRedirectAppend:
				cur.StdoutFile, cur.StdoutAppend = target, true
			case lexer.TokenRedirectErr:
				cur.StderrFile, cur.StderrAppend = target, false
			case lexer.TokenRedirectErrAppend:
				cur.StderrFile, cur.StderrAppend = target, true
			}
			i++ // consume the target word

		case lexer.TokenPipe:
			pipeline.Commands = append(pipeline.Commands, cur)
			cur = &Command{}
		}
	}

	pipeline.Commands = append(pipeline.Commands, cur)
	return pipeline, nil
}
