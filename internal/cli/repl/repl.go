package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ExecFunc runs one command line.
type ExecFunc func(ctx context.Context, args []string) error

// REPL is a Read-Eval-Print Loop.
type REPL struct {
	input   io.Reader
	output  io.Writer
	prompt  string
	exec    ExecFunc
	history *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithPrompt sets the prompt string.
func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithHistory records lines in h.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL reading from in and writing prompts and errors to out.
func New(in io.Reader, out io.Writer, exec ExecFunc, opts ...Option) *REPL {
	r := &REPL{
		input:   in,
		output:  out,
		prompt:  "> ",
		exec:    exec,
		history: NewHistory("", DefaultHistorySize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and executes lines until exit, end of input or ctx is done.
// Command errors are printed and do not stop the loop.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt)

		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "history":
			for i, entry := range r.history.Entries() {
				fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
			}
			continue
		}

		args, err := SplitArgs(line)
		if err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
			continue
		}
		if err := r.exec(ctx, args); err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
	}
}

// ErrUnterminatedQuote is returned by SplitArgs for an unclosed quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// SplitArgs splits line on whitespace. Single quotes keep their content
// literally; double quotes allow \" and \\ escapes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case quote == '\'':
			if ch == '\'' {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case quote == '"':
			switch ch {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				cur.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inArg = true
		case ch == '\\':
			escaped = true
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnterminatedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
