// Package repl runs an interactive command loop.
//
// Each input line is split into arguments with shell-style quoting and handed
// to an ExecFunc. The loop ends on exit, quit or end of input.
package repl
