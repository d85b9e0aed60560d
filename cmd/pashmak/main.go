// ==============================================================================================
// FILE: cmd/pashmak/main.go
// ==============================================================================================
// PACKAGE: main
// PURPOSE: A thin file-reading driver (read path -> interp.Run) giving the
//          core a smoke-test entry point. Grounded on the teacher's
//          main.go's runFile (read file -> lex -> parse -> eval ->
//          exit-code-on-error), generalized to call interp.Run instead of
//          the teacher's own lex/parse/eval pipeline. Not the specified
//          core surface itself -- the real CLI/REPL is an external
//          collaborator this module doesn't implement.
// ==============================================================================================

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/parsampsh/pashmak-core/interp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: pashmak <file.pm> [args...]")
		os.Exit(1)
	}

	filePath := os.Args[1]
	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %s\n", filePath, err)
		os.Exit(1)
	}

	ip := interp.New(interp.WithOutput(os.Stdout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ip.Run(ctx, string(data), filePath, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	os.Exit(ip.ExitCode())
}
