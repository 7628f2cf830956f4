// Package main provides the CLI entrypoint for partialgen.
//
// partialgen reads Go packages, finds declarations annotated with
// //partialgen:generate and writes their partial companions:
//
//	partialgen gen ./...       # write <type>_partial.go files
//	partialgen check ./...     # report diagnostics only
//	partialgen config          # print the effective configuration
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "partialgen: %v\n", err)

			for _, hint := range errors.GetAllHints(err) {
				fmt.Fprintf(os.Stderr, "\thint: %s\n", hint)
			}
		}

		os.Exit(1)
	}
}
