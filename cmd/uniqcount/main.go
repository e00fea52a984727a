// Command uniqcount counts the distinct values, and the values that occur
// exactly once, in a file of 4-byte little-endian unsigned integers.
//
//	uniqcount count data.bin
//	uniqcount compare --strategies=parallel,mmap data.bin
//	uniqcount gen --count=1000000 --pattern=random data.bin
//	uniqcount runs --store=sqlite --store-dsn=runs.db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// register all strategies and run-report stores with their registries.
	_ "uniqcount/internal/storage/all"
	_ "uniqcount/internal/strategy/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Getenv, os.Stdout, os.Stderr)
	if err := a.run(ctx, os.Args[1:]); err != nil {
		stop()
		fatalf("error: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
