// Command sdict inspects and edits documents kept in an sdict store.
//
//	sdict [-f config.yaml] [--db path] [-b bucket] <command>
//
// Settings come from the config file, then from SDICT_DB, SDICT_BUCKET and
// SDICT_VERBOSE (a .env file in the working directory is loaded first),
// then from flags.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return
		}
		fmt.Fprintf(os.Stderr, "sdict: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts := &Options{}
	opts.Init(&env{opts: opts, stdout: stdout, stderr: stderr})

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}
