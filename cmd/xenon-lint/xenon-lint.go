package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/xenon-xml/xenon"
	"github.com/xenon-xml/xenon/internal/cliutil"
)

type cmdopts struct {
	Quiet     bool `long:"quiet" short:"q"`
	LenientNS bool `long:"lenient-ns"`
	MaxDepth  int  `long:"max-depth" default:"256"`
	Version   bool `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("xenon-lint: using xenon version %s\n", xenon.Version)
}

func showUsage() {
	fmt.Printf(`Usage : xenon-lint [options] XMLfiles ...
	Parse the XML files and report whether they are well-formed
	--quiet       : suppress per-file output, only set the exit status
	--lenient-ns  : treat undeclared namespace prefixes as plain names
	--max-depth=N : maximum element nesting depth (default 256)
	--version     : display the version of the XML library used
`)
}

type input struct {
	name string
	rdr  io.Reader
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	inputCh := make(chan input)
	errCh := make(chan error)
	switch {
	case len(args) > 0: // filename present
		go func() {
			defer close(inputCh)
			for _, f := range args {
				fh, err := os.Open(f)
				if err != nil {
					errCh <- err
					return
				}
				inputCh <- input{name: f, rdr: fh}
			}
		}()
	case !cliutil.IsTty(os.Stdin):
		go func() {
			defer close(inputCh)
			inputCh <- input{name: "-", rdr: os.Stdin}
		}()
	default:
		showUsage()
		return 1
	}

	ret := 0
	p := xenon.NewParser(
		xenon.WithLenientNamespaces(opts.LenientNS),
		xenon.WithMaxDepth(opts.MaxDepth),
	)
	for in := range inputCh {
		buf, err := io.ReadAll(in.rdr)
		if fh, ok := in.rdr.(*os.File); ok && fh != os.Stdin {
			fh.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}

		doc, err := p.Parse(context.Background(), buf)
		if err != nil {
			if !opts.Quiet {
				fmt.Fprintf(os.Stderr, "%s: %s\n", in.name, err)
			}
			ret = 1
			continue
		}
		if !opts.Quiet {
			fmt.Printf("%s: ok (root <%s>, version %s, encoding %s)\n",
				in.name, doc.Root().Name(), doc.Version(), doc.Encoding())
		}
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	default:
	}

	return ret
}
