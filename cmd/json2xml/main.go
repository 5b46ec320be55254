package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/xenon-xml/xenon"
	"github.com/xenon-xml/xenon/internal/cliutil"
	"github.com/xenon-xml/xenon/json2xml"
)

type cmdopts struct {
	Formatted bool `long:"formatted" short:"f"`
	Untyped   bool `long:"untyped"`
	Version   bool `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("json2xml: using xenon version %s\n", xenon.Version)
}

func showUsage() {
	fmt.Printf(`Usage : json2xml [options] [infile] [outfile]
	Convert a JSON file to XML. "-" or no argument means stdin/stdout
	--formatted : indent the output, one element per line
	--untyped   : omit the type attribute on scalar elements
	--version   : display the version of the library used
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil || len(args) > 2 {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	inpath, outpath := "-", "-"
	if len(args) > 0 {
		inpath = args[0]
	}
	if len(args) > 1 {
		outpath = args[1]
	}

	var in io.Reader
	if inpath == "-" {
		if cliutil.IsTty(os.Stdin) {
			showUsage()
			return 1
		}
		in = os.Stdin
	} else {
		fh, err := os.Open(inpath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		defer fh.Close()
		in = fh
	}

	var out io.Writer = os.Stdout
	if outpath != "-" {
		fh, err := os.Create(outpath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		defer fh.Close()
		out = fh
	}
	w := bufio.NewWriter(out)

	err = json2xml.Convert(w, in,
		json2xml.WithIndent(opts.Formatted),
		json2xml.WithTypeAttributes(!opts.Untyped),
	)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	return 0
}
