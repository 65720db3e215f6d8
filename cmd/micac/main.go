package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"

	"mica/internal/diag"
	"mica/internal/lexer"
	"mica/internal/parser"
	"mica/internal/resolve"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "check":
		if err := cmdCheck(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		usage()
	case "version", "-v", "--version":
		fmt.Println("micac", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`Mica UI language compiler

Usage:
  micac check <file.mica>

Commands:
  version  Compiler version
  check    Parse and type-check a .mica document, reporting diagnostics`)
}

func cmdCheck(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("check: missing input file")
	}
	input := args[0]

	source, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	d := diag.New(input)
	l := lexer.New(string(source))
	doc := parser.New(l, d).ParseDocument()
	for _, msg := range l.Errors() {
		fmt.Fprintln(os.Stderr, colorize(input+": "+msg))
	}
	resolve.ResolveExpressions(doc, d)

	for _, diagnostic := range d.All() {
		fmt.Fprintln(os.Stderr, colorize(diagnostic.Error()))
	}
	if d.HasErrors() || len(l.Errors()) > 0 {
		return fmt.Errorf("check failed with %d errors", len(d.All())+len(l.Errors()))
	}

	names := make([]string, 0, len(doc.Components))
	for _, comp := range doc.Components {
		names = append(names, comp.ID)
	}
	sort.Strings(names)
	fmt.Printf("%s: ok (%d components)\n", input, len(names))
	return nil
}

// colorize paints a diagnostic red when stderr is a terminal.
func colorize(s string) string {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return "\x1b[31m" + s + "\x1b[0m"
	}
	return s
}
