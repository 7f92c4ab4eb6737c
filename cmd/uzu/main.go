// Command uzu parses a mini-notation pattern and prints its events as JSON.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rpmessner/uzu-parser/internal/config"
	"github.com/rpmessner/uzu-parser/pkg/uzu"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  Warning: Could not load .env file: %v", err)
	}
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.Load()

	flags := flag.NewFlagSet("uzu", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		printAST  = flags.Bool("ast", false, "Print the AST instead of events")
		pretty    = flags.Bool("pretty", false, "Indent JSON output")
		maxDepth  = flags.Int("max-depth", cfg.MaxDepth, "Maximum group nesting depth")
		maxEvents = flags.Int("max-events", cfg.MaxEvents, "Maximum number of events a pattern may expand to")
	)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: uzu [-ast] [-pretty] [-max-depth N] [-max-events N] \"<pattern>\"")
		fmt.Fprintln(stderr, "       reads the pattern from stdin when no argument is given")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	src := strings.Join(flags.Args(), " ")
	if flags.NArg() == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "❌ failed to read stdin: %v\n", err)
			return 1
		}
		src = strings.TrimRight(string(data), "\r\n")
	}

	opts := []uzu.Option{uzu.WithMaxDepth(*maxDepth), uzu.WithMaxEvents(*maxEvents)}

	var out any
	var err error
	if *printAST {
		out, err = uzu.ParseAST(src, opts...)
	} else {
		out, err = uzu.Parse(src, opts...)
	}
	if err != nil {
		var perr *uzu.Error
		if errors.As(err, &perr) {
			fmt.Fprintln(stderr, perr.Snippet(src))
		} else {
			fmt.Fprintf(stderr, "❌ %v\n", err)
		}
		return 1
	}

	var data []byte
	if *pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		fmt.Fprintf(stderr, "❌ failed to encode output: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}
