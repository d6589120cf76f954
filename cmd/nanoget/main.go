package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/indigo-web/nanohttp/internal/logging"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type Command struct {
	flags struct {
		method    string
		headers   headerFlags
		data      string
		config    string
		json      bool
		include   bool
		insecure  bool
		requestID bool
		timeout   time.Duration
	}

	ffcli.Command
}

func NewCommand() *ffcli.Command {
	c := new(Command)

	c.Name = filepath.Base(os.Args[0])
	c.ShortUsage = "nanoget [flags] <url>"
	c.ShortHelp = "issue a single HTTP/1.1 request"
	c.LongHelp = `
The nanoget command performs a single request over a fresh connection and prints the
response body. Every flag may also be set via the environment with the NANOHTTP_ prefix.

Examples:
  nanoget http://example.com/status
  nanoget -X POST -H "Content-Type: application/json" -d '{"a":1}' http://localhost:8080/items
  nanoget -json -request-id https://example.com/
`

	c.FlagSet = flag.NewFlagSet("nanoget", flag.ContinueOnError)
	c.FlagSet.SetOutput(os.Stdout)
	c.FlagSet.StringVar(&c.flags.method, "X", "GET", "request method")
	c.FlagSet.Var(&c.flags.headers, "H", "request header in the \"Name: value\" form, may be repeated")
	c.FlagSet.StringVar(&c.flags.data, "d", "", "request body")
	c.FlagSet.StringVar(&c.flags.config, "config", "", "path to the YAML config")
	c.FlagSet.BoolVar(&c.flags.json, "json", false, "print the response summary in JSON format")
	c.FlagSet.BoolVar(&c.flags.include, "i", false, "print the status line and the response headers")
	c.FlagSet.BoolVar(&c.flags.insecure, "insecure", false, "skip TLS certificate verification")
	c.FlagSet.BoolVar(&c.flags.requestID, "request-id", false, "add a random X-Request-Id header")
	c.FlagSet.DurationVar(&c.flags.timeout, "timeout", 0, "limit the whole exchange duration")
	c.FlagSet.BoolVar(&logging.Verbose, "v", false, "enable verbose logging")

	c.Options = []ff.Option{ff.WithEnvVarPrefix("NANOHTTP")}
	c.Exec = c.exec
	return &c.Command
}

func (c *Command) exec(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return flag.ErrHelp
	}

	logging.Init(os.Stderr)

	if c.flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.flags.timeout)
		defer cancel()
	}

	return fetch(ctx, options{
		URL:       args[0],
		Method:    c.flags.method,
		Headers:   c.flags.headers,
		Body:      c.flags.data,
		Config:    c.flags.config,
		JSON:      c.flags.json,
		Include:   c.flags.include,
		Insecure:  c.flags.insecure,
		RequestID: c.flags.requestID,
		Timeout:   c.flags.timeout,
	}, os.Stdout)
}

type headerFlags []string

func (h *headerFlags) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerFlags) Set(value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("header %q: missing colon", value)
	}

	*h = append(*h, value)
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	c := NewCommand()
	switch err := c.Parse(os.Args[1:]); {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		return
	default:
		fmt.Fprintf(os.Stderr, "nanoget: %v\n", err)
		os.Exit(2)
	}

	if err := c.Run(ctx); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stdout, "%s\n", c.UsageFunc(c))
			os.Exit(2)
		}

		fmt.Fprintf(os.Stderr, "nanoget: %v\n", err)
		os.Exit(1)
	}
}
