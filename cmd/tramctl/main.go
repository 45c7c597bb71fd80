// Command tramctl queries the tram backend from a terminal.
//
//	tramctl stats
//	tramctl stops
//	tramctl path <start-id> <end-id>
//	tramctl stop <id>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MalithGihan/tramnet-panel/internal/backend"
	"github.com/MalithGihan/tramnet-panel/internal/config"
	"github.com/MalithGihan/tramnet-panel/internal/details"
	"github.com/MalithGihan/tramnet-panel/internal/logging"
	"github.com/MalithGihan/tramnet-panel/internal/metrics"
)

const usage = `usage: tramctl [flags] <command> [args]

commands:
  stats                 network totals
  stops                 list stops
  path <start> <end>    shortest route between two stop ids
  stop <id>             stop details with weekly traffic
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fs := flag.NewFlagSet("tramctl", flag.ExitOnError)
	backendURL := fs.String("backend", cfg.BackendURL, "tram backend base URL")
	timeout := fs.Duration("timeout", cfg.RequestTimeout, "request timeout")
	verbose := fs.Bool("v", false, "log requests to stderr")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage, "\nflags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	logger := zap.NewNop()
	if *verbose {
		if logger, err = logging.NewLogger("debug", "console"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	defer logger.Sync()

	client := backend.New(*backendURL, *timeout, logger, metrics.NewCollector())
	ctx, cancel := context.WithTimeout(context.Background(), *timeout+time.Second)
	defer cancel()

	if err := run(ctx, client, fs.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, inactiveStyle.Render("error:"), describe(err))
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, c *backend.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "stats":
		s, err := c.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(out, renderStats(s))
	case "stops":
		stops, err := c.Stops(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(out, renderStops(stops))
	case "path":
		if len(args) != 3 {
			return errUsage
		}
		p, err := c.ShortestPath(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprint(out, renderPath(args[1], args[2], p))
	case "stop":
		if len(args) != 2 {
			return errUsage
		}
		d, err := c.StopDetails(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(out, renderDetails(details.Format(d)))
	default:
		return errUsage
	}
	return nil
}

func describe(err error) string {
	if backend.IsTransport(err) {
		return "backend unreachable: " + err.Error()
	}
	if msg := backend.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}
