// numeric-overflow exercises bounded accumulation over every Go numeric type
// and reports where adding or subtracting MAX/steps crosses the type's range.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/eigerco/numericoverflow/internal/config"
	"github.com/eigerco/numericoverflow/internal/harness"
	"github.com/eigerco/numericoverflow/internal/report"
	"github.com/eigerco/numericoverflow/pkg/bounded"
	"github.com/eigerco/numericoverflow/pkg/log"
)

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (trace, debug, info, warn, error)",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-type",
			Usage: "Log output (console, json)",
			Value: "console",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, json, yaml)",
		Value:   string(report.FormatText),
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML run config",
		},
		&cli.Uint64Flag{
			Name:    "steps",
			Aliases: []string{"n"},
			Usage:   "Number of increments of MAX/steps that must stay in range",
			Value:   config.DefaultSteps,
		},
		&cli.StringSliceFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Numeric domain to exercise, repeatable (default: all)",
		},
		formatFlag(),
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "numeric-overflow",
		Usage:  "Detect overflow and underflow of bounded accumulation",
		Writer: out,
		Flags:  append(logFlags(), runFlags()...),
		Before: initLogger,
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the overflow and underflow suites",
				Description: "Float domains are bounded by the lowest and highest finite values,\n" +
					"so subtracting MAX/steps one extra time from MAX stays in range.",
				Flags:  append(logFlags(), runFlags()...),
				Before: initLogger,
				Action: runAction,
			},
			{
				Name:   "domains",
				Usage:  "List the supported numeric domains",
				Flags:  append(logFlags(), formatFlag()),
				Before: initLogger,
				Action: domainsAction,
			},
			{
				Name:   "accumulate",
				Usage:  "Add or subtract a step a number of times in one domain",
				Before: initLogger,
				Flags:  append(logFlags(),
					&cli.StringFlag{
						Name:     "type",
						Aliases:  []string{"t"},
						Usage:    "Numeric domain",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "direction",
						Aliases: []string{"d"},
						Usage:   "add or sub",
						Value:   "add",
					},
					&cli.StringFlag{
						Name:  "start",
						Usage: "Start value literal",
						Value: "0",
					},
					&cli.StringFlag{
						Name:     "step",
						Usage:    "Step value literal",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:    "steps",
						Aliases: []string{"n"},
						Usage:   "Number of times the step is applied",
						Value:   config.DefaultSteps,
					},
					formatFlag(),
				),
				Action: accumulateAction,
			},
		},
	}
}

// flagContext returns the innermost context on which name was given, so a flag
// takes effect whether it precedes or follows the subcommand. The subcommand
// wins when both carry it.
func flagContext(c *cli.Context, name string) (*cli.Context, bool) {
	for _, ctx := range c.Lineage() {
		for _, set := range ctx.LocalFlagNames() {
			if set == name {
				return ctx, true
			}
		}
	}
	return c, false
}

func isSet(c *cli.Context, name string) bool {
	_, ok := flagContext(c, name)
	return ok
}

func stringFlag(c *cli.Context, name string) string {
	ctx, _ := flagContext(c, name)
	return ctx.String(name)
}

func initLogger(c *cli.Context) error {
	cfg := config.Default()
	cfg.Log = config.Log{Level: stringFlag(c, "log-level"), Type: stringFlag(c, "log-type")}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Init(cfg.LogOptions())
	return nil
}

// loadConfig merges, in increasing priority: defaults, the config file and
// explicitly set flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := stringFlag(c, "config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
		if !isSet(c, "log-level") && !isSet(c, "log-type") {
			log.Init(cfg.LogOptions())
		}
	}
	if ctx, ok := flagContext(c, "steps"); ok {
		cfg.Steps = ctx.Uint64("steps")
	}
	if ctx, ok := flagContext(c, "type"); ok {
		cfg.Domains = ctx.StringSlice("type")
	}
	if ctx, ok := flagContext(c, "format"); ok {
		cfg.Format = ctx.String("format")
	}
	return cfg, cfg.Validate()
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	domains, err := harness.Select(cfg.Domains)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	log.CLI.Info().Uint64("steps", cfg.Steps).Int("domains", len(domains)).Msg("running suites")
	r, err := harness.Run(c.Context, domains, cfg.Steps)
	if err != nil {
		return err
	}
	return report.Write(c.App.Writer, r, format)
}

func domainsAction(c *cli.Context) error {
	format, err := report.ParseFormat(stringFlag(c, "format"))
	if err != nil {
		return err
	}
	return report.WriteDomains(c.App.Writer, harness.Domains(), format)
}

func accumulateAction(c *cli.Context) error {
	d, err := harness.Lookup(c.String("type"))
	if err != nil {
		return err
	}
	dir, err := bounded.ParseDirection(c.String("direction"))
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(stringFlag(c, "format"))
	if err != nil {
		return err
	}
	steps, _ := flagContext(c, "steps")
	result, err := harness.Accumulate(d, dir, c.String("start"), c.String("step"), steps.Uint64("steps"))
	if err != nil {
		return err
	}
	return report.WriteCase(c.App.Writer, result, format)
}

func main() {
	log.Init(log.Options{LogLevel: zerolog.InfoLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		log.CLI.Error().Err(err).Msg("numeric-overflow failed")
		stop()
		os.Exit(1)
	}
}
