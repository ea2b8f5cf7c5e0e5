package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/medialog/pkg/dispatch"
	"github.com/rubiojr/medialog/pkg/message"
	"github.com/urfave/cli/v3"
)

// LogCommand creates the log command
func LogCommand() *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Dispatch one log message to the configured destinations",
		ArgsUsage: "MESSAGE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "level",
				Usage: "Severity level (EMERGENCY..DEBUG)",
				Value: "INFO",
			},
			&cli.StringSliceFlag{
				Name:  "context",
				Usage: "Context entry as key=value (repeatable, values parsed as JSON when possible)",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Log to this file instead of the configured destinations",
			},
			&cli.StringFlag{
				Name:  "locked-file",
				Usage: "Log to this file under an exclusive lock instead of the configured destinations",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Log to this sqlite database instead of the configured destinations",
			},
			&cli.StringFlag{
				Name:  "table",
				Usage: "Store table name",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return logMessage(c)
		},
	}
}

func logMessage(c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one MESSAGE argument")
	}
	text := c.Args().First()

	level, err := message.ParseLevel(c.String("level"))
	if err != nil {
		return err
	}

	msgContext, err := parseContext(c.StringSlice("context"))
	if err != nil {
		return err
	}

	d := dispatch.New()
	defer func() {
		if err := d.Factory().Close(); err != nil {
			fmt.Printf("Warning: failed to close media: %v\n", err)
		}
	}()

	overrides, err := overrideMedia(d,
		c.String("file"), c.String("locked-file"),
		c.String("store"), c.String("table"))
	if err != nil {
		return fmt.Errorf("building destinations: %w", err)
	}

	if len(overrides) == 0 {
		if err := setDefaultsFromConfig(c.String("config"), d); err != nil {
			return err
		}
	}

	d.Dispatch(text, level, msgContext, overrides...)
	return nil
}
