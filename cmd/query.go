package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/medialog/pkg/config"
	"github.com/rubiojr/medialog/pkg/message"
	"github.com/rubiojr/medialog/pkg/storage"
	"github.com/urfave/cli/v3"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	levelStyles = map[message.Level]lipgloss.Style{
		message.LevelEmergency: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")),
		message.LevelAlert:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("199")),
		message.LevelCritical:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		message.LevelError:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		message.LevelWarning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		message.LevelNotice:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		message.LevelInfo:      lipgloss.NewStyle().Foreground(lipgloss.Color("32")),
		message.LevelDebug:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

// QueryCommand creates the query command
func QueryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Show recent messages from a store destination",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "store",
				Usage: "Database path (defaults to the first configured store destination)",
			},
			&cli.StringFlag{
				Name:  "table",
				Usage: "Store table name",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of messages to show",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Disable styled output",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return queryStore(c)
		},
	}
}

func queryStore(c *cli.Command) error {
	path := c.String("store")
	table := c.String("table")

	if path == "" {
		var err error
		path, table, err = storeFromConfig(c.String("config"), table)
		if err != nil {
			return err
		}
	}

	store, err := storage.Open(path, table)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	rows, err := store.Recent(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("querying store: %w", err)
	}

	fmt.Print(formatRows(rows, path, c.Bool("plain")))
	return nil
}

// storeFromConfig finds the first store destination in the configuration.
func storeFromConfig(configPath, tableOverride string) (string, string, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return "", "", fmt.Errorf("loading config: %w", err)
	}
	for _, dest := range cfg.Destinations {
		if dest.Type != "store" {
			continue
		}
		path := dest.Path
		if path == "" {
			path, err = config.GetDefaultDBPath()
			if err != nil {
				return "", "", err
			}
		}
		table := tableOverride
		if table == "" {
			table = dest.Table
		}
		return path, table, nil
	}
	return "", "", fmt.Errorf("no store destination configured; pass --store")
}

func formatRows(rows []storage.Row, path string, plain bool) string {
	var output strings.Builder

	if plain {
		for _, row := range rows {
			output.WriteString(fmt.Sprintf("%s %s %s %s\n",
				row.Time.Format(message.TimeLayout), row.Level, row.Message, contextText(row.Context)))
		}
		return output.String()
	}

	output.WriteString(titleStyle.Render(fmt.Sprintf("Messages in %s", path)))
	output.WriteString("\n")

	if len(rows) == 0 {
		output.WriteString(noDataStyle.Render("No messages found"))
		output.WriteString("\n")
		return output.String()
	}

	for _, row := range rows {
		style, ok := levelStyles[row.Level]
		if !ok {
			style = levelStyles[message.LevelInfo]
		}
		output.WriteString(fmt.Sprintf("%s %s %s\n",
			metaStyle.Render(row.Time.Format("2006-01-02 15:04:05")),
			style.Render(fmt.Sprintf("%-9s", row.Level)),
			row.Message))
		if len(row.Context) > 0 {
			output.WriteString(metaStyle.Render("  " + contextText(row.Context)))
			output.WriteString("\n")
		}
	}
	return output.String()
}

func contextText(ctx map[string]interface{}) string {
	if len(ctx) == 0 {
		return ""
	}
	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Sprintf("%v", ctx)
	}
	return string(data)
}
