package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/learnmap/internal/analyze"
	"github.com/dtnitsch/learnmap/internal/bootstrap"
	dbpkg "github.com/dtnitsch/learnmap/pkg/db"
)

func HistoryListAction(c *cli.Context) error {
	cfg, err := bootstrap.Config(c)
	if err != nil {
		return err
	}
	database, err := bootstrap.RequireHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	analyses, err := database.ListAnalyses(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}

	out := c.App.Writer
	if len(analyses) == 0 {
		fmt.Fprintln(out, "No analyses found")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-20s %-6s %-8s %-9s %-4s %-40s\n",
		"ID", "Created", "Type", "Length", "Summary", "Lang", "Topics")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for _, a := range analyses {
		fmt.Fprintf(out, "%-6d %-20s %-6s %-8d %-9s %-4s %-40s\n",
			a.AnalysisID,
			a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			a.ContentType,
			a.ContentLength,
			a.SummarySource,
			a.Result.Language,
			truncateTopics(a.Result.Topics, 40),
		)
	}

	fmt.Fprintf(out, "\nTotal: %d analyses\n", len(analyses))
	fmt.Fprintf(out, "\nTip: Use 'learnmap history show <id>' to see details\n")

	return nil
}

// HistoryShowAction prints one stored analysis, the latest when no id is given.
func HistoryShowAction(c *cli.Context) error {
	cfg, err := bootstrap.Config(c)
	if err != nil {
		return err
	}
	database, err := bootstrap.RequireHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := GetAnalysisIDOrLatest(c, database)
	if err != nil {
		return err
	}

	a, err := database.GetAnalysis(id)
	if err != nil {
		return fmt.Errorf("failed to get analysis %d: %w", id, err)
	}

	out := c.App.Writer
	if c.Bool("verbose") {
		fmt.Fprintf(out, "Analysis %d\n", a.AnalysisID)
		fmt.Fprintf(out, "  Request:  %s\n", a.RequestID)
		fmt.Fprintf(out, "  Created:  %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  Type:     %s (%d chars, sha256 %s)\n", a.ContentType, a.ContentLength, shortHash(a.ContentHash))
		fmt.Fprintf(out, "  Summary:  %s\n\n", a.SummarySource)
	}

	return analyze.WriteResult(out, a.Result, c.String("format"))
}

func truncateTopics(topics []string, n int) string {
	s := strings.Join(topics, ", ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse stored analyses",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent analyses",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: dbpkg.DefaultListLimit, Usage: "maximum rows to show"},
				},
				Action: HistoryListAction,
			},
			{
				Name:      "show",
				Usage:     "Show one analysis (latest by default)",
				ArgsUsage: "[id]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: analyze.FormatMarkdown, Usage: "output format: json, yaml, markdown"},
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print stored metadata before the result"},
				},
				Action: HistoryShowAction,
			},
		},
	}
}
