package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/learnmap/internal/bootstrap"
	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/analysis"
	"github.com/dtnitsch/learnmap/pkg/db"
	"github.com/dtnitsch/learnmap/pkg/logger"
	"github.com/dtnitsch/learnmap/pkg/render"
)

// Output formats accepted by --format.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

func AnalyzeAction(c *cli.Context) error {
	cfg, err := bootstrap.Config(c)
	if err != nil {
		return err
	}

	text, err := readInput(c)
	if err != nil {
		return err
	}
	contentType := models.ResolveContentType(c.String("type"))
	if err := validateInput(text, contentType); err != nil {
		return err
	}

	analyzer, err := bootstrap.Analyzer(cfg)
	if err != nil {
		return err
	}
	resolver, err := bootstrap.Resolver(cfg)
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	resolved, err := resolver.Resolve(ctx, models.AnalysisInput{Text: text, ContentType: contentType})
	if err != nil {
		return err
	}

	report := analyzer.Run(ctx, resolved, contentType)
	logger.Log.WithField("summary_source", report.SummarySource).
		WithField("duration", report.Duration).
		Info("analysis complete")

	if c.Bool("save") {
		if err := save(cfg, contentType, report); err != nil {
			return err
		}
	}

	out, closeOut, err := openOutput(c.String("output"))
	if err != nil {
		return err
	}
	defer closeOut()

	return WriteResult(out, *report.Result, c.String("format"))
}

// WriteResult encodes result in the requested format.
func WriteResult(w io.Writer, result models.AnalysisResult, format string) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown, "md":
		return render.Markdown(w, result)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or markdown)", format)
	}
}

// readInput takes content from --text, --file (or "-" for stdin), or the
// first argument, in that order.
func readInput(c *cli.Context) (string, error) {
	if v := c.String("text"); v != "" {
		return v, nil
	}
	if path := c.String("file"); path != "" {
		var (
			data []byte
			err  error
		)
		if path == "-" {
			data, err = io.ReadAll(c.App.Reader)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	return "", errors.New("no content provided; use --text, --file or an argument")
}

// validateInput applies the same minimum-length rule as the HTTP API. URLs
// are exempt; their extracted text is what gets analysed.
func validateInput(text string, ct models.ContentType) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.New("content is required")
	}
	if ct == models.ContentTypeURL {
		return nil
	}
	if n := utf8.RuneCountInString(trimmed); n < models.MinContentChars {
		return fmt.Errorf("content must be at least %d characters (received %d)", models.MinContentChars, n)
	}
	return nil
}

func save(cfg *models.Config, ct models.ContentType, report analysis.Report) error {
	store, err := bootstrap.RequireHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.InsertAnalysis(&db.Analysis{
		RequestID:     uuid.NewString(),
		ContentType:   ct,
		ContentHash:   report.ContentHash,
		ContentLength: report.ContentLength,
		SummarySource: string(report.SummarySource),
		Result:        *report.Result,
	})
	if err != nil {
		return err
	}
	logger.Log.WithField("id", id).Info("analysis saved to history")
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func Command() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Build a learning map for a piece of content",
		ArgsUsage: "[content]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "content to analyze"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read content from a file, - for stdin"},
			&cli.StringFlag{Name: "type", Value: string(models.ContentTypeText), Usage: "content type: text, audio, html, url"},
			&cli.StringFlag{Name: "format", Value: FormatJSON, Usage: "output format: json, yaml, markdown"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write output to a file instead of stdout"},
			&cli.BoolFlag{Name: "save", Usage: "record the analysis in the history database"},
		},
		Action: AnalyzeAction,
	}
}
