package pdf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/learnmap/internal/bootstrap"
	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/logger"
	pdfpkg "github.com/dtnitsch/learnmap/pkg/pdf"
)

// PDFAction renders a learning map to PDF. The source is either a stored
// analysis (--id) or an analysis JSON document (--input, - for stdin).
func PDFAction(c *cli.Context) error {
	cfg, err := bootstrap.Config(c)
	if err != nil {
		return err
	}

	var result models.AnalysisResult
	switch {
	case c.IsSet("id"):
		store, err := bootstrap.RequireHistory(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		a, err := store.GetAnalysis(c.Int64("id"))
		if err != nil {
			return fmt.Errorf("failed to load analysis %d: %w", c.Int64("id"), err)
		}
		result = a.Result
	case c.String("input") != "":
		result, err = readResult(c.String("input"), c.App.Reader)
		if err != nil {
			return err
		}
	default:
		return errors.New("nothing to render; use --id or --input")
	}

	path := c.String("output")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := pdfpkg.Generate(f, result); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Log.WithField("path", path).Info("pdf written")
	return nil
}

func readResult(path string, stdin io.Reader) (models.AnalysisResult, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to read input: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("input is not a JSON object: %w", err)
	}
	_, hasSummary := fields["summary"]
	_, hasTree := fields["topicTree"]
	if !hasSummary && !hasTree {
		return models.AnalysisResult{}, errors.New("missing required fields: summary or topicTree")
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("invalid analysis data: %w", err)
	}
	return result, nil
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "pdf",
		Usage: "Render a learning map as a PDF document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "analysis JSON file, - for stdin"},
			&cli.Int64Flag{Name: "id", Usage: "stored analysis ID"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: pdfpkg.Filename, Usage: "PDF file to write"},
		},
		Action: PDFAction,
	}
}
