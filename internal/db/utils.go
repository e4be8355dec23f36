package db

import (
	"fmt"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/learnmap/pkg/db"
)

// GetAnalysisIDOrLatest returns the analysis ID from args, or the latest analysis if not provided
func GetAnalysisIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		analyses, err := database.ListAnalyses(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest analysis: %w", err)
		}
		if len(analyses) == 0 {
			return 0, fmt.Errorf("no analyses found. Run 'learnmap analyze --save ...' first")
		}
		return analyses[0].AnalysisID, nil
	}

	var analysisID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &analysisID)
	if err != nil {
		return 0, fmt.Errorf("invalid analysis ID: %s", c.Args().First())
	}
	return analysisID, nil
}
