package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/learnmap/internal/analyze"
	"github.com/dtnitsch/learnmap/internal/bootstrap"
	"github.com/dtnitsch/learnmap/internal/db"
	"github.com/dtnitsch/learnmap/internal/pdf"
	"github.com/dtnitsch/learnmap/internal/serve"
	"github.com/dtnitsch/learnmap/pkg/help"
)

func main() {
	app := &cli.App{
		Name:    serve.Name,
		Usage:   "Turn text into a learning map: summary, key topics and a topic tree",
		Version: serve.Version,
		Flags:   bootstrap.GlobalFlags(),
		Commands: []*cli.Command{
			serve.Command(),
			analyze.Command(),
			pdf.Command(),
			db.Command(),
			{
				Name:  "quickstart",
				Usage: "Print a quick reference for commands and settings",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
