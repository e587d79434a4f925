package app

import (
	"github.com/spf13/cobra"

	"github.com/examtrail/qbank/internal/cmd/output"
	"github.com/examtrail/qbank/pkg/research"
)

// NewResearchCommand creates the research command.
func (a *App) NewResearchCommand() *cobra.Command {
	var size int
	var dir string

	cmd := &cobra.Command{
		Use:   "research",
		Short: "Build research requests for unanswered records",
		Long: `Research collects every bank record without an answer and writes them
out as research request documents, chunked so the lookup work can be
parallelized. Each request carries the full question material and an
explicitly empty answer slot for the researcher to fill.

Completed batches come back through the integrate command.`,
		Example: `  qbank research
  qbank research --size 25 --dir research
  qbank research --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qb, err := a.Engine()
			if err != nil {
				return err
			}

			if size <= 0 {
				size = a.config.ResearchSize
			}
			if dir == "" {
				dir = a.config.ResearchDir
			}

			requests, err := qb.BuildResearch(cmd.Context(), size)
			if err != nil {
				return err
			}
			if len(requests) == 0 {
				cmd.Println("Every record has an answer, nothing to research")
				return nil
			}

			pending := 0
			for _, req := range requests {
				pending += len(req.Questions)
			}

			if a.config.DryRun {
				cmd.Printf("Would write %s covering %s to %s\n",
					output.Plural(len(requests), "request file", "request files"),
					output.Plural(pending, "unanswered record", "unanswered records"), dir)
				return nil
			}

			paths, err := research.Save(requests, dir)
			if err != nil {
				return err
			}
			for _, path := range paths {
				cmd.Println(path)
			}
			cmd.Printf("Wrote %s covering %s\n",
				output.Plural(len(paths), "request file", "request files"),
				output.Plural(pending, "unanswered record", "unanswered records"))
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "questions per request file (default 50)")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory for request files (default research)")

	return cmd
}
