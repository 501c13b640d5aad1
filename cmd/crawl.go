package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/padraigk/jobradar/internal/jobs"
)

func newCrawlCmd() *cobra.Command {
	var (
		sourceName  string
		suggestions bool
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run one aggregation pass and print the results as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			var result *jobs.Result
			switch {
			case sourceName != "":
				result, err = a.aggregator.CrawlSource(cmd.Context(), sourceName, a.profile())
			case suggestions:
				result, err = a.aggregator.Suggest(cmd.Context(), a.profile())
			default:
				result, err = a.aggregator.Crawl(cmd.Context(), a.profile())
			}
			if err != nil {
				return fmt.Errorf("running crawl: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "crawl a single source by name")
	cmd.Flags().BoolVar(&suggestions, "suggestions", false, "apply the suggestion score floor and window")
	return cmd
}
