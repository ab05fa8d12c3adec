package commands

import (
	"os"
	"sort"

	"impresso-sampler/services/sampler"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusCheckpoint *string

func init() {
	statusCheckpoint = statusCmd.Flags().String("checkpoint", "newsagencies_by_article.json", "Checkpoint file to summarize.")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [--checkpoint <file>]",
	Short: "Prints per-keyword sample counts from a checkpoint file.",
	Run: func(cmd *cobra.Command, args []string) {
		result := sampler.LoadCheckpoint(*statusCheckpoint)
		printResultTable(result, nil)
	},
}

// Rows follow the given keyword order; keywords only present in the
// result are appended sorted.
func printResultTable(result sampler.CampaignResult, order []string) {
	seen := map[string]bool{}
	var rows []string
	for _, k := range order {
		if _, ok := result[k]; ok && !seen[k] {
			rows = append(rows, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range result {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	rows = append(rows, rest...)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Keyword", "Sampled UIDs"})

	total := 0
	for _, k := range rows {
		t.AppendRow(table.Row{k, len(result[k])})
		total += len(result[k])
	}
	t.AppendFooter(table.Row{"total", total})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
