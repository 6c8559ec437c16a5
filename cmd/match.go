package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/kozaktomas/koya-pay/internal/media"
	"github.com/kozaktomas/koya-pay/internal/workflow"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <photo>",
	Short: "Match the face in a photo against the database",
	Long: `Send a photo to the Koya Pay service and list the matched people.

Use --filter to narrow the rows by name (case and diacritics are ignored).

Examples:
  koya match face.jpg
  koya match face.jpg --filter adeola
  koya match face.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("filter", "", "Only show rows whose name contains this text")
	matchCmd.Flags().Bool("json", false, "Output as JSON")
}

func printMatches(results []koya.MatchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tPHOTO")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Location, r.PhotoURL)
	}
	w.Flush()
}

func runMatch(cmd *cobra.Command, args []string) error {
	filter := mustGetString(cmd, "filter")
	asJSON := mustGetBool(cmd, "json")

	file, err := media.FromPath(args[0])
	if err != nil {
		return err
	}

	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	_, client, err := newClient(logger)
	if err != nil {
		return err
	}

	match := workflow.NewMatch(client, logger)
	defer match.Dispose()

	if err := match.Run(cmd.Context(), file); err != nil {
		if msg := match.State().Error; msg != "" {
			return fmt.Errorf("match failed: %s", msg)
		}
		return err
	}

	results := match.State().Results
	if filter != "" {
		results = match.Filter(filter)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println(workflow.MsgNoMatches)
		return nil
	}
	printMatches(results)
	return nil
}
