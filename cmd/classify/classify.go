// Package classify shows how a line item description is classified
package classify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"contajur/ledger/cmd/common"
	"contajur/ledger/cmd/root"
	"contajur/ledger/internal/categorizer"
	"contajur/ledger/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify <description>",
	Short: "Classify a line item description against the taxonomy",
	Long: `Run a description through the withdrawal, fee and category strategies and
print the outcome of each attempt.

Example:
  contajur classify "Honorarios CEI"`,
	Args: cobra.MinimumNArgs(1),
	Run:  classifyFunc,
}

func classifyFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Classify command called")

	c := common.MustContainer()
	description := strings.Join(args, " ")
	if err := Run(cmd.Context(), c.GetClassifier(), description, cmd.OutOrStdout()); err != nil {
		root.Log.Fatal(common.ExitMessage(err))
	}
}

// Run classifies description and writes every strategy attempt.
func Run(ctx context.Context, classifier *categorizer.Classifier, description string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := classifier.Explain(ctx, description)
	if err != nil {
		return err
	}
	root.Log.Debugf("Strategies for %q: %s", description, results.Summary())

	for _, r := range results.Results {
		switch {
		case r.Error != nil:
			fmt.Fprintf(w, "%-12s error: %v\n", r.Strategy, r.Error)
		case r.Found:
			fmt.Fprintf(w, "%-12s match\n", r.Strategy)
		default:
			fmt.Fprintf(w, "%-12s no match\n", r.Strategy)
		}
	}

	class, strategy, ok := results.GetBestResult()
	if !ok {
		fmt.Fprintf(w, "%q is uncategorized and would be skipped on import\n", description)
		return nil
	}
	fmt.Fprintf(w, "%q -> %s", description, describe(class))
	fmt.Fprintf(w, " (by %s)\n", strategy)
	return nil
}

func describe(class models.Classification) string {
	switch class.Kind {
	case models.RowWithdrawal:
		return fmt.Sprintf("withdrawal of %s", class.Person)
	case models.RowFee:
		if class.Category != "" {
			return fmt.Sprintf("fee, filed under %s", class.Category)
		}
		return "fee"
	default:
		return fmt.Sprintf("expense in %s", class.Category)
	}
}
