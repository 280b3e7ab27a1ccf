package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all articles and chunks from the catalog",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	if serverURL != "" {
		return fmt.Errorf("clear works directly against the database, drop the --server flag")
	}

	ctx := cmd.Context()
	st, err := getStore(ctx)
	if err != nil {
		return err
	}

	count, err := st.ArticleCount(ctx)
	if err != nil {
		return fmt.Errorf("count articles: %w", err)
	}
	if count == 0 {
		fmt.Println("The catalog is already empty.")
		return nil
	}

	if !clearYes {
		fmt.Printf("Delete all %d articles? [y/N] ", count)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := st.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	fmt.Printf("Deleted %d articles.\n", count)
	return nil
}
