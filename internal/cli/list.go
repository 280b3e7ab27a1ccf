package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/newsrag/internal/client"
	"github.com/raphaelgruber/newsrag/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the articles in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var stats models.ArticleStats
	if serverURL != "" {
		remote, err := client.New(serverURL).Articles(ctx)
		if err != nil {
			return err
		}
		stats = *remote
	} else {
		st, err := getStore(ctx)
		if err != nil {
			return err
		}
		count, err := st.ArticleCount(ctx)
		if err != nil {
			return fmt.Errorf("count articles: %w", err)
		}
		titles, err := st.ArticleTitles(ctx)
		if err != nil {
			return fmt.Errorf("list articles: %w", err)
		}
		stats = models.ArticleStats{TotalArticles: count, ArticleTitles: titles}
	}

	fmt.Printf("%d articles in the catalog\n", stats.TotalArticles)
	for _, title := range stats.ArticleTitles {
		fmt.Printf("  - %s\n", title)
	}
	return nil
}
