package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var addClear bool

var addCmd = &cobra.Command{
	Use:   "add <file-or-directory>",
	Short: "Add article documents to the catalog",
	Long: `Add article documents to the catalog.

A single file is always ingested. For a directory, every .txt, .pdf and
.docx file is ingested; articles whose title is already in the catalog
are skipped. Use --clear to wipe the catalog first.

Examples:
  newsrag add ./docs/mayor-resigns.txt
  newsrag add ./docs
  newsrag add ./docs --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addClear, "clear", false, "wipe existing articles before adding")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if serverURL != "" {
		return fmt.Errorf("add works directly against the database, drop the --server flag")
	}

	path := args[0]
	ctx := cmd.Context()

	svc, err := getRAG(ctx)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		article, chunks, err := svc.AddArticleDocument(ctx, path)
		if err != nil {
			return err
		}
		fmt.Printf("Added article %q (%d chunks)\n", article.Title, chunks)
		return nil
	}

	result, err := svc.AddArticlesFolder(ctx, path, addClear)
	if err != nil {
		return err
	}

	fmt.Printf("Added %d articles (%d chunks), skipped %d existing\n",
		result.ArticlesAdded, result.ChunksAdded, result.FilesSkipped)
	if len(result.Errors) > 0 {
		fmt.Printf("%d files failed:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %s\n", e)
		}
	}
	return nil
}
