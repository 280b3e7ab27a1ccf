package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/newsrag/internal/models"
)

var (
	peopleArticle string
	peopleName    string
	peopleRole    string
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Browse the people mentioned across articles",
	Long: `Browse the people mentioned across articles.

Without flags, lists everyone in the catalog with their appearance count.
Flags narrow the listing by article, name or role; name and role match
as case-insensitive substrings.

Examples:
  newsrag people
  newsrag people --article "Mayor Resigns"
  newsrag people --name "lopez"
  newsrag people --role minister`,
	Args: cobra.NoArgs,
	RunE: runPeople,
}

func init() {
	peopleCmd.Flags().StringVar(&peopleArticle, "article", "", "list people in one article")
	peopleCmd.Flags().StringVar(&peopleName, "name", "", "find articles mentioning a person")
	peopleCmd.Flags().StringVar(&peopleRole, "role", "", "find people by role")
}

func runPeople(cmd *cobra.Command, args []string) error {
	if serverURL != "" {
		return fmt.Errorf("people works directly against the database, drop the --server flag")
	}

	ctx := cmd.Context()
	st, err := getStore(ctx)
	if err != nil {
		return err
	}

	switch {
	case peopleArticle != "":
		people, article, err := st.PeopleFromArticle(ctx, peopleArticle)
		if err != nil {
			return fmt.Errorf("people lookup: %w", err)
		}
		if article == nil {
			fmt.Printf("No article found matching %q\n", peopleArticle)
			return nil
		}
		if len(people) == 0 {
			fmt.Printf("No people are listed for article %q\n", article.Title)
			return nil
		}
		fmt.Printf("People mentioned in %q:\n", article.Title)
		for _, p := range people {
			fmt.Printf("  - %s\n", personLine(p))
		}

	case peopleName != "":
		matches, err := st.ArticlesByPerson(ctx, peopleName)
		if err != nil {
			return fmt.Errorf("people lookup: %w", err)
		}
		if len(matches) == 0 {
			fmt.Printf("No people found matching name %q\n", peopleName)
			return nil
		}
		for _, m := range matches {
			fmt.Printf("  - %s in %q\n", m.Name, m.ArticleTitle)
		}

	case peopleRole != "":
		matches, err := st.PeopleByRole(ctx, peopleRole)
		if err != nil {
			return fmt.Errorf("people lookup: %w", err)
		}
		if len(matches) == 0 {
			fmt.Printf("No people found with role matching %q\n", peopleRole)
			return nil
		}
		for _, m := range matches {
			fmt.Printf("  - %s in %q\n", personLine(m.Person), m.ArticleTitle)
		}

	default:
		people, err := st.AllPeopleWithFrequency(ctx)
		if err != nil {
			return fmt.Errorf("people lookup: %w", err)
		}
		if len(people) == 0 {
			fmt.Println("No people are recorded in the article catalog.")
			return nil
		}
		for _, p := range people {
			fmt.Printf("  - %s (%d article(s))\n", p.Name, p.Frequency)
			if verbose {
				for _, ref := range p.Articles {
					fmt.Printf("      in %q\n", ref.Title)
				}
			}
		}
	}

	return nil
}

func personLine(p models.Person) string {
	line := p.Name
	if p.Role != nil {
		line += " | " + *p.Role
	}
	if p.Organization != nil {
		line += " | " + *p.Organization
	}
	return line
}
