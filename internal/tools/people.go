package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphaelgruber/newsrag/internal/models"
	"github.com/tmc/langchaingo/llms"
)

// PeopleDirectory is the store surface the people lookup tool needs.
type PeopleDirectory interface {
	PeopleFromArticle(ctx context.Context, title string) ([]models.Person, *models.Article, error)
	ArticlesByPerson(ctx context.Context, name string) ([]models.PersonAppearance, error)
	PeopleByRole(ctx context.Context, role string) ([]models.PersonAppearance, error)
	AllPeopleWithFrequency(ctx context.Context) ([]models.PersonFrequency, error)
}

// PeopleSearch answers questions about who appears in which articles.
type PeopleSearch struct {
	store PeopleDirectory
}

// NewPeopleSearch creates the people lookup tool.
func NewPeopleSearch(store PeopleDirectory) *PeopleSearch {
	return &PeopleSearch{store: store}
}

// Definition returns the tool schema exposed to the model.
func (t *PeopleSearch) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "search_people_in_articles",
			Description: "Look up people mentioned in the news articles. With no arguments, lists every known person ordered by how many articles mention them. Filters can be combined.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"article_title": map[string]any{
						"type":        "string",
						"description": "List the people mentioned in this article (partial matches work)",
					},
					"person_name": map[string]any{
						"type":        "string",
						"description": "Find articles mentioning this person (substring match)",
					},
					"role": map[string]any{
						"type":        "string",
						"description": "Find people whose role matches this text (substring match)",
					},
				},
			},
		},
	}
}

// Execute evaluates every supplied filter independently and concatenates
// the sections. A miss on one filter does not suppress the others; source
// indices continue across sections.
func (t *PeopleSearch) Execute(ctx context.Context, args map[string]any) (Result, error) {
	articleTitle := stringArg(args, "article_title")
	personName := stringArg(args, "person_name")
	role := stringArg(args, "role")

	if articleTitle == "" && personName == "" && role == "" {
		return t.listAllPeople(ctx)
	}

	var sections []string
	var sources []models.Source

	if articleTitle != "" {
		section, srcs, err := t.peopleInArticle(ctx, articleTitle, len(sources))
		if err != nil {
			return Result{}, err
		}
		sections = append(sections, section)
		sources = append(sources, srcs...)
	}

	if personName != "" {
		appearances, err := t.store.ArticlesByPerson(ctx, personName)
		if err != nil {
			return Result{}, fmt.Errorf("search_people_in_articles: %w", err)
		}
		if len(appearances) == 0 {
			sections = append(sections, fmt.Sprintf("No people found matching name '%s'.", personName))
		} else {
			lines := []string{fmt.Sprintf("Articles mentioning '%s':", personName)}
			for _, a := range appearances {
				lines = append(lines, fmt.Sprintf("- %s in '%s'", describePerson(a.Person), a.ArticleTitle))
				sources = append(sources, articleSource(a.ArticleTitle, a.ArticleLink, len(sources)+1))
			}
			sections = append(sections, strings.Join(lines, "\n"))
		}
	}

	if role != "" {
		appearances, err := t.store.PeopleByRole(ctx, role)
		if err != nil {
			return Result{}, fmt.Errorf("search_people_in_articles: %w", err)
		}
		if len(appearances) == 0 {
			sections = append(sections, fmt.Sprintf("No people found with role matching '%s'.", role))
		} else {
			lines := []string{fmt.Sprintf("People with role matching '%s':", role)}
			for _, a := range appearances {
				lines = append(lines, fmt.Sprintf("- %s in '%s'", describePerson(a.Person), a.ArticleTitle))
				sources = append(sources, articleSource(a.ArticleTitle, a.ArticleLink, len(sources)+1))
			}
			sections = append(sections, strings.Join(lines, "\n"))
		}
	}

	return Result{Text: strings.Join(sections, "\n\n"), Sources: sources}, nil
}

// listAllPeople formats the full frequency-ordered person listing, with one
// source per (person, article) appearance.
func (t *PeopleSearch) listAllPeople(ctx context.Context) (Result, error) {
	people, err := t.store.AllPeopleWithFrequency(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("search_people_in_articles: %w", err)
	}
	if len(people) == 0 {
		return Result{Text: "No people are recorded in the article catalog."}, nil
	}

	var sources []models.Source
	lines := []string{"People mentioned in the news articles:"}
	for _, person := range people {
		unit := "articles"
		if person.Frequency == 1 {
			unit = "article"
		}
		lines = append(lines, fmt.Sprintf("\n- %s (%d %s)", person.Name, person.Frequency, unit))
		if len(person.Roles) > 0 {
			lines = append(lines, fmt.Sprintf("  Roles: %s", strings.Join(person.Roles, ", ")))
		}
		if len(person.Organizations) > 0 {
			lines = append(lines, fmt.Sprintf("  Organizations: %s", strings.Join(person.Organizations, ", ")))
		}
		if len(person.Articles) > 0 {
			titles := make([]string, len(person.Articles))
			for i, ref := range person.Articles {
				titles[i] = ref.Title
				sources = append(sources, articleSource(ref.Title, ref.Link, len(sources)+1))
			}
			lines = append(lines, fmt.Sprintf("  Appears in: %s", strings.Join(titles, ", ")))
		}
		for _, fact := range person.Facts {
			lines = append(lines, fmt.Sprintf("  Note: %s", fact))
		}
	}

	return Result{Text: strings.Join(lines, "\n"), Sources: sources}, nil
}

// peopleInArticle renders the article-title filter branch.
func (t *PeopleSearch) peopleInArticle(ctx context.Context, title string, sourceOffset int) (string, []models.Source, error) {
	people, article, err := t.store.PeopleFromArticle(ctx, title)
	if err != nil {
		return "", nil, fmt.Errorf("search_people_in_articles: %w", err)
	}
	if article == nil {
		return fmt.Sprintf("No article found matching '%s'", title), nil, nil
	}
	if len(people) == 0 {
		return fmt.Sprintf("No people are listed for article '%s'.", article.Title), nil, nil
	}

	lines := []string{fmt.Sprintf("People mentioned in '%s':", article.Title)}
	for _, person := range people {
		lines = append(lines, "- "+describePerson(person))
	}
	sources := []models.Source{articleSource(article.Title, article.Link, sourceOffset+1)}
	return strings.Join(lines, "\n"), sources, nil
}

// describePerson renders a person the way the source documents list them,
// pipe-separated with absent fields dropped.
func describePerson(p models.Person) string {
	parts := []string{p.Name}
	if p.Role != nil {
		parts = append(parts, *p.Role)
	}
	if p.Organization != nil {
		parts = append(parts, *p.Organization)
	}
	if p.Notes != nil {
		parts = append(parts, *p.Notes)
	}
	return strings.Join(parts, " | ")
}

func articleSource(title string, link *string, index int) models.Source {
	return models.Source{
		Text:  fmt.Sprintf("Article: %s", title),
		URL:   link,
		Index: index,
	}
}
