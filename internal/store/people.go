package store

import (
	"context"
	"sort"
	"strings"

	"github.com/raphaelgruber/newsrag/internal/models"
)

// PeopleFromArticle returns the people listed in the article best matching
// the given title. The resolved article is returned alongside so callers can
// report which article actually matched. A nil article means no match.
func (s *Store) PeopleFromArticle(ctx context.Context, title string) ([]models.Person, *models.Article, error) {
	article, err := s.ResolveTitle(ctx, title)
	if err != nil {
		return nil, nil, err
	}
	if article == nil {
		return nil, nil, nil
	}
	return article.People, article, nil
}

// ArticlesByPerson returns every appearance of people whose name contains
// the given name, case-insensitively.
func (s *Store) ArticlesByPerson(ctx context.Context, name string) ([]models.PersonAppearance, error) {
	articles, err := s.backend.QueryAllArticles(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	var appearances []models.PersonAppearance
	for _, article := range articles {
		for _, person := range article.People {
			if strings.Contains(strings.ToLower(person.Name), needle) {
				appearances = append(appearances, models.PersonAppearance{
					Person:       person,
					ArticleTitle: article.Title,
					ArticleLink:  article.Link,
				})
			}
		}
	}
	return appearances, nil
}

// PeopleByRole returns every appearance of people whose role contains the
// given role, case-insensitively. People without a role never match.
func (s *Store) PeopleByRole(ctx context.Context, role string) ([]models.PersonAppearance, error) {
	articles, err := s.backend.QueryAllArticles(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(role)
	var appearances []models.PersonAppearance
	for _, article := range articles {
		for _, person := range article.People {
			if person.Role == nil {
				continue
			}
			if strings.Contains(strings.ToLower(*person.Role), needle) {
				appearances = append(appearances, models.PersonAppearance{
					Person:       person,
					ArticleTitle: article.Title,
					ArticleLink:  article.Link,
				})
			}
		}
	}
	return appearances, nil
}

// AllPeopleWithFrequency aggregates every person across the catalog, grouped
// case-insensitively by name, and sorts them by number of article mentions
// descending. Ties keep alphabetical name order so output is stable.
func (s *Store) AllPeopleWithFrequency(ctx context.Context) ([]models.PersonFrequency, error) {
	articles, err := s.backend.QueryAllArticles(ctx)
	if err != nil {
		return nil, err
	}

	byName := map[string]*models.PersonFrequency{}
	for _, article := range articles {
		for _, person := range article.People {
			key := strings.ToLower(person.Name)
			freq, ok := byName[key]
			if !ok {
				freq = &models.PersonFrequency{Name: person.Name}
				byName[key] = freq
			}
			freq.Frequency++
			freq.Articles = append(freq.Articles, models.ArticleRef{
				Title: article.Title,
				Link:  article.Link,
			})
			if person.Role != nil {
				freq.Roles = appendUnique(freq.Roles, *person.Role)
			}
			if person.Organization != nil {
				freq.Organizations = appendUnique(freq.Organizations, *person.Organization)
			}
			if person.Notes != nil {
				freq.Facts = appendUnique(freq.Facts, *person.Notes)
			}
		}
	}

	people := make([]models.PersonFrequency, 0, len(byName))
	for _, freq := range byName {
		people = append(people, *freq)
	}
	sort.Slice(people, func(i, j int) bool {
		if people[i].Frequency != people[j].Frequency {
			return people[i].Frequency > people[j].Frequency
		}
		return people[i].Name < people[j].Name
	})
	return people, nil
}

func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}
