package parser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/raphaelgruber/newsrag/internal/models"
)

// Article documents are line oriented. Markers are case insensitive and
// accepted in both English and the Spanish spelling used by the source corpus.
var (
	titleRE         = regexp.MustCompile(`(?i)^(?:Title|Titular):\s*(.+)$`)
	linkRE          = regexp.MustCompile(`(?i)^(?:Link|Enlace):\s*(.+)$`)
	peopleSectionRE = regexp.MustCompile(`(?i)^(?:People\s+Mentioned|Personas\s+Mencionadas):\s*$`)
)

// Processor parses article documents and derives content chunks.
type Processor struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewProcessor creates a document processor with the given chunking settings.
func NewProcessor(chunkSize, chunkOverlap int) *Processor {
	return &Processor{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// ProcessArticleFile parses one article document:
//
//	Title: <headline>
//	People Mentioned:
//	- Name | Role | Organization | Notes
//	<body paragraphs>
//	Link: <url>
//
// Every marker is optional; a missing title falls back to the file name. The
// body is chunked and each chunk prefixed with the article title for search
// relevance. A file without a body still yields an Article and zero chunks.
func (p *Processor) ProcessArticleFile(path string) (models.Article, []models.ArticleChunk, error) {
	content, err := readFileLossy(path)
	if err != nil {
		return models.Article{}, nil, fmt.Errorf("read article file: %w", err)
	}

	article := models.Article{Title: filepath.Base(path)}
	var bodyLines []string
	inPeopleSection := false

	for _, rawLine := range strings.Split(strings.TrimSpace(content), "\n") {
		line := strings.TrimSpace(rawLine)

		if m := titleRE.FindStringSubmatch(line); m != nil {
			article.Title = strings.TrimSpace(m[1])
			continue
		}
		if peopleSectionRE.MatchString(line) {
			inPeopleSection = true
			continue
		}
		if m := linkRE.FindStringSubmatch(line); m != nil {
			link := strings.TrimSpace(m[1])
			article.Link = &link
			inPeopleSection = false
			continue
		}

		if inPeopleSection && strings.HasPrefix(line, "-") {
			if person, ok := parsePersonLine(line); ok {
				article.People = append(article.People, person)
			} else {
				slog.Warn("skipping unparseable person line", "file", path, "line", line)
			}
			continue
		}

		// Any other non-empty line ends the people section and belongs
		// to the article body.
		if inPeopleSection && line != "" {
			inPeopleSection = false
		}
		if line != "" && !inPeopleSection {
			bodyLines = append(bodyLines, line)
		}
	}

	var chunks []models.ArticleChunk
	if body := strings.TrimSpace(strings.Join(bodyLines, "\n")); body != "" {
		for i, chunk := range Chunk(body, p.ChunkSize, p.ChunkOverlap) {
			chunks = append(chunks, models.ArticleChunk{
				Content:      fmt.Sprintf("Article '%s': %s", article.Title, chunk),
				ArticleTitle: article.Title,
				ChunkIndex:   i,
			})
		}
	}

	return article, chunks, nil
}

// parsePersonLine parses "- Name | Role | Organization | Notes". Trailing
// fields may be absent; empty fields become nil. A line without a name is
// rejected.
func parsePersonLine(line string) (models.Person, bool) {
	content := strings.TrimSpace(strings.TrimLeft(line, "- "))
	parts := strings.Split(content, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 0 || parts[0] == "" {
		return models.Person{}, false
	}

	person := models.Person{Name: parts[0]}
	if len(parts) > 1 && parts[1] != "" {
		person.Role = &parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		person.Organization = &parts[2]
	}
	if len(parts) > 3 && parts[3] != "" {
		person.Notes = &parts[3]
	}
	return person, true
}

// readFileLossy reads a file as UTF-8, dropping invalid byte sequences
// instead of failing on them.
func readFileLossy(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		slog.Warn("article file contains invalid UTF-8, decoding lossily", "file", path)
		return strings.ToValidUTF8(string(data), ""), nil
	}
	return string(data), nil
}
