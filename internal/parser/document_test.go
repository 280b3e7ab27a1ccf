package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArticleFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestProcessArticleFile_TitleLinkAndBody(t *testing.T) {
	path := writeArticleFile(t, "article.txt", "Title: Test\nEnlace: http://x\nBody line.")

	article, chunks, err := NewProcessor(800, 100).ProcessArticleFile(path)
	if err != nil {
		t.Fatalf("ProcessArticleFile() error = %v", err)
	}

	if article.Title != "Test" {
		t.Errorf("Title = %q, want 'Test'", article.Title)
	}
	if article.Link == nil || *article.Link != "http://x" {
		t.Errorf("Link = %v, want 'http://x'", article.Link)
	}
	if len(article.People) != 0 {
		t.Errorf("People = %v, want none", article.People)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0].Content, "Body line.") {
		t.Errorf("chunk content %q should contain the body", chunks[0].Content)
	}
	if !strings.HasPrefix(chunks[0].Content, "Article 'Test': ") {
		t.Errorf("chunk content %q should carry the article prefix", chunks[0].Content)
	}
	if chunks[0].ArticleTitle != "Test" || chunks[0].ChunkIndex != 0 {
		t.Errorf("chunk metadata = (%q, %d), want ('Test', 0)", chunks[0].ArticleTitle, chunks[0].ChunkIndex)
	}
}

func TestProcessArticleFile_PeopleSection(t *testing.T) {
	content := strings.Join([]string{
		"Titular: Flood Inquiry Widens",
		"Personas Mencionadas:",
		"- Carla Ruiz | Judge | Provincial Court | Leading the inquiry",
		"- Pedro Gil | | Emergencies Agency",
		"- | Nameless | Org",
		"The inquiry entered its second week.",
		"Enlace: https://news.example/flood",
	}, "\n")
	path := writeArticleFile(t, "flood.txt", content)

	article, chunks, err := NewProcessor(800, 100).ProcessArticleFile(path)
	if err != nil {
		t.Fatalf("ProcessArticleFile() error = %v", err)
	}

	if article.Title != "Flood Inquiry Widens" {
		t.Errorf("Title = %q", article.Title)
	}
	if len(article.People) != 2 {
		t.Fatalf("got %d people, want 2 (nameless line skipped): %+v", len(article.People), article.People)
	}

	carla := article.People[0]
	if carla.Name != "Carla Ruiz" {
		t.Errorf("People[0].Name = %q", carla.Name)
	}
	if carla.Role == nil || *carla.Role != "Judge" {
		t.Errorf("People[0].Role = %v, want 'Judge'", carla.Role)
	}
	if carla.Notes == nil || *carla.Notes != "Leading the inquiry" {
		t.Errorf("People[0].Notes = %v", carla.Notes)
	}

	pedro := article.People[1]
	if pedro.Role != nil {
		t.Errorf("empty role field should be nil, got %q", *pedro.Role)
	}
	if pedro.Organization == nil || *pedro.Organization != "Emergencies Agency" {
		t.Errorf("People[1].Organization = %v", pedro.Organization)
	}

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if strings.Contains(chunks[0].Content, "Carla Ruiz |") {
		t.Errorf("people lines must not leak into the body: %q", chunks[0].Content)
	}
}

func TestProcessArticleFile_MissingTitleFallsBackToFilename(t *testing.T) {
	path := writeArticleFile(t, "noticia_7.txt", "Just a body with no markers at all.")

	article, chunks, err := NewProcessor(800, 100).ProcessArticleFile(path)
	if err != nil {
		t.Fatalf("ProcessArticleFile() error = %v", err)
	}

	if article.Title != "noticia_7.txt" {
		t.Errorf("Title = %q, want filename fallback", article.Title)
	}
	if article.Link != nil {
		t.Errorf("Link = %v, want nil", article.Link)
	}
	if len(chunks) != 1 {
		t.Errorf("got %d chunks, want 1", len(chunks))
	}
}

func TestProcessArticleFile_NoBodyYieldsZeroChunks(t *testing.T) {
	path := writeArticleFile(t, "empty.txt", "Title: Header Only\nLink: http://example.com")

	article, chunks, err := NewProcessor(800, 100).ProcessArticleFile(path)
	if err != nil {
		t.Fatalf("ProcessArticleFile() error = %v", err)
	}

	if article.Title != "Header Only" {
		t.Errorf("Title = %q", article.Title)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks, want 0", len(chunks))
	}
}

func TestProcessArticleFile_NonDashLineEndsPeopleSection(t *testing.T) {
	content := strings.Join([]string{
		"Title: Section Boundary",
		"People Mentioned:",
		"- Ana Sol | Reporter",
		"This sentence is body text, not a person.",
		"- This dash line is also body text now.",
	}, "\n")
	path := writeArticleFile(t, "boundary.txt", content)

	article, chunks, err := NewProcessor(800, 100).ProcessArticleFile(path)
	if err != nil {
		t.Fatalf("ProcessArticleFile() error = %v", err)
	}

	if len(article.People) != 1 {
		t.Fatalf("got %d people, want 1: %+v", len(article.People), article.People)
	}
	if len(chunks) == 0 {
		t.Fatal("expected body chunks")
	}
	if !strings.Contains(chunks[0].Content, "This sentence is body text") {
		t.Errorf("body text missing from chunk: %q", chunks[0].Content)
	}
}

func TestProcessArticleFile_ChunkIndicesSequential(t *testing.T) {
	var body strings.Builder
	body.WriteString("Title: Long Piece\n")
	for i := 0; i < 40; i++ {
		body.WriteString("This is a fairly long sentence used to force several chunks to be produced. ")
	}
	path := writeArticleFile(t, "long.txt", body.String())

	_, chunks, err := NewProcessor(200, 0).ProcessArticleFile(path)
	if err != nil {
		t.Fatalf("ProcessArticleFile() error = %v", err)
	}

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk[%d].ChunkIndex = %d", i, c.ChunkIndex)
		}
		if c.ArticleTitle != "Long Piece" {
			t.Errorf("chunk[%d].ArticleTitle = %q", i, c.ArticleTitle)
		}
	}
}

func TestProcessArticleFile_MissingFile(t *testing.T) {
	_, _, err := NewProcessor(800, 100).ProcessArticleFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
