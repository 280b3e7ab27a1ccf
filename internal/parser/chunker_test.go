package parser

import (
	"strings"
	"testing"
)

func TestChunk_SingleChunkFitsAll(t *testing.T) {
	text := "Sentence one. Sentence two. Sentence three."

	chunks := Chunk(text, 200, 0)

	if len(chunks) != 1 {
		t.Fatalf("Chunk() got %d chunks, want 1: %q", len(chunks), chunks)
	}
	want := "Sentence one. Sentence two. Sentence three."
	if chunks[0] != want {
		t.Errorf("Chunk()[0] = %q, want %q", chunks[0], want)
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "  \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if chunks := Chunk(tt.text, 100, 10); len(chunks) != 0 {
				t.Errorf("Chunk(%q) = %v, want none", tt.text, chunks)
			}
		})
	}
}

func TestChunk_RespectsMaxSize(t *testing.T) {
	text := "Alpha is first. Bravo is second. Charlie is third. Delta is fourth. Echo is fifth."

	chunks := Chunk(text, 40, 0)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c == "" {
			t.Errorf("chunk[%d] is empty", i)
		}
		if len(c) > 40 {
			t.Errorf("chunk[%d] length %d exceeds max 40: %q", i, len(c), c)
		}
	}
}

func TestChunk_OversizedSentenceStillEmitted(t *testing.T) {
	long := "This single sentence is far longer than the configured maximum chunk size limit."

	chunks := Chunk(long, 20, 0)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != long {
		t.Errorf("oversized sentence should be its own chunk, got %q", chunks[0])
	}
}

func TestChunk_CoversAllSentencesInOrder(t *testing.T) {
	text := "One thing happened. Two things happened. Three things happened. Four things happened."

	chunks := Chunk(text, 45, 0)

	joined := strings.Join(chunks, " ")
	for _, sentence := range []string{
		"One thing happened.",
		"Two things happened.",
		"Three things happened.",
		"Four things happened.",
	} {
		if !strings.Contains(joined, sentence) {
			t.Errorf("chunks should contain %q\ngot: %q", sentence, joined)
		}
	}

	// With zero overlap no sentence may repeat.
	if strings.Count(joined, "Two things happened.") != 1 {
		t.Errorf("sentence repeated without overlap: %q", joined)
	}
}

func TestChunk_OverlapRepeatsTrailingSentence(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."

	chunks := Chunk(text, 45, 25)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d: %q", len(chunks), chunks)
	}
	for i := 1; i < len(chunks); i++ {
		prevSentences := strings.SplitAfter(chunks[i-1], ". ")
		last := strings.TrimSpace(prevSentences[len(prevSentences)-1])
		if !strings.HasPrefix(chunks[i], last) {
			t.Errorf("chunk[%d] should start with the previous chunk's last sentence %q, got %q", i, last, chunks[i])
		}
	}
}

func TestChunk_OverlapBound(t *testing.T) {
	text := "Aa bb cc dd. Ee ff gg hh. Ii jj kk ll. Mm nn oo pp."
	overlap := 13

	chunks := Chunk(text, 30, overlap)

	for i := 1; i < len(chunks); i++ {
		// Count the characters chunk i shares with the tail of chunk i-1.
		shared := 0
		for l := 1; l <= len(chunks[i]) && l <= len(chunks[i-1]); l++ {
			if strings.HasSuffix(chunks[i-1], chunks[i][:l]) {
				shared = l
			}
		}
		if shared > overlap {
			t.Errorf("chunk[%d] repeats %d chars of chunk[%d], overlap budget is %d", i, shared, i-1, overlap)
		}
	}
}

func TestChunk_TerminatesWhenOverlapCoversWholeChunk(t *testing.T) {
	text := "Tiny one. Tiny two. Tiny three. Tiny four. Tiny five. Tiny six."

	// Overlap far larger than any chunk: the start index must still advance.
	chunks := Chunk(text, 25, 500)

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if len(chunks) > 20 {
		t.Fatalf("suspiciously many chunks (%d), overlap walk may not be advancing", len(chunks))
	}
	if !strings.Contains(strings.Join(chunks, " "), "Tiny six.") {
		t.Error("last sentence missing from output")
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain sentences",
			text: "First point. Second point. Third point.",
			want: []string{"First point.", "Second point.", "Third point."},
		},
		{
			name: "question and exclamation",
			text: "Really? Yes! Absolutely.",
			want: []string{"Really?", "Yes!", "Absolutely."},
		},
		{
			name: "title abbreviation not split",
			text: "Dr. Smith spoke first. Then questions followed.",
			want: []string{"Dr. Smith spoke first.", "Then questions followed."},
		},
		{
			name: "initialism not split",
			text: "Policy in the U.S. Senate shifted. Debate continued.",
			want: []string{"Policy in the U.S. Senate shifted.", "Debate continued."},
		},
		{
			name: "no split before lowercase",
			text: "version 2.0 shipped. it was fine",
			want: []string{"version 2.0 shipped. it was fine"},
		},
		{
			name: "single sentence without terminator",
			text: "No terminator here",
			want: []string{"No terminator here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("splitSentences() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
