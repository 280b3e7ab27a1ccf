// Package parser turns raw article documents into structured articles and
// embeddable content chunks.
package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Chunk splits text into sentence-bounded chunks of at most maxSize
// characters, repeating up to overlap characters of trailing sentences at the
// start of the next chunk. A single oversized sentence still becomes its own
// chunk; no chunk is ever empty. Pure function, deterministic.
func Chunk(text string, maxSize, overlap int) []string {
	text = strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		var current []string
		size := 0

		// Greedily pack sentences starting at i. The first sentence is
		// always taken, even when it alone exceeds maxSize.
		for j := i; j < len(sentences); j++ {
			addition := len(sentences[j])
			if len(current) > 0 {
				addition++ // joining space
			}
			if size+addition > maxSize && len(current) > 0 {
				break
			}
			current = append(current, sentences[j])
			size += addition
		}

		chunks = append(chunks, strings.Join(current, " "))

		if overlap > 0 {
			// Walk backward over the sentences just emitted, keeping as
			// many as fit in the overlap budget.
			overlapSize := 0
			overlapCount := 0
			for k := len(current) - 1; k >= 0; k-- {
				sentenceLen := len(current[k])
				if k < len(current)-1 {
					sentenceLen++
				}
				if overlapSize+sentenceLen > overlap {
					break
				}
				overlapSize += sentenceLen
				overlapCount++
			}

			next := i + len(current) - overlapCount
			if next <= i {
				next = i + 1 // always make progress
			}
			i = next
		} else {
			i += len(current)
		}
	}

	return chunks
}

// splitSentences splits normalized text at terminator+space+uppercase
// boundaries, keeping abbreviations like "Dr." and "U.S." intact.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}

		// Skip the whitespace run; a sentence boundary needs an uppercase
		// letter on the far side.
		next := i + 1
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		if next >= len(runes) || !unicode.IsUpper(runes[next]) {
			continue
		}
		if looksLikeAbbreviation(runes, i) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = next
		i = next - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// looksLikeAbbreviation reports whether the terminator at runes[i] ends an
// initialism ("U.S.", "e.g.") or a title-style abbreviation ("Dr.", "Sr.").
func looksLikeAbbreviation(runes []rune, i int) bool {
	// word, dot, word, terminator: the tail of "U.S." or "e.g."
	if i >= 3 && isWordRune(runes[i-3]) && runes[i-2] == '.' && isWordRune(runes[i-1]) {
		return true
	}
	// uppercase, lowercase, dot: "Dr.", "Mr.", "Sra."
	if i >= 2 && runes[i] == '.' && unicode.IsUpper(runes[i-2]) && unicode.IsLower(runes[i-1]) {
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
