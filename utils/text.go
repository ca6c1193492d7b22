package utils

import (
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// NormalizeInput lowercases s and transliterates accents ("Citroën" -> "citroen").
func NormalizeInput(input string) string {
	input = strings.TrimSpace(input)
	return strings.ToLower(unidecode.Unidecode(input))
}

// Similarity returns 1 - levenshtein(a, b)/max(len(a), len(b)).
func Similarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len([]rune(a)))
	if l := float64(len([]rune(b))); l > maxLen {
		maxLen = l
	}

	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}

// BestWordSimilarity compares query with every word of text and keeps the best score.
func BestWordSimilarity(query, text string) float64 {
	best := Similarity(query, text)
	for _, word := range strings.Fields(text) {
		if s := Similarity(query, word); s > best {
			best = s
		}
	}
	return best
}
