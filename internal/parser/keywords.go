package parser

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// KeywordExtractor extracts keywords from text using TF-IDF
type KeywordExtractor struct {
	stopWords map[string]bool
	minLength int
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		stopWords: defaultStopWords(),
		minLength: 3,
	}
}

// Keyword represents a keyword with its TF-IDF score
type Keyword struct {
	Word  string
	Score float64
}

// ExtractKeywords extracts top-k keywords from texts using TF-IDF
func (ke *KeywordExtractor) ExtractKeywords(texts []string, topK int) []Keyword {
	if len(texts) == 0 {
		return []Keyword{}
	}

	docs := make([][]string, len(texts))
	for i, text := range texts {
		docs[i] = ke.Tokenize(text)
	}

	tfidf := ke.computeTFIDF(docs)

	keywords := make([]Keyword, 0, len(tfidf))
	for word, score := range tfidf {
		keywords = append(keywords, Keyword{Word: word, Score: score})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Word < keywords[j].Word
	})

	if topK > 0 && topK < len(keywords) {
		keywords = keywords[:topK]
	}

	return keywords
}

// Tokenize lowercases text and returns its content words, dropping stop
// words and words shorter than the minimum length.
func (ke *KeywordExtractor) Tokenize(text string) []string {
	text = strings.ToLower(text)

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	result := make([]string, 0)
	for _, word := range words {
		if len(word) >= ke.minLength && !ke.stopWords[word] {
			result = append(result, word)
		}
	}

	return result
}

func (ke *KeywordExtractor) computeTFIDF(docs [][]string) map[string]float64 {
	n := len(docs)
	if n == 0 {
		return nil
	}

	// Document frequency for each term
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, word := range doc {
			if !seen[word] {
				df[word]++
				seen[word] = true
			}
		}
	}

	tfidf := make(map[string]float64)
	for _, doc := range docs {
		tf := make(map[string]int)
		for _, word := range doc {
			tf[word]++
		}

		docLen := len(doc)
		if docLen == 0 {
			continue
		}

		for word, count := range tf {
			termFreq := float64(count) / float64(docLen)
			idf := math.Log(float64(n) / float64(df[word]))
			tfidf[word] += termFreq * idf
		}
	}

	for word := range tfidf {
		tfidf[word] /= float64(n)
	}

	return tfidf
}

func defaultStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "he", "in", "is", "it", "its", "of", "on", "or",
		"she", "that", "the", "they", "this", "to", "was", "were", "will",
		"with", "you", "your", "we", "our", "their", "them", "there", "these",
		"those", "been", "being", "had", "having", "do", "does", "did", "doing",
		"would", "could", "should", "may", "might", "must", "can", "cannot",
		"about", "above", "after", "again", "against", "all", "am", "any",
		"because", "before", "below", "between", "both", "but", "during",
		"each", "few", "further", "here", "how", "if", "into", "just", "more",
		"most", "no", "nor", "not", "now", "only", "other", "out", "own",
		"same", "so", "some", "such", "than", "then", "through", "too", "under",
		"until", "up", "very", "what", "when", "where", "which", "while", "who",
		"whom", "why", "also", "however", "therefore", "thus", "hence", "yet",
	}

	result := make(map[string]bool)
	for _, w := range words {
		result[w] = true
	}
	return result
}
