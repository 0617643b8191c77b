package textutil

import (
	"regexp"
	"strings"
)

// wordPattern matches word tokens including internal apostrophes ("let's").
var wordPattern = regexp.MustCompile(`[a-z0-9]+(?:'[a-z]+)?`)

// Words splits text into lowercase word tokens. Unlike stricter tokenizers it
// keeps one- and two-letter words so callers can count every spoken word.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// WordCount returns the number of spoken words in text.
func WordCount(text string) int {
	return len(Words(text))
}
