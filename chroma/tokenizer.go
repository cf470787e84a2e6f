// Package chroma provides syntax tokenization using the chroma library.
package chroma

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/hunklab/stagehand"
)

// Compile-time interface verification.
var (
	_ stagehand.Tokenizer        = (*Tokenizer)(nil)
	_ stagehand.LanguageDetector = (*Tokenizer)(nil)
)

// Tokenizer extracts syntax tokens using chroma.
type Tokenizer struct{}

// NewTokenizer creates a new chroma-based tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// DetectFromPath returns the name of the chroma lexer matching the file
// path, or "" when no lexer matches.
func (t *Tokenizer) DetectFromPath(path string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// Tokenize splits source code into colored tokens for the given language.
// Returns nil if the language is not supported or an error occurs.
// Returns an empty slice for empty source (valid input, no tokens).
func (t *Tokenizer) Tokenize(language, source string) []stagehand.Token {
	if source == "" {
		return []stagehand.Token{}
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}

	// Coalesce for better performance with consecutive tokens of the same type
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}

	var tokens []stagehand.Token
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokens = append(tokens, stagehand.Token{
			Text:  token.Value,
			Color: tokenColor(token.Type),
		})
	}

	return tokens
}

// tokenColor returns the display color for a chroma token type.
// Colors are loosely based on the One Dark theme.
func tokenColor(tt chroma.TokenType) string {
	// Specific types first, then broader category matches.
	switch tt {
	case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
		return "#e5c07b"
	case chroma.NameFunction, chroma.NameFunctionMagic:
		return "#61afef"
	}

	switch tt.Category() {
	case chroma.Keyword:
		return "#c678dd"
	case chroma.Comment:
		return "#5c6370"
	case chroma.LiteralString:
		return "#98c379"
	case chroma.LiteralNumber:
		return "#d19a66"
	case chroma.Operator:
		return "#56b6c2"
	case chroma.Name:
		return "#e06c75"
	default:
		return ""
	}
}
