package stagehand

// Token is a fragment of source text with an associated display color.
type Token struct {
	Text  string
	Color string // hex color like "#61afef", empty for default
}

// Tokenizer splits source code into display tokens for a language.
type Tokenizer interface {
	// Tokenize returns tokens for source in the given language, or nil
	// when the language is unknown.
	Tokenize(language, source string) []Token
}

// LanguageDetector guesses the language of a file from its path.
type LanguageDetector interface {
	// DetectFromPath returns a language name, or "" when unknown.
	DetectFromPath(path string) string
}
