package textchain

import (
	"regexp"
	"strings"
)

// defaultSeparator matches runs of whitespace, including CRLF line breaks.
var defaultSeparator = regexp.MustCompile(`(?:\s|\r?\n)+`)

// TextTool tokenizes and joins text for a TextChain and counts sentences.
// Its behavior can be customized with functional options.
type TextTool struct {
	tokenize       func(text string) []string
	join           func(tokens []string) string
	countSentences func(tokens []string) int
	separatorRegex *regexp.Regexp
	sentenceSuffix string
}

// Option is a function that configures a TextTool.
type Option func(*TextTool)

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(fn func(text string) []string) Option {
	return func(t *TextTool) { t.tokenize = fn }
}

// WithJoiner replaces the default joiner.
func WithJoiner(fn func(tokens []string) string) Option {
	return func(t *TextTool) { t.join = fn }
}

// WithSentenceCounter replaces the default sentence counter. The function
// receives tokens already passed through Tokenize.
func WithSentenceCounter(fn func(tokens []string) int) Option {
	return func(t *TextTool) { t.countSentences = fn }
}

// WithSeparatorRegex sets the pattern the default tokenizer splits on.
// Default: `(?:\s|\r?\n)+`
func WithSeparatorRegex(sepRegex string) Option {
	return func(t *TextTool) {
		t.separatorRegex = regexp.MustCompile(sepRegex)
	}
}

// WithSentenceSuffix sets the suffix that marks a sentence-ending token for
// the default sentence counter.
// Default: "."
func WithSentenceSuffix(suffix string) Option {
	return func(t *TextTool) { t.sentenceSuffix = suffix }
}

// NewTextTool creates a new TextTool with default settings, which can be
// overridden by providing one or more Option functions.
func NewTextTool(opts ...Option) *TextTool {
	t := &TextTool{
		separatorRegex: defaultSeparator,
		sentenceSuffix: ".",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize splits each text into tokens and concatenates the results in
// order.
func (t *TextTool) Tokenize(texts ...string) []string {
	var tokens []string
	for _, text := range texts {
		if t.tokenize != nil {
			tokens = append(tokens, t.tokenize(text)...)
			continue
		}
		tokens = append(tokens, t.split(text)...)
	}
	return tokens
}

// split is the default tokenizer. Leading and trailing whitespace is
// trimmed first so it never yields empty tokens at the edges.
func (t *TextTool) split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return t.separatorRegex.Split(text, -1)
}

// Join turns tokens back into text.
func (t *TextTool) Join(tokens []string) string {
	if t.join != nil {
		return t.join(tokens)
	}
	return strings.Join(tokens, " ")
}

// JoinText joins v if it is a token slice and returns it unchanged if it is
// already text. Other values yield "".
func (t *TextTool) JoinText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return t.Join(val)
	default:
		return ""
	}
}

// CountSentences re-tokenizes tokens and counts the sentences in them. By
// default that is the number of tokens ending with the sentence suffix.
func (t *TextTool) CountSentences(tokens []string) int {
	tokens = t.Tokenize(tokens...)
	if t.countSentences != nil {
		return t.countSentences(tokens)
	}
	var n int
	for _, tok := range tokens {
		if strings.HasSuffix(tok, t.sentenceSuffix) {
			n++
		}
	}
	return n
}
