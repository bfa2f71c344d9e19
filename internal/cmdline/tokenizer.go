// SPDX-License-Identifier: MPL-2.0

package cmdline

import "strings"

type (
	// Token is one lexed word with its raw byte span in the input line.
	Token struct {
		// Value is the token text with quotes stripped and escapes applied.
		Value string
		// RawStart and RawEnd delimit the token's raw text in the input,
		// including any quote and escape characters.
		RawStart int
		RawEnd   int
		// QuoteChar is the delimiter that opened the token's first quoted
		// span, 0 when the token had none.
		QuoteChar rune
		// HadQuotes reports whether any part of the token was quoted.
		HadQuotes bool
	}

	// ScanResult is the full output of Tokenize.
	ScanResult struct {
		Tokens []Token
		// EndsWithSpace is true when the line ends with unescaped
		// whitespace outside quotes, i.e. the cursor sits on a fresh word.
		EndsWithSpace bool
		// UnterminatedQuote is true when input ended inside an open quoted
		// span. Non-fatal: the span's content is part of the last token.
		UnterminatedQuote bool
	}
)

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// Tokenize splits line into tokens. Single and double quotes delimit
// literal spans (a span opened with one quote kind only closes on the same
// kind); a backslash escapes the following character in all contexts; a
// trailing backslash is a literal backslash.
func Tokenize(line string) ScanResult {
	var res ScanResult
	var value strings.Builder

	started := false
	start := 0
	var active rune    // currently open quote, 0 outside quotes
	var firstQuote rune
	hadQuotes := false
	escaped := false
	lastWasSeparator := false

	begin := func(i int) {
		if !started {
			started = true
			start = i
		}
	}
	flush := func(end int) {
		if !started {
			return
		}
		res.Tokens = append(res.Tokens, Token{
			Value:     value.String(),
			RawStart:  start,
			RawEnd:    end,
			QuoteChar: firstQuote,
			HadQuotes: hadQuotes,
		})
		value.Reset()
		started = false
		firstQuote = 0
		hadQuotes = false
	}

	for i, r := range line {
		if escaped {
			begin(i)
			value.WriteRune(r)
			escaped = false
			lastWasSeparator = false
			continue
		}
		switch {
		case r == '\\':
			begin(i)
			escaped = true
			lastWasSeparator = false
		case active != 0:
			if r == active {
				active = 0
			} else {
				value.WriteRune(r)
			}
			lastWasSeparator = false
		case r == '\'' || r == '"':
			begin(i)
			active = r
			hadQuotes = true
			if firstQuote == 0 {
				firstQuote = r
			}
			lastWasSeparator = false
		case isSpace(r):
			flush(i)
			lastWasSeparator = true
		default:
			begin(i)
			value.WriteRune(r)
			lastWasSeparator = false
		}
	}

	if escaped {
		// Trailing backslash is a literal backslash, not an error.
		value.WriteByte('\\')
	}
	if active != 0 {
		res.UnterminatedQuote = true
	}
	flush(len(line))
	res.EndsWithSpace = lastWasSeparator
	return res
}

// ParseCommandLine reduces Tokenize to a command name and its arguments.
// A blank line yields an empty command.
func ParseCommandLine(line string) (command string, args []string) {
	scan := Tokenize(line)
	if len(scan.Tokens) == 0 {
		return "", nil
	}
	command = scan.Tokens[0].Value
	for _, tok := range scan.Tokens[1:] {
		args = append(args, tok.Value)
	}
	return command, args
}

// QuoteArgIfNeeded re-quotes value for round-trip display. Values without
// whitespace, quotes, or backslashes pass through unchanged. Otherwise the
// value is wrapped in preferred's quote style (double quotes when preferred
// is not a quote character), escaping only backslashes and the active quote.
func QuoteArgIfNeeded(value string, preferred rune) string {
	if !strings.ContainsAny(value, " \t\r\n'\"\\") {
		return value
	}
	q := preferred
	if q != '\'' && q != '"' {
		q = '"'
	}
	var b strings.Builder
	b.WriteRune(q)
	for _, r := range value {
		if r == '\\' || r == q {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteRune(q)
	return b.String()
}
