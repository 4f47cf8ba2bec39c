package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control commands.
var ctrlCommands = []string{
	":help", ":marks", ":mark", ":cursor", ":clear", ":quit",
}

// operator is a completion candidate for the operator following a term.
type operator struct {
	token string
	help  string
}

var operators = []operator{
	{"+", "union"},
	{"*", "intersect"},
	{"&", "block"},
	{"^", "offset"},
	{"#", "expand"},
	{"##", "expand both"},
}

// operatorTokens returns the tokens of [operators] in order.
func operatorTokens() []string {
	tokens := make([]string, len(operators))
	for i, op := range operators {
		tokens[i] = op.token
	}

	return tokens
}

// markPrefix introduces a mark reference.
const markPrefix = '\''

// isMarkBoundary reports whether r cannot appear in a mark name.
func isMarkBoundary(r rune) bool {
	switch r {
	case '+', '*', '^', '&', '#', '(', ')':
		return true
	}

	return unicode.IsSpace(r)
}

// endsTerm reports whether r can be the last rune of a complete term, after
// which an operator may follow.
func endsTerm(r rune) bool {
	return strings.ContainsRune("0123456789$.%)/", r)
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. Words are delimited by the characters that cannot appear in
// a mark name. A mark prefix also ends a backward scan, so that "'a'b" at
// the end yields the word "'b".
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isMarkBoundary(r) {
			break
		}

		start -= size

		if r == markPrefix {
			break
		}
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isMarkBoundary(r) || r == markPrefix {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries.
//
//   - Control input completes command names, and mark names as the argument
//     of :mark.
//   - A word beginning with a mark prefix completes mark names.
//   - Otherwise a cursor directly after a complete term lists every operator.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	if strings.HasPrefix(input, ":") {
		return m.ctrlMatches(input, cursor)
	}

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	switch {
	case strings.HasPrefix(word, string(markPrefix)):
		for _, name := range m.snap.MarkNames() {
			candidates = append(candidates, string(markPrefix)+name)
		}

	default:
		if cursor > len(input) {
			cursor = len(input)
		}

		r, _ := utf8.DecodeLastRuneInString(input[:cursor])
		if cursor == 0 || !endsTerm(r) {
			return nil, nil, wordStart, wordEnd
		}

		// Return all operators as unfiltered matches, inserted at the cursor.
		candidates = operatorTokens()
		matches = make(fuzzy.Matches, len(candidates))

		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, cursor, cursor
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// ctrlMatches completes the command name, or a mark name as the first
// argument of :mark.
func (m model) ctrlMatches(input string, cursor int) (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	cmdEnd := strings.IndexFunc(input, unicode.IsSpace)
	if cmdEnd < 0 {
		cmdEnd = len(input)
	}

	if cursor <= cmdEnd {
		return fuzzy.Find(input[:cmdEnd], ctrlCommands), ctrlCommands, 0, cmdEnd
	}

	if input[:cmdEnd] != ":mark" {
		return nil, nil, cursor, cursor
	}

	// The argument spans from the first non-space after the command to the
	// next space.
	wordStart = cmdEnd + len(input[cmdEnd:]) - len(strings.TrimLeftFunc(input[cmdEnd:], unicode.IsSpace))

	wordEnd = len(input)
	if i := strings.IndexFunc(input[wordStart:], unicode.IsSpace); i >= 0 {
		wordEnd = wordStart + i
	}

	if cursor < wordStart || cursor > wordEnd || wordStart == wordEnd {
		return nil, nil, cursor, cursor
	}

	candidates = m.snap.MarkNames()
	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(input[wordStart:wordEnd], candidates), candidates, wordStart, wordEnd
}

// operatorHelp returns the description of an operator token.
func operatorHelp(token string) string {
	for _, op := range operators {
		if op.token == token {
			return op.help
		}
	}

	return ""
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Operators are followed by their description.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	if help := operatorHelp(match.Str); help != "" {
		b.WriteString(hintStyle.Render(" " + help))
	}

	return b.String()
}
