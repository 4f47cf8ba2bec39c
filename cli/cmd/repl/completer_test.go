package repl

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"mark", "'ab", 3, "'ab", 0, 3},
		{"mark_after_union", "1+'a", 4, "'a", 2, 4},
		{"adjacent_marks", "'a'b", 4, "'b", 2, 4},
		{"mark_mid_word", "'abc", 2, "'abc", 0, 4},
		{"after_operator", "1+", 2, "", 2, 2},
		{"after_paren", "(1)", 3, "", 3, 3},
		{"number", "12", 2, "12", 0, 2},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		{"at_start", "'x", 0, "", 0, 0},
		{"empty", "", 0, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func matchStrings(matches fuzzy.Matches) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      []string
		wantStart int
		wantEnd   int
	}{
		{"mark_prefix", "'t", []string{"'tail", "'top"}, 0, 2},
		{"mark_fuzzy", "1+'tl", []string{"'tail"}, 2, 5},
		{"mark_unknown", "'zz", nil, 0, 3},
		{"operators_after_number", "12", operatorTokens(), 2, 2},
		{"operators_after_group", "(1)", operatorTokens(), 3, 3},
		{"operators_after_search", "/a/", operatorTokens(), 3, 3},
		{"none_after_operator", "1+", nil, 2, 2},
		{"none_on_empty", "", nil, 0, 0},
		{"command", ":cu", []string{":cursor"}, 0, 3},
		{"mark_argument", ":mark to", []string{"top"}, 6, 8},
		{"cursor_argument", ":cursor 1", nil, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := withInput(testModel(t), tt.input)

			matches, _, start, end := m.computeMatches()

			got := matchStrings(matches)
			if tt.want == nil {
				if len(got) != 0 {
					t.Errorf("matches = %v, want none", got)
				}
			} else {
				slices.Sort(got)

				want := slices.Sorted(slices.Values(tt.want))
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("matches mismatch (-want +got):\n%s", diff)
				}
			}

			if len(got) > 0 && (start != tt.wantStart || end != tt.wantEnd) {
				t.Errorf("bounds = (%d, %d), want (%d, %d)",
					start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestOperatorHelp(t *testing.T) {
	tests := map[string]string{
		"&":  "block",
		"#":  "expand",
		"##": "expand both",
		"^":  "offset",
		"x":  "",
	}

	for token, want := range tests {
		if got := operatorHelp(token); got != want {
			t.Errorf("operatorHelp(%q) = %q, want %q", token, got, want)
		}
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Matches{
		{Str: "'alpha"}, {Str: "'beta"}, {Str: "'gamma"}, {Str: "'delta"},
	}

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("empty matches rendered %q", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0); got != "" {
		t.Errorf("zero width rendered %q", got)
	}

	wide := renderCandidateBar(matches, 1, true, 200)
	for _, m := range matches {
		if !containsPlain(wide, m.Str) {
			t.Errorf("wide bar missing %q: %q", m.Str, wide)
		}
	}

	narrow := renderCandidateBar(matches, 1, true, 16)
	if !containsPlain(narrow, "...") || containsPlain(narrow, "'delta") {
		t.Errorf("narrow bar not ellipsized: %q", narrow)
	}
}
