package fuzzy

import "testing"

func TestScoreTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		token     string
		candidate string
		want      int
	}{
		{
			name:      "exact match",
			token:     "vscode",
			candidate: "vscode",
			want:      ScoreExact,
		},
		{
			name:      "exact match ignores case",
			token:     "VSCode",
			candidate: "vscode",
			want:      ScoreExact,
		},
		{
			name:      "prefix match",
			token:     "vs",
			candidate: "vscode",
			want:      ScorePrefix,
		},
		{
			name:      "substring match",
			token:     "code",
			candidate: "myvscodeapp",
			want:      ScoreSubstring,
		},
		{
			name:      "empty token never matches",
			token:     "",
			candidate: "vscode",
			want:      0,
		},
		{
			name:      "empty candidate never matches",
			token:     "vs",
			candidate: "",
			want:      0,
		},
		{
			name:      "no subsequence",
			token:     "xz",
			candidate: "vscode",
			want:      0,
		},
		{
			name:      "out of order characters",
			token:     "cv",
			candidate: "vscode",
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.token, tt.candidate); got != tt.want {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.token, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestScoreSubsequenceBand(t *testing.T) {
	t.Parallel()

	// "vc" matches "vscode" as v..c: scattered letters land in the
	// capped subsequence band, below every intentional-match tier.
	got := Score("vc", "vscode")
	if got <= 0 || got > ScoreSubsequenceMax {
		t.Fatalf("Score(vc, vscode) = %d, want in (0,%d]", got, ScoreSubsequenceMax)
	}
}

func TestScoreRange(t *testing.T) {
	t.Parallel()

	tokens := []string{"", "a", "proj", "xyz", "PROJ-A", "dev box"}
	candidates := []string{"", "proj-a", "my-project", "devbox.example.com", "a"}

	for _, token := range tokens {
		for _, candidate := range candidates {
			got := Score(token, candidate)
			if got < 0 || got > 100 {
				t.Errorf("Score(%q, %q) = %d, out of [0,100]", token, candidate, got)
			}
		}
	}
}

func TestScorePrefersTighterCandidates(t *testing.T) {
	t.Parallel()

	// Same scattered match, but the shorter candidate should score
	// at least as high as the longer one.
	short := Score("prj", "proj-a")
	long := Score("prj", "project-alpha-long-title")
	if short < long {
		t.Errorf("short candidate scored %d, long candidate %d; want short >= long", short, long)
	}
}

func TestBestMatchScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tokens     []string
		candidates []string
		want       int
	}{
		{
			name:       "empty token list matches everything",
			tokens:     nil,
			candidates: []string{"anything"},
			want:       100,
		},
		{
			name:       "single token against single candidate",
			tokens:     []string{"proj"},
			candidates: []string{"proj-a"},
			want:       ScorePrefix,
		},
		{
			name:       "one absent token rejects the item",
			tokens:     []string{"ab", "zz"},
			candidates: []string{"abcdef"},
			want:       0,
		},
		{
			name:       "average across tokens",
			tokens:     []string{"proj", "proj-a"},
			candidates: []string{"proj-a"},
			want:       (ScorePrefix + ScoreExact) / 2,
		},
		{
			name:       "token picks its best candidate field",
			tokens:     []string{"ssh"},
			candidates: []string{"buildbox", "SSH: buildbox"},
			want:       ScorePrefix,
		},
		{
			name:       "no candidates rejects non-empty query",
			tokens:     []string{"proj"},
			candidates: nil,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BestMatchScore(tt.tokens, tt.candidates, DefaultMinScore); got != tt.want {
				t.Errorf("BestMatchScore(%v, %v) = %d, want %d", tt.tokens, tt.candidates, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty", query: "", want: nil},
		{name: "whitespace only", query: "   \t ", want: nil},
		{name: "single token", query: "proj", want: []string{"proj"}},
		{name: "multiple tokens", query: "  proj  dev box ", want: []string{"proj", "dev", "box"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Tokenize(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}
