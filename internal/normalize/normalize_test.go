package normalize

import (
	"strings"
	"testing"
)

func TestNormalizeBasics(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "GREAT Stuff", "great stuff"},
		{"replaces http urls", "check https://example.com/x now", "check weburl now"},
		{"replaces www urls", "see www.example.com please", "see weburl please"},
		{"leaves stretched words that resemble urls", "awww so cute", "aww so cute"},
		{"folds accents", "El esta FELIZ con su café", "el esta feliz con su cafe"},
		{"folds sharp s", "großartig", "grossartig"},
		{"collapses char runs", "this is cooool", "this is cool"},
		{"collapses longer runs to two", "cuuuuute", "cuute"},
		{"collapses exclamations", "no way!!!!", "no way!"},
		{"collapses questions", "what???", "what?"},
		{"keeps ellipsis at three dots", "hmm.....", "hmm..."},
		{"strips emoji and symbols", "so cool \U0001F60E*%", "so cool"},
		{"keeps hashtag and mention markers", "love #go @dev!", "love #go @dev!"},
		{"drops stray single chars", "a b c i", "a i"},
		{"drops single punctuation tokens", "good . bad", "good bad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeContractions(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"english n't", "I don't like it", "i do not like it"},
		{"english mixed", "It's great, isn't it?", "it is great, is not it?"},
		{"english informal", "gonna love it", "going to love it"},
		{"spanish fusions", "me encanta el regalo del jefe", "me encanta el regalo de el jefe"},
		{"french elisions", "J'adore l'hiver", "je adore le hiver"},
		{"french qu", "qu'elle chance", "que elle chance"},
		{"german fusions", "wir gehen zum Strand", "wir gehen zu dem strand"},
		{"unknown apostrophes drop", "rock'n roll o'clock", "rockn roll oclock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeEmoticons(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"smiley", "nice :)", "nice happy"},
		{"attached smiley", "nice:)", "nice happy"},
		{"heart token", "i like it <3", "i like it love"},
		{"grin", "that movie :D", "that movie thrilled"},
		{"frown and tears", "ugh :( :'(", "ugh sad crying"},
		{"angry face", "grr >:(", "grr angry"},
		{"letters stay words", "an oxide layer", "an oxide layer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"I don't like it!!!",
		"SOOO GOOD :) :) ...",
		"J'adore ça <3",
		"check www.foo.com ....",
		"It's great, isn't it???",
		"großartig, wir gehen zum Strand",
		"#wow @you won't believe this https://t.co/abc",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeEmptyAndInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n", "\U0001F600\U0001F600", "***"} {
		if got := Normalize(in); got != "" {
			t.Errorf("Normalize(%q) = %q, want empty string", in, got)
		}
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("soo good, happy ...")
	want := []string{"soo", "good", "happy"}
	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d (%v)", len(want), len(tokens), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("Expected token %q at %d, got %q", want[i], i, tokens[i])
		}
	}

	tokens = Tokenize("love #go @dev!")
	if len(tokens) != 3 || tokens[1] != "#go" || tokens[2] != "@dev" {
		t.Errorf("Expected markers preserved, got %v", tokens)
	}

	if tokens := Tokenize(""); len(tokens) != 0 {
		t.Errorf("Expected no tokens for empty input, got %v", tokens)
	}
}

func TestNormalizedTextContainsNoUppercase(t *testing.T) {
	out := Normalize("MiXeD CaSe TEXT With URLS HTTPS://X.COM")
	if out != strings.ToLower(out) {
		t.Errorf("Expected all-lowercase output, got %q", out)
	}
}
