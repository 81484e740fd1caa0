package similarity

import "testing"

func TestScoreBounds(t *testing.T) {
	pairs := [][2]string{
		{"cyberpunk 2077", "Cyberpunk 2077"},
		{"elden ring", "golden rings"},
		{"a", "z"},
		{"the witcher 3", "witcher 3"},
		{"doom", "doom eternal"},
		{"x", "completely different"},
	}

	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Score(%q, %q) = %f, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestScoreIdentity(t *testing.T) {
	for _, s := range []string{"Cyberpunk 2077", "a", "Hades II", "DOOM"} {
		if got := Score(s, s); got != 1.0 {
			t.Errorf("Score(%q, %q) = %f, want 1.0", s, s, got)
		}
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	if got := Score("ELDEN RING", "elden ring"); got != 1.0 {
		t.Errorf("expected case-insensitive identity, got %f", got)
	}
}

func TestScoreEmptyStrings(t *testing.T) {
	if got := Score("", ""); got != 1.0 {
		t.Errorf("Score of two empty strings = %f, want 1.0", got)
	}
	if got := Score("doom", ""); got != 0.0 {
		t.Errorf("Score against empty string = %f, want 0.0", got)
	}
	if got := Score("", "doom"); got != 0.0 {
		t.Errorf("Score against empty string = %f, want 0.0", got)
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"cyberpunk 2077", "cyberpunk 2078"},
		{"elden ring", "elden ring nightreign"},
		{"frostpunk", "frostpunk 2"},
		{"abcdef", "fedcba"},
	}

	for _, p := range pairs {
		ab := Score(p[0], p[1])
		ba := Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score not symmetric for (%q, %q): %f vs %f", p[0], p[1], ab, ba)
		}
	}
}

func TestScorePrefixBoost(t *testing.T) {
	// Winkler rewards shared prefixes: a mismatch at the tail should score
	// higher than the same mismatch at the head
	tail := Score("cyberpunk", "cyberpunt")
	head := Score("cyberpunk", "ryberpunk")
	if tail <= head {
		t.Errorf("expected prefix boost: tail-mismatch %f <= head-mismatch %f", tail, head)
	}
}

func TestScoreCloseTitles(t *testing.T) {
	// Near-identical titles must clear the auto-match threshold
	if got := Score("Cyberpunk 2077", "cyberpunk 2077"); got < 0.85 {
		t.Errorf("identical title scored %f, want >= 0.85", got)
	}
	// Unrelated titles must fall below the minimum search threshold
	if got := Score("Stardew Valley", "Quake Champions"); got >= 0.60 {
		t.Errorf("unrelated titles scored %f, want < 0.60", got)
	}
}
