package title

import "testing"

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		excluded bool
	}{
		{"tv episode", "Show.S01E05.1080p.WEB-DL", true},
		{"bluray tag", "Some Movie [BluRay]", true},
		{"resolution tag", "Another Movie [1080p]", true},
		{"scene movie rip", "Some.Movie.2024.1080p.BluRay", true},
		{"bare resolution", "Film 2160p REMUX", true},
		{"bare rip source", "Old.Film.1993.DVDRip.x264", true},
		{"yts rip", "Film [YTS.MX]", true},
		{"video file", "trailer.mkv", true},
		{"archive", "backup.zip", true},
		{"hidden folder", ".cache", true},
		{"shelf dir", GameShelfDir, true},
		{"reserved name", "game-shelf-app", true},
		{"reserved name case insensitive", "Game-Shelf-App", true},
		{"plain game", "Cyberpunk 2077 [FitGirl Repack]", false},
		{"game with edition", "Age of Empires II - Definitive Edition", false},
		{"game with year", "Doom 2016", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExcluded(tt.input); got != tt.excluded {
				t.Errorf("IsExcluded(%q) = %v, want %v", tt.input, got, tt.excluded)
			}
		})
	}
}
