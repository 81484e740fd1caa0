package title

import (
	"regexp"
	"strings"
)

// GameShelfDir is the hidden working directory kept inside each game folder
// (sidecar metadata, cached artwork).
const GameShelfDir = ".gameshelf"

// reservedNames are folder names the scanner must never treat as games
// (the application's own working directories).
var reservedNames = map[string]bool{
	"game-shelf-app": true,
	"lost+found":     true,
}

// exclusionPatterns flag folders that hold non-game content (movies, TV
// rips, loose video files). They are matched against the raw folder name
// before any cleanup.
// The markers appear bare in scene-style dotted names
// (Some.Movie.2024.1080p.BluRay) as well as bracketed, so none of the
// patterns require brackets.
var exclusionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(720p|1080p|2160p)\b`),
	regexp.MustCompile(`(?i)\b4K\b`),
	regexp.MustCompile(`(?i)\bBluRay\b`),
	regexp.MustCompile(`(?i)\b(HDRip|BRRip|DVDRip|WEBRip)\b`),
	regexp.MustCompile(`(?i)WEB-?DL`),
	regexp.MustCompile(`(?i)\b(YTS|YIFY|RARBG)\b`),
	regexp.MustCompile(`(?i)\.(mkv|avi|mp4)$`),
	regexp.MustCompile(`(?i)\.(rar|zip)$`),
	regexp.MustCompile(`(?i)\bS\d{2}E\d{2}\b`), // TV episode pattern like S01E05
}

// IsExcluded reports whether a folder represents non-game content and must
// be skipped entirely: no library entry is created for it.
func IsExcluded(folderName string) bool {
	if strings.HasPrefix(folderName, ".") {
		return true
	}
	if reservedNames[strings.ToLower(folderName)] {
		return true
	}

	for _, re := range exclusionPatterns {
		if re.MatchString(folderName) {
			return true
		}
	}

	return false
}
