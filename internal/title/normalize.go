package title

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanupPatterns are removed from folder names to get clean game titles.
// Bracketed release-group tags must go before whitespace collapse, otherwise
// collapsing can merge adjacent tags into one token.
var cleanupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[FitGirl.*?\]`),
	regexp.MustCompile(`(?i)\[DODI.*?\]`),
	regexp.MustCompile(`(?i)\[.*?Repack.*?\]`),
	regexp.MustCompile(`(?i)\[.*?Monkey.*?\]`),
	regexp.MustCompile(`(?i)\[BluRay\]`),
	regexp.MustCompile(`(?i)\[720p\]`),
	regexp.MustCompile(`(?i)\[1080p\]`),
	regexp.MustCompile(`(?i)\[YTS.*?\]`),
	regexp.MustCompile(`(?i)\[YIFY\]`),
	regexp.MustCompile(`Portable\s+by\s+\w+`),
	regexp.MustCompile(`by\s+\w+$`),
	regexp.MustCompile(`\s*v\d+(\.\d+)+\w*`),
	regexp.MustCompile(`\s*-\s*(HRTP|EE|NG|MCE|CGC|GOTY)$`),
	regexp.MustCompile(`(?i)\s*-?\s*Complete\s+Edition$`),
	regexp.MustCompile(`\s*NG\s*-\s*HRTP$`),
	regexp.MustCompile(`\s*-\s*Dilogy$`),
	regexp.MustCompile(`\s*\(.*?\)`),
}

var (
	reWhitespace    = regexp.MustCompile(`\s+`)
	reTrailingDash  = regexp.MustCompile(`\s*-\s*$`)
	reDottedVersion = regexp.MustCompile(`(?i)\.v\d+(\.\d+)*`)
)

// Normalize cleans a raw folder name into a candidate search title.
// It is pure, deterministic and total: cleanup rules are applied until the
// result stops changing, and a degenerate input (everything stripped) falls
// back to the trimmed original so no folder silently becomes untitled.
func Normalize(rawFolderName string) string {
	title := norm.NFC.String(rawFolderName)

	// Scene-style folder names use dots or underscores instead of spaces.
	// Only treat dots as separators when the name carries no spaces at all,
	// so titles like "Dirt Rally 2.0" keep their version dot.
	title = strings.ReplaceAll(title, "_", " ")
	if !strings.Contains(title, " ") && strings.Count(title, ".") >= 2 {
		// Drop version tokens while the dots are still unambiguous
		// ("Game.v1.2.3" would otherwise turn into "Game v1 2 3").
		title = reDottedVersion.ReplaceAllString(title, "")
		title = strings.ReplaceAll(title, ".", " ")
	}

	// Apply the cleanup rules to a fixpoint so stripping one trailing tag
	// cannot expose another on a later call (keeps Normalize idempotent).
	for range [5]struct{}{} {
		prev := title
		title = cleanupPass(title)
		if title == prev {
			break
		}
	}

	if title == "" {
		return strings.TrimSpace(rawFolderName)
	}

	return title
}

func cleanupPass(title string) string {
	title = strings.TrimSpace(title)

	for _, re := range cleanupPatterns {
		title = re.ReplaceAllString(title, "")
		title = strings.TrimSpace(title)
	}

	title = reWhitespace.ReplaceAllString(title, " ")
	title = reTrailingDash.ReplaceAllString(title, "")

	return strings.TrimSpace(title)
}
