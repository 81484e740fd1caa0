// Package similarity provides the string similarity score used to rank
// catalog search candidates against normalized folder titles.
package similarity

import "strings"

const (
	// winklerPrefixMax caps the common-prefix length rewarded by the
	// Winkler boost
	winklerPrefixMax = 4

	// winklerScaling is the standard Winkler prefix scaling factor
	winklerScaling = 0.1
)

// Score returns the case-insensitive Jaro-Winkler similarity of two title
// strings, in [0,1]. Both empty strings score 1.0; one empty string scores
// 0.0. The function is pure and symmetric: the Jaro core treats its inputs
// interchangeably and the prefix boost depends only on the shared prefix.
func Score(a, b string) float64 {
	return jaroWinkler(strings.ToLower(a), strings.ToLower(b))
}

func jaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)

	jaro := jaroSimilarity(ra, rb)
	if jaro == 0 {
		return 0
	}

	prefixLen := 0
	for i := 0; i < len(ra) && i < len(rb) && i < winklerPrefixMax; i++ {
		if ra[i] != rb[i] {
			break
		}
		prefixLen++
	}

	return jaro + float64(prefixLen)*winklerScaling*(1.0-jaro)
}

func jaroSimilarity(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Characters match when equal and no further apart than half the
	// longer string
	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	for i := range a {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := range a {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}
