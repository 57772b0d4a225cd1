// Package subject normalizes localized subject names so transcripts written
// in Portuguese can be matched against the English-keyed requirements table.
package subject

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameMap maps Portuguese subject names to canonical English names.
// Keys are stored lower-cased; accent-folded variants are added at init so
// "Matemática A" and "Matematica A" both resolve.
var nameMap = map[string]string{
	// Mathematics variants
	"matematica":   "math",
	"matemática":   "math",
	"matemática a": "math",
	"matematica a": "math",
	"mat a":        "math",

	// Physics variants
	"fisica":              "physics",
	"física":              "physics",
	"fisica e quimica":    "physics",
	"física e química":    "physics",
	"física e química a":  "physics",
	"fisica e quimica a":  "physics",
	"fis quim a":          "physics",

	// Portuguese language
	"portugues": "portuguese",
	"português": "portuguese",
	"port":      "portuguese",

	// English language
	"ingles": "english",
	"inglês": "english",
	"ing":    "english",

	// Biology/Geology
	"biologia":            "biology",
	"geologia":            "geology",
	"biologia e geologia": "biology",
	"bio geo":             "biology",

	// History
	"historia":   "history",
	"história":   "history",
	"história a": "history",
	"historia a": "history",

	// Geography
	"geografia":   "geography",
	"geografia a": "geography",

	// Philosophy
	"filosofia": "philosophy",
	"filos":     "philosophy",

	// Economics
	"economia":   "economics",
	"economia a": "economics",

	// Chemistry (standalone)
	"quimica": "chemistry",
	"química": "chemistry",
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func init() {
	// Add accent-folded aliases so lookups succeed regardless of how the
	// transcript spells the accents.
	for key, canonical := range nameMap {
		if folded := foldAccents(key); folded != key {
			if _, exists := nameMap[folded]; !exists {
				nameMap[folded] = canonical
			}
		}
	}
}

func foldAccents(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize maps a localized subject name to its canonical English name.
// Unmapped names are returned exactly as given, not lower-cased.
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := nameMap[key]; ok {
		return canonical
	}
	if canonical, ok := nameMap[foldAccents(key)]; ok {
		return canonical
	}
	return name
}

// NormalizeGrades returns a copy of grades with canonical subject names added
// alongside the originals, so both forms can be looked up afterwards.
func NormalizeGrades(grades map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(grades)*2)
	for name, grade := range grades {
		normalized[name] = grade
		if canonical := Normalize(name); canonical != name {
			normalized[canonical] = grade
		}
	}
	return normalized
}

// FindMatchingGrade resolves a required subject against student grades.
// It first compares normalized forms of the target and every grade key
// (keys visited in sorted order for determinism), then falls back to an
// exact key lookup. The second return is false when no match exists.
func FindMatchingGrade(grades map[string]float64, targetSubject string) (float64, bool) {
	targetNorm := Normalize(strings.ToLower(targetSubject))

	keys := make([]string, 0, len(grades))
	for name := range grades {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	for _, name := range keys {
		if Normalize(strings.ToLower(name)) == targetNorm {
			return grades[name], true
		}
	}

	if grade, ok := grades[targetSubject]; ok {
		return grade, true
	}
	return 0, false
}
