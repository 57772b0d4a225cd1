package majors

import (
	"sort"
	"strings"

	"github.com/ready4uni/advisor-go/internal/subject"
)

// DefaultTopMatches is how many matches MatchInterests returns when the
// caller does not say otherwise.
const DefaultTopMatches = 5

// DefaultTopSimilar is the default result count for Similar.
const DefaultTopSimilar = 3

// Match is one scored major recommendation.
// Score is a weighted sum and can slightly exceed 1.0 when the description
// bonus stacks on a full keyword match.
type Match struct {
	Major            Major    `json:"major"`
	Score            float64  `json:"score"`
	Reasons          []string `json:"reasons"`
	MatchingKeywords []string `json:"matching_keywords"`
}

// MatchInterests scores every major against the student's interests,
// favorite subjects and career goals, and returns the topN positive-score
// matches ordered by score (ties keep dataset order).
//
// Weights: interests 0.4, subjects 0.3, career goals flat 0.3, plus a
// description bonus of up to 0.1.
func (c *Catalog) MatchInterests(interests, favoriteSubjects []string, careerGoals string, topN int) []Match {
	if topN <= 0 {
		topN = DefaultTopMatches
	}

	interestsLower := lowerAll(interests)
	subjectsLower := lowerAll(favoriteSubjects)
	careerLower := strings.ToLower(careerGoals)

	var matches []Match
	for _, m := range c.majors {
		score := 0.0
		var reasons []string
		matched := make(map[string]struct{})

		keywords := lowerAll(m.Keywords)

		// Interest matching (40% weight)
		interestHits := intersect(interestsLower, keywords)
		if len(interestHits) > 0 {
			score += 0.4 * float64(len(interestHits)) / float64(max(len(interestsLower), 1))
			reasons = append(reasons, "Matches your interests: "+strings.Join(interestHits, ", "))
			for _, hit := range interestHits {
				matched[hit] = struct{}{}
			}
		}

		// Subject matching (30% weight). Favorite subjects count both as
		// given and in canonical form, so Portuguese names can hit English
		// requirement keys.
		if len(favoriteSubjects) > 0 {
			mapped := make([]string, 0, len(subjectsLower)*2)
			for _, s := range subjectsLower {
				mapped = append(mapped, s)
				if canonical := subject.Normalize(s); canonical != s {
					mapped = append(mapped, strings.ToLower(canonical))
				}
			}
			reqKeys := make([]string, 0, len(m.Requirements))
			for key := range m.Requirements {
				reqKeys = append(reqKeys, strings.ToLower(key))
			}
			subjectHits := intersect(mapped, reqKeys)
			if len(subjectHits) > 0 {
				score += 0.3 * float64(len(subjectHits)) / float64(len(m.Requirements))
				reasons = append(reasons, "Aligns with your strong subjects: "+strings.Join(subjectHits, ", "))
				for _, hit := range subjectHits {
					matched[hit] = struct{}{}
				}
			}
		}

		// Career goal matching (30% weight), bidirectional substring test.
		if careerGoals != "" {
			for _, path := range m.CareerPaths {
				pathLower := strings.ToLower(path)
				if strings.Contains(pathLower, careerLower) || strings.Contains(careerLower, pathLower) {
					score += 0.3
					reasons = append(reasons, "Matches your career goals")
					break
				}
			}
		}

		// Description bonus: interests literally appearing in the text.
		if len(interestsLower) > 0 {
			descLower := strings.ToLower(m.Description)
			descHits := 0
			for _, interest := range interestsLower {
				if strings.Contains(descLower, interest) {
					descHits++
				}
			}
			if descHits > 0 {
				score += 0.1 * min(float64(descHits)/float64(len(interestsLower)), 1.0)
			}
		}

		if score > 0 {
			if len(reasons) == 0 {
				reasons = []string{"General interest alignment"}
			}
			matches = append(matches, Match{
				Major:            m.clone(),
				Score:            score,
				Reasons:          reasons,
				MatchingKeywords: sortedKeys(matched),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// Search returns majors whose name, keywords or description match the query,
// case-insensitive. Keywords match in both directions. A major is returned
// at most once.
func (c *Catalog) Search(query string) []Major {
	queryLower := strings.ToLower(query)
	var results []Major

	for _, m := range c.majors {
		if strings.Contains(strings.ToLower(m.Name), queryLower) {
			results = append(results, m.clone())
			continue
		}
		keywordHit := false
		for _, kw := range m.Keywords {
			kwLower := strings.ToLower(kw)
			if strings.Contains(kwLower, queryLower) || strings.Contains(queryLower, kwLower) {
				keywordHit = true
				break
			}
		}
		if keywordHit {
			results = append(results, m.clone())
			continue
		}
		if strings.Contains(strings.ToLower(m.Description), queryLower) {
			results = append(results, m.clone())
		}
	}
	return results
}

// Similar finds majors with overlapping keyword sets, ranked by Jaccard
// similarity against the resolved reference major. The reference itself is
// excluded and only positive overlaps are returned.
func (c *Catalog) Similar(majorName string, topN int) ([]Major, error) {
	if topN <= 0 {
		topN = DefaultTopSimilar
	}

	reference, err := c.Resolve(majorName)
	if err != nil {
		return nil, err
	}

	refSet := keywordSet(reference.Keywords)

	type scored struct {
		major      Major
		similarity float64
	}
	var ranked []scored

	for _, m := range c.majors {
		if m.ID == reference.ID {
			continue
		}
		otherSet := keywordSet(m.Keywords)
		overlap := 0
		for kw := range refSet {
			if _, ok := otherSet[kw]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		union := len(refSet) + len(otherSet) - overlap
		ranked = append(ranked, scored{major: m.clone(), similarity: float64(overlap) / float64(union)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].similarity > ranked[j].similarity
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]Major, len(ranked))
	for i, s := range ranked {
		out[i] = s.major
	}
	return out, nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// intersect returns the unique members of a that also occur in b,
// in a's order.
func intersect(a, b []string) []string {
	bSet := make(map[string]struct{}, len(b))
	for _, v := range b {
		bSet[v] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	var out []string
	for _, v := range a {
		if _, inB := bSet[v]; !inB {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
