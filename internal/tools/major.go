package tools

import (
	"context"
	"fmt"

	"github.com/ready4uni/advisor-go/internal/majors"
)

// defaultSuggestionCount and defaultSearchLimit bound list-shaped results
// when the model omits the optional count arguments.
const (
	defaultSuggestionCount = 5
	defaultSearchLimit     = 10
)

type majorToolset struct {
	catalog *majors.Catalog
}

func (t *majorToolset) getMajorInfo(ctx context.Context, args Args) (map[string]any, error) {
	name, err := args.String("major_name")
	if err != nil {
		return nil, err
	}

	major, err := t.catalog.Resolve(name)
	if err != nil {
		return map[string]any{
			"success":    false,
			"error":      fmt.Sprintf("Major '%s' not found. Try: Computer Science, Engineering, Medicine, Business, or similar common majors.", name),
			"suggestion": "Use get_major_suggestions to find majors based on your interests",
		}, nil
	}

	result := map[string]any{
		"success": true,
		"major":   major,
		"source":  "curated_data",
	}

	if args.OptBool("include_similar") {
		similar, err := t.catalog.Similar(name, majors.DefaultTopSimilar)
		if err == nil {
			related := make([]map[string]any, 0, len(similar))
			for _, m := range similar {
				related = append(related, map[string]any{"name": m.Name, "id": m.ID})
			}
			result["similar_majors"] = related
		}
	}

	return result, nil
}

func (t *majorToolset) getMajorSuggestions(ctx context.Context, args Args) (map[string]any, error) {
	interests := args.OptStringSlice("interests")
	favoriteSubjects := args.OptStringSlice("favorite_subjects")
	careerGoals := args.OptString("career_goals")
	topN := args.OptInt("top_n", defaultSuggestionCount)

	matches := t.catalog.MatchInterests(interests, favoriteSubjects, careerGoals, topN)
	if len(matches) == 0 {
		return map[string]any{
			"success":     false,
			"error":       "No matching majors found. Try broader or different interests.",
			"suggestions": []map[string]any{},
		}, nil
	}

	suggestions := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, map[string]any{
			"name":         m.Major.Name,
			"id":           m.Major.ID,
			"score":        roundScore(m.Score),
			"description":  m.Major.Description,
			"reasons":      m.Reasons,
			"career_paths": m.Major.CareerPaths,
			"requirements": m.Major.Requirements,
			"keywords":     m.MatchingKeywords,
		})
	}

	return map[string]any{
		"success":       true,
		"suggestions":   suggestions,
		"total_matches": len(matches),
	}, nil
}

func (t *majorToolset) searchMajorDatabase(ctx context.Context, args Args) (map[string]any, error) {
	query, err := args.String("query")
	if err != nil {
		return nil, err
	}
	maxResults := args.OptInt("max_results", defaultSearchLimit)

	found := t.catalog.Search(query)
	if maxResults > 0 && len(found) > maxResults {
		found = found[:maxResults]
	}

	results := make([]map[string]any, 0, len(found))
	for _, m := range found {
		keywords := m.Keywords
		if len(keywords) > 5 {
			keywords = keywords[:5]
		}
		results = append(results, map[string]any{
			"name":        m.Name,
			"id":          m.ID,
			"description": truncate(m.Description, 150),
			"keywords":    keywords,
		})
	}

	return map[string]any{
		"success": true,
		"results": results,
		"count":   len(results),
		"query":   query,
	}, nil
}

// roundScore keeps match scores to two decimals so result payloads read
// cleanly in prompts.
func roundScore(score float64) float64 {
	return float64(int(score*100+0.5)) / 100
}
