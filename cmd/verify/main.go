// Package main verifies the majors dataset for internal consistency.
// It loads the embedded catalog (or a JSON file given as the first argument)
// and checks the invariants the matching and gap-analysis code relies on.
package main

import (
	"fmt"
	"os"

	"github.com/ready4uni/advisor-go/internal/majors"
	"github.com/ready4uni/advisor-go/internal/subject"
)

type verifyResult struct {
	name    string
	passed  bool
	message string
}

func main() {
	fmt.Println("Majors Dataset Verification")
	fmt.Println("===========================")

	catalog, err := loadCatalog(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL load catalog: %v\n", err)
		os.Exit(1)
	}

	var results []verifyResult
	results = append(results, verifyRequirementSubjects(catalog)...)
	results = append(results, verifyDiscoveryFields(catalog)...)
	results = append(results, verifySimilarity(catalog)...)

	fmt.Println("\nResults:")
	fmt.Println("========")

	passed, failed := 0, 0
	for _, result := range results {
		status := "FAIL"
		if result.passed {
			status = "PASS"
			passed++
		} else {
			failed++
		}
		fmt.Printf("%s %s: %s\n", status, result.name, result.message)
	}

	fmt.Printf("\nSummary: %d passed, %d failed (%d majors)\n", passed, failed, catalog.Len())

	if failed > 0 {
		os.Exit(1)
	}
}

func loadCatalog(args []string) (*majors.Catalog, error) {
	if len(args) == 0 {
		return majors.Default()
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	return majors.New(data)
}

// verifyRequirementSubjects checks that every requirement subject name is a
// canonical name the normalizer maps student grades onto. A requirement that
// normalizes to something else would never match a transcript.
func verifyRequirementSubjects(catalog *majors.Catalog) []verifyResult {
	var results []verifyResult
	for _, major := range catalog.All() {
		ok := true
		detail := "all requirement subjects canonical"
		for subj := range major.Requirements {
			if normalized := subject.Normalize(subj); normalized != subj {
				ok = false
				detail = fmt.Sprintf("requirement %q normalizes to %q", subj, normalized)
				break
			}
		}
		results = append(results, verifyResult{
			name:    "requirements/" + major.ID,
			passed:  ok,
			message: detail,
		})
	}
	return results
}

// verifyDiscoveryFields checks the fields interest matching and suggestion
// payloads depend on.
func verifyDiscoveryFields(catalog *majors.Catalog) []verifyResult {
	var results []verifyResult
	for _, major := range catalog.All() {
		var problems []string
		if len(major.Keywords) == 0 {
			problems = append(problems, "no keywords")
		}
		if len(major.CareerPaths) == 0 {
			problems = append(problems, "no career paths")
		}
		if len(major.Universities) == 0 {
			problems = append(problems, "no universities")
		}

		message := "keywords, career paths and universities present"
		if len(problems) > 0 {
			message = fmt.Sprintf("%v", problems)
		}
		results = append(results, verifyResult{
			name:    "discovery/" + major.ID,
			passed:  len(problems) == 0,
			message: message,
		})
	}
	return results
}

// verifySimilarity checks that the similar-majors lookup works for every
// major and never returns the major itself.
func verifySimilarity(catalog *majors.Catalog) []verifyResult {
	var results []verifyResult
	for _, major := range catalog.All() {
		similar, err := catalog.Similar(major.Name, majors.DefaultTopSimilar)
		switch {
		case err != nil:
			results = append(results, verifyResult{
				name:    "similar/" + major.ID,
				passed:  false,
				message: err.Error(),
			})
			continue
		case containsID(similar, major.ID):
			results = append(results, verifyResult{
				name:    "similar/" + major.ID,
				passed:  false,
				message: "major listed as similar to itself",
			})
			continue
		}
		results = append(results, verifyResult{
			name:    "similar/" + major.ID,
			passed:  true,
			message: fmt.Sprintf("%d similar majors", len(similar)),
		})
	}
	return results
}

func containsID(list []majors.Major, id string) bool {
	for _, m := range list {
		if m.ID == id {
			return true
		}
	}
	return false
}
