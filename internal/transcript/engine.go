// Package transcript implements the grade analysis engine: GPA and
// strength/weakness summaries, and per-subject gap analysis against a
// major's admission requirements.
package transcript

import (
	"fmt"
	"math"
	"sort"

	"github.com/ready4uni/advisor-go/internal/errors"
	"github.com/ready4uni/advisor-go/internal/majors"
	"github.com/ready4uni/advisor-go/internal/subject"
)

// PassingGrade is the minimum passing grade on the Portuguese 0-20 scale.
// It is also the conservative substitute when a required subject is missing
// from the transcript.
const PassingGrade = 10.0

// strongGrade is the threshold for counting a subject as a strength.
const strongGrade = 14.0

// Severity labels for a grade gap.
const (
	SeverityMeets       = "meets"
	SeverityClose       = "close"
	SeveritySignificant = "significant"
)

// Readiness labels summarizing a gap profile.
const (
	ReadinessReady            = "ready"
	ReadinessMostlyReady      = "mostly_ready"
	ReadinessSignificantGaps  = "significant_gaps"
	ReadinessNeedsImprovement = "needs_improvement"
)

// Overall quality labels for a transcript.
const (
	QualityExcellent        = "excellent"
	QualityGood             = "good"
	QualityAdequate         = "adequate"
	QualityNeedsImprovement = "needs_improvement"
)

// Analysis is the full summary of one transcript.
type Analysis struct {
	Grades         map[string]float64 `json:"grades"`
	GPA            float64            `json:"gpa"`
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
	PassingAll     bool               `json:"passing_all"`
	OverallQuality string             `json:"overall_quality"`
}

// GradeGap compares one required subject against the student's grade.
// Gap is required minus student; negative means the requirement is exceeded.
type GradeGap struct {
	Subject       string  `json:"subject"`
	StudentGrade  float64 `json:"student_grade"`
	RequiredGrade float64 `json:"required_grade"`
	Gap           float64 `json:"gap"`
	Severity      string  `json:"severity"`
	Priority      int     `json:"priority"`
}

// IsGap reports whether the student is actually below the requirement.
func (g GradeGap) IsGap() bool {
	return g.Gap > 0
}

// GapDetail is one entry of a GapSummary.
type GapDetail struct {
	Subject  string  `json:"subject"`
	Current  float64 `json:"current"`
	Required float64 `json:"required"`
	Gap      float64 `json:"gap"`
	Severity string  `json:"severity"`
}

// StrengthDetail is a requirement the student already meets.
type StrengthDetail struct {
	Subject  string  `json:"subject"`
	Grade    float64 `json:"grade"`
	Required float64 `json:"required"`
	Excess   float64 `json:"excess"`
}

// GapSummary is the structured result of IdentifyGaps.
type GapSummary struct {
	Readiness        string           `json:"readiness"`
	TotalGaps        int              `json:"total_gaps"`
	Gaps             []GapDetail      `json:"gaps"`
	Strengths        []StrengthDetail `json:"strengths"`
	PrioritySubjects []string         `json:"priority_subjects"`
}

// Engine runs grade analysis against a majors catalog.
type Engine struct {
	catalog *majors.Catalog
}

// NewEngine creates a grade analysis engine.
func NewEngine(catalog *majors.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Analyze computes GPA, strengths, weaknesses and an overall quality label
// for a set of grades. Fails with ErrInvalidInput when grades are empty or
// any grade is outside [0,20].
func (e *Engine) Analyze(grades map[string]float64) (*Analysis, error) {
	if len(grades) == 0 {
		return nil, fmt.Errorf("no grades provided for analysis: %w", errors.ErrInvalidInput)
	}
	for subj, grade := range grades {
		if math.IsNaN(grade) || grade < 0 || grade > 20 {
			return nil, fmt.Errorf("invalid grade for %s: %.1f (must be 0-20): %w", subj, grade, errors.ErrInvalidInput)
		}
	}

	total := 0.0
	for _, grade := range grades {
		total += grade
	}
	gpa := total / float64(len(grades))

	bySubject := sortedByGradeDesc(grades)

	// Strengths: up to 3 of the highest-graded subjects, at 14 or above.
	strengths := []string{}
	for _, entry := range bySubject[:min(3, len(bySubject))] {
		if entry.grade >= strongGrade {
			strengths = append(strengths, entry.subject)
		}
	}

	// Weaknesses: up to 3 of the lowest-graded subjects, below 14.
	weaknesses := []string{}
	for _, entry := range bySubject[max(0, len(bySubject)-3):] {
		if entry.grade < strongGrade {
			weaknesses = append(weaknesses, entry.subject)
		}
	}

	passingAll := true
	for _, grade := range grades {
		if grade < PassingGrade {
			passingAll = false
			break
		}
	}

	var quality string
	switch {
	case gpa >= 17:
		quality = QualityExcellent
	case gpa >= 15:
		quality = QualityGood
	case gpa >= 12:
		quality = QualityAdequate
	default:
		quality = QualityNeedsImprovement
	}

	copied := make(map[string]float64, len(grades))
	for k, v := range grades {
		copied[k] = v
	}

	return &Analysis{
		Grades:         copied,
		GPA:            gpa,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		PassingAll:     passingAll,
		OverallQuality: quality,
	}, nil
}

// CompareToRequirements builds one GradeGap per required subject of the
// major and derives an overall readiness label. Student grades are resolved
// through normalized subject matching; a missing subject counts as the
// passing grade, not an error.
func (e *Engine) CompareToRequirements(studentGrades map[string]float64, majorName string) ([]GradeGap, string, error) {
	major, err := e.catalog.Resolve(majorName)
	if err != nil {
		return nil, "", err
	}
	if len(major.Requirements) == 0 {
		return nil, "", fmt.Errorf("major %q: %w", majorName, errors.ErrNoRequirements)
	}

	// Requirement subjects visited in sorted order so results are
	// deterministic across runs.
	required := make([]string, 0, len(major.Requirements))
	for subj := range major.Requirements {
		required = append(required, subj)
	}
	sort.Strings(required)

	gaps := make([]GradeGap, 0, len(required))
	for _, subj := range required {
		requiredGrade := major.Requirements[subj]

		studentGrade, found := subject.FindMatchingGrade(studentGrades, subj)
		if !found {
			studentGrade = PassingGrade
		}

		gapValue := requiredGrade - studentGrade

		var severity string
		switch {
		case gapValue <= 0:
			severity = SeverityMeets
		case gapValue <= 2:
			severity = SeverityClose
		default:
			severity = SeveritySignificant
		}

		var priority int
		switch {
		case gapValue > 4:
			priority = 1 // Critical
		case gapValue > 2:
			priority = 2 // High
		case gapValue > 0:
			priority = 3 // Medium
		default:
			priority = 4 // Already meets
		}

		gaps = append(gaps, GradeGap{
			Subject:       subj,
			StudentGrade:  studentGrade,
			RequiredGrade: requiredGrade,
			Gap:           gapValue,
			Severity:      severity,
			Priority:      priority,
		})
	}

	return gaps, readiness(gaps), nil
}

// readiness folds the gap list into one label. A single significant gap (or
// a significant/close mix below two significants) lands on
// needs_improvement by exclusion.
func readiness(gaps []GradeGap) string {
	var actual []GradeGap
	for _, g := range gaps {
		if g.IsGap() {
			actual = append(actual, g)
		}
	}
	if len(actual) == 0 {
		return ReadinessReady
	}

	allClose := true
	significant := 0
	for _, g := range actual {
		if g.Severity != SeverityClose {
			allClose = false
		}
		if g.Severity == SeveritySignificant {
			significant++
		}
	}
	switch {
	case allClose:
		return ReadinessMostlyReady
	case significant >= 2:
		return ReadinessSignificantGaps
	default:
		return ReadinessNeedsImprovement
	}
}

// IdentifyGaps wraps CompareToRequirements into a prioritized summary:
// gaps sorted most-urgent-first, met requirements reported as strengths
// with their excess, and the first three gapped subjects flagged.
func (e *Engine) IdentifyGaps(studentGrades map[string]float64, majorName string) (*GapSummary, error) {
	gaps, readinessLabel, err := e.CompareToRequirements(studentGrades, majorName)
	if err != nil {
		return nil, err
	}

	var actual, meeting []GradeGap
	for _, g := range gaps {
		if g.IsGap() {
			actual = append(actual, g)
		} else {
			meeting = append(meeting, g)
		}
	}

	sort.SliceStable(actual, func(i, j int) bool {
		return actual[i].Priority < actual[j].Priority
	})

	summary := &GapSummary{
		Readiness:        readinessLabel,
		TotalGaps:        len(actual),
		Gaps:             make([]GapDetail, len(actual)),
		Strengths:        make([]StrengthDetail, len(meeting)),
		PrioritySubjects: []string{},
	}
	for i, g := range actual {
		summary.Gaps[i] = GapDetail{
			Subject:  g.Subject,
			Current:  g.StudentGrade,
			Required: g.RequiredGrade,
			Gap:      g.Gap,
			Severity: g.Severity,
		}
	}
	for i, g := range meeting {
		summary.Strengths[i] = StrengthDetail{
			Subject:  g.Subject,
			Grade:    g.StudentGrade,
			Required: g.RequiredGrade,
			Excess:   -g.Gap,
		}
	}
	for _, g := range actual[:min(3, len(actual))] {
		summary.PrioritySubjects = append(summary.PrioritySubjects, g.Subject)
	}

	return summary, nil
}

type gradeEntry struct {
	subject string
	grade   float64
}

// sortedByGradeDesc orders subjects by grade descending; equal grades keep
// alphabetical order for determinism.
func sortedByGradeDesc(grades map[string]float64) []gradeEntry {
	entries := make([]gradeEntry, 0, len(grades))
	for subj, grade := range grades {
		entries = append(entries, gradeEntry{subject: subj, grade: grade})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].grade != entries[j].grade {
			return entries[i].grade > entries[j].grade
		}
		return entries[i].subject < entries[j].subject
	})
	return entries
}
