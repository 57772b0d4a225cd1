package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ready4uni/advisor-go/internal/extract"
	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/majors"
	"github.com/ready4uni/advisor-go/internal/subject"
	"github.com/ready4uni/advisor-go/internal/transcript"
)

// Low temperature keeps grade extraction precise; gap analysis gets a
// little more room for phrasing recommendations.
const (
	extractionTemperature  = 0.1
	gapAnalysisTemperature = 0.3
)

// minTranscriptChars is the least extracted text worth sending to the model.
const minTranscriptChars = 50

// rawTextPreview caps how much extracted text is echoed back in results.
const rawTextPreview = 500

type transcriptToolset struct {
	extractor extract.TextExtractor
	llm       llm.Client
	engine    *transcript.Engine
	catalog   *majors.Catalog
	log       *logger.Logger
}

// transcriptDoc mirrors the structured-output schema for parse_transcript.
type transcriptDoc struct {
	StudentName  string `json:"student_name"`
	School       string `json:"school"`
	AcademicYear string `json:"academic_year"`
	Grades       []struct {
		Subject string  `json:"subject"`
		Grade   float64 `json:"grade"`
	} `json:"grades"`
	GPA        float64 `json:"gpa"`
	Confidence string  `json:"parsing_confidence"`
	Notes      string  `json:"notes"`
}

func (t *transcriptToolset) parseTranscript(ctx context.Context, args Args) (map[string]any, error) {
	path, err := args.String("file_path")
	if err != nil {
		return nil, err
	}

	raw, err := t.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract transcript text: %w", err)
	}
	if len(strings.TrimSpace(raw)) < minTranscriptChars {
		return map[string]any{
			"success": false,
			"error":   "PDF appears to be empty or unreadable",
			"grades":  map[string]float64{},
		}, nil
	}

	prompt := fmt.Sprintf(transcriptParsePromptFormat, raw)
	doc, err := t.llm.CompleteStructured(ctx, prompt, transcriptSchema(), llm.Options{
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}

	var parsed transcriptDoc
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parse transcript response: %w", err)
	}

	// Grades outside the 0-20 scale are extraction mistakes; drop them
	// instead of failing the whole parse.
	grades := make(map[string]float64, len(parsed.Grades))
	for _, g := range parsed.Grades {
		if g.Subject == "" || g.Grade < 0 || g.Grade > 20 {
			t.log.Warnf("dropping invalid grade: subject=%q grade=%g", g.Subject, g.Grade)
			continue
		}
		grades[g.Subject] = g.Grade
	}
	if len(grades) == 0 {
		return map[string]any{
			"success":  false,
			"error":    "No grades found in the transcript",
			"raw_text": clip(raw, rawTextPreview),
		}, nil
	}

	confidence := parsed.Confidence
	if confidence == "" {
		confidence = "medium"
	}

	t.log.Infof("parsed %d grades with %s confidence", len(grades), confidence)

	return map[string]any{
		"success": true,
		"grades":  grades,
		"student_info": map[string]any{
			"name":   parsed.StudentName,
			"school": parsed.School,
			"year":   parsed.AcademicYear,
		},
		"gpa":        parsed.GPA,
		"confidence": confidence,
		"raw_text":   clip(raw, rawTextPreview),
	}, nil
}

// gapAnalysisDoc mirrors the structured gap-analysis schema.
type gapAnalysisDoc struct {
	OverallReadiness string      `json:"overall_readiness"`
	Analysis         []gapAdvice `json:"analysis"`
	Strengths        []string    `json:"strengths"`
	PrioritySubjects []string    `json:"priority_subjects"`
	Summary          string      `json:"summary"`
}

type gapAdvice struct {
	Subject        string  `json:"subject"`
	StudentGrade   float64 `json:"student_grade"`
	RequiredGrade  float64 `json:"required_grade"`
	Gap            float64 `json:"gap"`
	Status         string  `json:"status"`
	Recommendation string  `json:"recommendation"`
}

func (t *transcriptToolset) analyzeGrades(ctx context.Context, args Args) (map[string]any, error) {
	rawGrades, err := args.GradeMap("student_grades")
	if err != nil {
		return nil, err
	}
	majorName := args.OptString("major_name")

	if len(rawGrades) == 0 {
		return map[string]any{
			"success": false,
			"error":   "No valid grades found in transcript",
		}, nil
	}

	grades := subject.NormalizeGrades(rawGrades)

	analysis, err := t.engine.Analyze(grades)
	if err != nil {
		return nil, fmt.Errorf("analyze grades: %w", err)
	}

	result := map[string]any{
		"success": true,
		"analysis": map[string]any{
			"gpa":             analysis.GPA,
			"overall_quality": analysis.OverallQuality,
			"strengths":       analysis.Strengths,
			"weaknesses":      analysis.Weaknesses,
			"passing_all":     analysis.PassingAll,
		},
	}

	if majorName == "" {
		recs := make([]string, 0, 2)
		for _, subj := range analysis.Weaknesses {
			if len(recs) == 2 {
				break
			}
			recs = append(recs, fmt.Sprintf("Consider strengthening %s", subj))
		}
		result["recommendations"] = recs
		return result, nil
	}

	gaps, readiness, err := t.engine.CompareToRequirements(grades, majorName)
	if err != nil {
		t.log.Warnf("gap analysis unavailable for %q: %v", majorName, err)
		result["gaps"] = []map[string]any{}
		result["readiness"] = "unknown"
		result["recommendations"] = []string{
			fmt.Sprintf("Could not find requirement data for %s", majorName),
			"Please verify the major name or try a different major",
		}
		return result, nil
	}

	gapList := make([]map[string]any, 0, len(gaps))
	for _, g := range gaps {
		if !g.IsGap() {
			continue
		}
		gapList = append(gapList, map[string]any{
			"subject":        g.Subject,
			"current_grade":  g.StudentGrade,
			"required_grade": g.RequiredGrade,
			"gap":            g.Gap,
			"severity":       g.Severity,
			"priority":       g.Priority,
		})
	}
	sort.SliceStable(gapList, func(i, j int) bool {
		return gapList[i]["priority"].(int) < gapList[j]["priority"].(int)
	})

	result["gaps"] = gapList
	result["readiness"] = readiness
	result["major"] = majorName

	advice, err := t.llmGapAnalysis(ctx, majorName, grades)
	if err != nil {
		t.log.Warnf("llm gap analysis failed, using fallback: %v", err)
		result["recommendations"] = fallbackGapRecommendations(majorName, gapList)
		return result, nil
	}

	result["llm_analysis"] = advice

	recs := make([]string, 0, 3)
	for _, item := range advice.Analysis {
		if len(recs) == 3 {
			break
		}
		rec := item.Recommendation
		if rec == "" {
			rec = fmt.Sprintf("Improve %s", item.Subject)
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 && advice.Summary != "" {
		recs = []string{advice.Summary}
	}
	if len(recs) == 0 {
		recs = []string{"Focus on your weakest subjects"}
	}
	result["recommendations"] = recs
	result["summary"] = advice.Summary

	return result, nil
}

// llmGapAnalysis asks the model for per-subject improvement advice and
// sanitizes its output so downstream formatting stays bounded.
func (t *transcriptToolset) llmGapAnalysis(ctx context.Context, majorName string, grades map[string]float64) (*gapAnalysisDoc, error) {
	major, err := t.catalog.Resolve(majorName)
	if err != nil {
		return nil, err
	}

	gradesJSON, err := json.Marshal(grades)
	if err != nil {
		return nil, err
	}
	requirementsJSON, err := json.Marshal(major.Requirements)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(gapAnalysisPromptFormat, majorName, gradesJSON, majorName, requirementsJSON)
	doc, err := t.llm.CompleteStructured(ctx, prompt, gapAnalysisSchema(), llm.Options{
		Temperature: gapAnalysisTemperature,
	})
	if err != nil {
		return nil, err
	}

	var advice gapAnalysisDoc
	if err := json.Unmarshal(doc, &advice); err != nil {
		return nil, err
	}

	for i := range advice.Analysis {
		item := &advice.Analysis[i]
		if len(item.Subject) > 30 {
			if fields := strings.Fields(item.Subject); len(fields) > 0 {
				item.Subject = clip(fields[0], 30)
			} else {
				item.Subject = clip(item.Subject, 30)
			}
		}
		if len(item.Recommendation) > 150 {
			item.Recommendation = truncate(item.Recommendation, 150)
		}
	}

	return &advice, nil
}

func fallbackGapRecommendations(majorName string, gapList []map[string]any) []string {
	if len(gapList) == 0 {
		return []string{
			fmt.Sprintf("Your grades meet all requirements for %s!", majorName),
			"Continue maintaining your strong performance",
		}
	}
	recs := make([]string, 0, 3)
	for _, g := range gapList {
		if len(recs) == 3 {
			break
		}
		recs = append(recs, fmt.Sprintf("Focus on %s (need to improve by %.1f points)", g["subject"], g["gap"]))
	}
	return recs
}
