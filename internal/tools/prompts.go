package tools

// transcriptParsePromptFormat asks the model to lift grades out of raw
// transcript text. Placeholder: extracted text.
const transcriptParsePromptFormat = `You are analyzing a Portuguese high school transcript. Extract the grades from this text.

**Transcript text:**
%s

**Instructions:**
- Extract all subject grades (0-20 scale)
- Identify student name, school, and academic year if present
- Common Portuguese subject names: Matemática (Math), Física (Physics), Português (Portuguese),
  Química (Chemistry), Biologia (Biology), História (History), Geografia (Geography),
  Inglês (English), Filosofia (Philosophy), Educação Física (PE)
- If you see grades like "13/20" or "15 valores", extract the number
- Set parsing_confidence based on clarity: "high" if clear, "medium" if some ambiguity, "low" if very unclear

Return a JSON object matching the schema.`

// gapAnalysisPromptFormat compares grades to a major's requirements.
// Placeholders: major name, student grades JSON, major name again,
// requirements JSON.
const gapAnalysisPromptFormat = `You are analyzing a student's readiness for a specific university major based on their transcript grades.

**Task:** Compare the student's grades against the typical entry requirements for %s and identify gaps.

**Student's Grades:**
%s

**Requirements for %s:**
%s

**Analysis Framework:**
1. For each required subject, calculate the gap (requirement - student_grade)
2. Categorize gaps:
   - **Meets requirement**: Student grade >= requirement
   - **Close** (1-2 points below): Achievable with focused effort
   - **Significant gap** (3+ points below): Requires substantial improvement
3. Identify the student's strengths (subjects where they exceed requirements)

**Output Requirements:**
Provide a JSON object with overall_readiness, a per-subject analysis array
(subject, student_grade, required_grade, gap, status, recommendation),
strengths, priority_subjects, and a summary.

Be encouraging but honest. Highlight both strengths and areas for improvement.`
