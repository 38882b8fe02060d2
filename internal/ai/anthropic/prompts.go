package anthropic

import (
	"fmt"
	"strings"

	"github.com/prepdeck/prepdeck/internal/ai"
)

// buildQuestionPrompt creates the prompt for generating one practice question
func buildQuestionPrompt(params ai.GenerateQuestionParams) string {
	var b strings.Builder

	b.WriteString("You are an experienced technical interviewer preparing a candidate for a job interview.\n\n")
	fmt.Fprintf(&b, "Position: %s\n", params.JobTitle)
	if params.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", params.Company)
	}
	fmt.Fprintf(&b, "Experience level: %s\n", params.ExperienceLevel)
	if params.Difficulty != "" {
		fmt.Fprintf(&b, "Requested difficulty: %s\n", params.Difficulty)
	}
	fmt.Fprintf(&b, "\nJob description:\n%s\n", params.Description)

	if len(params.PreviousQuestions) > 0 {
		b.WriteString("\nQuestions already asked (do NOT repeat these or ask close variants):\n")
		for _, q := range params.PreviousQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	b.WriteString(`
Generate ONE interview question tailored to this position and experience level.
Mix behavioral and technical styles across a session; pick whichever fits best
given the questions already asked.

**Response Format:**
Return your question as a JSON object with this exact structure:

{
  "question": "The full question text",
  "difficulty": "easy|medium|hard"
}

**Important:** Return ONLY the JSON object, no additional text or explanation.`)

	return b.String()
}

// buildFeedbackPrompt creates the prompt for evaluating a candidate answer
func buildFeedbackPrompt(params ai.FeedbackParams) string {
	var b strings.Builder

	b.WriteString("You are an experienced technical interviewer evaluating a candidate's answer.\n\n")
	fmt.Fprintf(&b, "Position: %s\n", params.JobTitle)
	fmt.Fprintf(&b, "Experience level: %s\n\n", params.ExperienceLevel)
	fmt.Fprintf(&b, "Question:\n%s\n\n", params.QuestionText)
	fmt.Fprintf(&b, "Candidate's answer:\n%s\n", params.Answer)

	b.WriteString(`
Evaluate the answer for correctness, depth, structure, and communication.
Calibrate expectations to the stated experience level. Be direct but
constructive: name what was strong and give concrete improvements.

**Response Format:**
Return your evaluation as a JSON object with this exact structure:

{
  "rating": 7,
  "feedback": "Narrative assessment with specific improvements"
}

The rating is an integer from 1 (poor) to 10 (excellent).

**Important:** Return ONLY the JSON object, no additional text or explanation.`)

	return b.String()
}

// buildResumePrompt creates the prompt for analyzing a resume against a job profile
func buildResumePrompt(params ai.AnalyzeResumeParams) string {
	var b strings.Builder

	b.WriteString("You are an expert technical recruiter reviewing the attached resume for a specific position.\n\n")
	fmt.Fprintf(&b, "Position: %s\n", params.JobTitle)
	fmt.Fprintf(&b, "Experience level: %s\n\n", params.ExperienceLevel)
	fmt.Fprintf(&b, "Job description:\n%s\n", params.Description)

	b.WriteString(`
Assess how well the resume fits the position:
- Relevance of experience and skills to the job description
- Evidence of impact (metrics, outcomes) rather than responsibility lists
- Seniority signals matching the stated experience level
- Clarity, structure, and red flags (gaps, buzzword padding, inconsistencies)

**Response Format:**
Return your analysis as a JSON object with this exact structure:

{
  "score": 72,
  "strengths": ["Specific strength with evidence from the resume"],
  "improvements": ["Concrete, actionable change to make"],
  "summary": "Overall assessment of fit for this position"
}

The score is an integer from 0 (no fit) to 100 (exceptional fit).
Provide 3-5 strengths and 3-5 improvements.

**Important:** Return ONLY the JSON object, no additional text or explanation.`)

	return b.String()
}
