// Package prompts builds the chat prompts sent to the inference provider.
// All builders are pure functions of their inputs.
package prompts

import (
	"fmt"
	"strings"

	"deepjobsearch/internal/jsonx"
	"deepjobsearch/internal/server/ports"
)

// DeepSearchSystem is the system instruction for the job-search call.
const DeepSearchSystem = "You are a job search assistant helping find relevant job opportunities."

// ResumeSummarySystem is the system instruction for the resume-summary call.
const ResumeSummarySystem = "You are a professional resume analyzer."

func orAny(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Any"
	}
	return value
}

// DeepSearch derives the search prompt from the resume summary and the
// caller's preferences.
func DeepSearch(resumeSummary map[string]any, prefs ports.Preferences) string {
	summaryJSON, err := jsonx.MarshalIndent(resumeSummary, "", "  ")
	if err != nil {
		// Arbitrary maps from decoded JSON always marshal; keep the prompt
		// usable if a caller hands us something exotic.
		summaryJSON = []byte("{}")
	}

	additional := prefs.AdditionalInfo
	if strings.TrimSpace(additional) == "" {
		additional = "None"
	}

	return fmt.Sprintf(`Based on the following resume summary and job preferences, find relevant job opportunities:

Resume Summary:
%s

Job Preferences:
- Location: %s
- Company Size: %s
- Role Type: %s
- Additional Info: %s

Please provide a list of job opportunities in the following JSON format:
{
    "jobs": [
        {
            "title": "Job Title",
            "company": "Company Name",
            "location": "Job Location",
            "description": "Brief job description",
            "apply_link": "URL to apply",
            "match_score": "Score between 0-100 indicating match with resume"
        }
    ],
    "followup_questions": [
        "Question 1 to refine search?",
        "Question 2 to refine search?"
    ]
}`, summaryJSON, orAny(prefs.Location), orAny(prefs.CompanySize), orAny(prefs.RoleType), additional)
}

// ResumeSummary asks the model to distill raw resume text into structured
// data.
func ResumeSummary(text string) string {
	return fmt.Sprintf(`Analyze the following resume and extract key information in JSON format:

%s

Please provide a JSON response with the following structure:
{
    "skills": ["skill1", "skill2", ...],
    "experience": [
        {
            "title": "job title",
            "company": "company name",
            "duration": "duration",
            "highlights": ["achievement1", "achievement2", ...]
        }
    ],
    "education": [
        {
            "degree": "degree name",
            "institution": "institution name",
            "year": "graduation year"
        }
    ],
    "summary": "brief professional summary"
}`, text)
}
