package prompts

import (
	"strings"
	"time"
)

// DateLayout renders dates as MM/DD/YYYY.
const DateLayout = "01/02/2006"

// Vars are the values substituted into a template body.
type Vars struct {
	JobTitle       string
	JobDescription string
	ResumeText     string
	Date           string
}

// NewVars builds Vars for one request. The date is taken from now, never from the caller.
func NewVars(jobTitle, jobDescription, resumeText string, now time.Time) Vars {
	return Vars{
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
		ResumeText:     resumeText,
		Date:           now.Format(DateLayout),
	}
}

// Substitute replaces every recognized {token} in body in a single pass.
// Inserted values are never rescanned and unknown tokens are left as is.
func Substitute(body string, v Vars) string {
	return strings.NewReplacer(
		"{jobTitle}", v.JobTitle,
		"{jobDescription}", v.JobDescription,
		"{resumeText}", v.ResumeText,
		"{date}", v.Date,
	).Replace(body)
}
