package files

import (
	"regexp"
)

// Role is what a file in a participant folder is used for.
type Role int

const (
	RoleOther Role = iota
	RoleFreeRecall
	RoleCuedRecall
	RoleRecognition
	RoleSummary
)

func (r Role) String() string {
	switch r {
	case RoleFreeRecall:
		return "free_recall"
	case RoleCuedRecall:
		return "cued_recall"
	case RoleRecognition:
		return "recognition"
	case RoleSummary:
		return "summary"
	default:
		return "other"
	}
}

// RawRoles are the three raw exports a complete processing unit holds.
var RawRoles = []Role{RoleFreeRecall, RoleCuedRecall, RoleRecognition}

// Matcher classifies file names by role. Raw export names match regardless
// of case; summary workbook names are matched exactly.
type Matcher struct {
	freeRecall  *regexp.Regexp
	cuedRecall  *regexp.Regexp
	recognition *regexp.Regexp
	summary     *regexp.Regexp
	suffix      string
}

// Participant ids and export stamps accept any Unicode digit or word
// character, not only ASCII.
const (
	participantID = `\p{Nd}{3,4}`
	exportStamp   = `[\p{L}\p{N}_]{14}`
)

// NewMatcher builds a matcher for summary workbooks named
// "<participant><outputSuffix>".
func NewMatcher(outputSuffix string) *Matcher {
	return &Matcher{
		freeRecall:  regexp.MustCompile(`(?i)^` + participantID + `-Free Recall-` + exportStamp + `\.csv$`),
		cuedRecall:  regexp.MustCompile(`(?i)^` + participantID + `-Cued Recall-` + exportStamp + `\.csv$`),
		recognition: regexp.MustCompile(`(?i)^` + participantID + `-Recognition-` + exportStamp + `\.csv$`),
		summary:     regexp.MustCompile(`^` + participantID + regexp.QuoteMeta(outputSuffix) + `$`),
		suffix:      outputSuffix,
	}
}

// Classify returns the role of a file name.
func (m *Matcher) Classify(name string) Role {
	switch {
	case m.freeRecall.MatchString(name):
		return RoleFreeRecall
	case m.cuedRecall.MatchString(name):
		return RoleCuedRecall
	case m.recognition.MatchString(name):
		return RoleRecognition
	case m.summary.MatchString(name):
		return RoleSummary
	default:
		return RoleOther
	}
}

// OutputName names the summary workbook written into a folder.
func (m *Matcher) OutputName(folderName string) string {
	return folderName + m.suffix
}
