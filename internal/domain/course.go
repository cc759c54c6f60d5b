package domain

import "strings"

// UnifiedCourse is the flat catalog row exporters work from. Providers map
// their own course shape into it.
type UnifiedCourse struct {
	Source    string // "udemy"
	SourceID  string // provider course id
	Title     string
	Headline  string
	CourseURL string
	Language  string // locale code, e.g. "en_US"

	Instructors []string

	IsPaid      bool
	Price       string // display string as the provider formats it
	PriceAmount float64
	Currency    string

	ImageURL     string
	PracticeTest bool
}

// InstructorList joins instructor names with " | " so the value survives CSV
// and spreadsheet imports.
func (c UnifiedCourse) InstructorList() string {
	names := make([]string, 0, len(c.Instructors))
	for _, n := range c.Instructors {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, " | ")
}
