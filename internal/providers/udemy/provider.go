package udemy

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"udemy-affiliate/internal/domain"
)

// Provider adapts the Udemy client into the internal providers.CourseProvider interface.
type Provider struct {
	C        *Client
	Filter   CourseFilter
	MaxPages int // <=0 means all
}

func (p Provider) Name() string { return "udemy" }

func (p Provider) ListCourses(ctx context.Context) ([]domain.UnifiedCourse, error) {
	courses, err := p.C.SearchAllCourses(ctx, p.Filter, p.MaxPages)
	if err != nil {
		return nil, err
	}

	host := deriveHost(p.C.BaseURL())
	out := make([]domain.UnifiedCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, ToUnified(host, c))
	}
	return out, nil
}

// ToUnified flattens a course into a catalog row. host is prepended to the
// relative course URL.
func ToUnified(host string, c Course) domain.UnifiedCourse {
	u := domain.UnifiedCourse{
		Source:       "udemy",
		SourceID:     strconv.FormatInt(c.ID, 10),
		Title:        c.Title,
		Headline:     deref(c.Headline),
		CourseURL:    absolutizeURL(host, c.URL),
		Language:     firstNonEmpty(c.Locale.Locale, c.Locale.Title),
		IsPaid:       c.IsPaid,
		ImageURL:     firstNonEmpty(c.Image480x270, c.Image240x135, c.Image125H),
		PracticeTest: c.IsPracticeTestCourse,
	}

	for _, in := range c.VisibleInstructors {
		u.Instructors = append(u.Instructors, firstNonEmpty(in.DisplayName, in.Title, in.Name))
	}
	if len(u.Instructors) == 0 && c.InstructorName != nil {
		u.Instructors = []string{*c.InstructorName}
	}

	if d := c.PriceDetail; d != nil {
		u.PriceAmount = d.Amount
		u.Currency = d.Currency
		u.Price = firstNonEmpty(d.PriceString, deref(c.Price))
	} else {
		u.Price = deref(c.Price)
	}
	return u
}

func deriveHost(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "https://www.udemy.com"
	}
	return u.Scheme + "://" + u.Host
}

func absolutizeURL(host, in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		return in
	}
	if strings.HasPrefix(in, "/") {
		return host + in
	}
	return host + "/" + in
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
