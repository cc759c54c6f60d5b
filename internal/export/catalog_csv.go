package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"udemy-affiliate/internal/domain"
)

// Keep header order EXACT; downstream imports map columns by position.
var catalogHeader = []string{
	"COURSE_ID",
	"TITLE",
	"HEADLINE",
	"COURSE_URL",
	"LANGUAGE",
	"INSTRUCTORS",
	"IS_PAID",
	"PRICE",
	"PRICE_AMOUNT",
	"CURRENCY",
	"IMAGE_URL",
	"PRACTICE_TEST",
	"PROVIDER",
}

// WriteCatalogCSV writes one row per course.
func WriteCatalogCSV(w io.Writer, courses []domain.UnifiedCourse) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(catalogHeader); err != nil {
		return err
	}
	for _, c := range courses {
		if err := cw.Write(toCatalogRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toCatalogRow(c domain.UnifiedCourse) []string {
	amount := ""
	if c.PriceAmount > 0 {
		amount = strconv.FormatFloat(c.PriceAmount, 'f', -1, 64)
	}

	price := clean(c.Price)
	if !c.IsPaid && price == "" {
		price = "Free"
	}

	// "udemy" -> "Udemy"
	provider := strings.TrimSpace(c.Source)
	if provider != "" {
		provider = strings.ToUpper(provider[:1]) + strings.ToLower(provider[1:])
	}

	return []string{
		c.SourceID,
		clean(c.Title),
		clean(c.Headline),
		c.CourseURL,
		c.Language,
		c.InstructorList(),
		strconv.FormatBool(c.IsPaid),
		price,
		amount,
		c.Currency,
		c.ImageURL,
		strconv.FormatBool(c.PracticeTest),
		provider,
	}
}

// clean flattens line breaks so every course stays on one physical line.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
