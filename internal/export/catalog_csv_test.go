package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"udemy-affiliate/internal/domain"
)

func TestWriteCatalogCSV(t *testing.T) {
	courses := []domain.UnifiedCourse{
		{
			Source:      "udemy",
			SourceID:    "567828",
			Title:       "The Complete Python Bootcamp",
			Headline:    "Learn Python like a Professional,\nstart from the basics",
			CourseURL:   "https://www.udemy.com/course/complete-python-bootcamp/",
			Language:    "en_US",
			Instructors: []string{"Jose Portilla", "Pierian Training"},
			IsPaid:      true,
			Price:       "$84.99",
			PriceAmount: 84.99,
			Currency:    "USD",
			ImageURL:    "https://img-c.udemycdn.com/course/480x270/567828_67d0.jpg",
		},
		{
			Source:       "udemy",
			SourceID:     "1",
			Title:        "Free Practice Tests",
			CourseURL:    "https://www.udemy.com/course/free-practice/",
			PracticeTest: true,
		},
	}

	var buf bytes.Buffer
	if err := WriteCatalogCSV(&buf, courses); err != nil {
		t.Fatalf("WriteCatalogCSV() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\r\n") {
		t.Error("Expected CRLF line endings")
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-reading CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}

	if strings.Join(rows[0], ",") != "COURSE_ID,TITLE,HEADLINE,COURSE_URL,LANGUAGE,INSTRUCTORS,IS_PAID,PRICE,PRICE_AMOUNT,CURRENCY,IMAGE_URL,PRACTICE_TEST,PROVIDER" {
		t.Errorf("CSV header is incorrect: %v", rows[0])
	}

	first := rows[1]
	want := []string{
		"567828",
		"The Complete Python Bootcamp",
		"Learn Python like a Professional, start from the basics",
		"https://www.udemy.com/course/complete-python-bootcamp/",
		"en_US",
		"Jose Portilla | Pierian Training",
		"true",
		"$84.99",
		"84.99",
		"USD",
		"https://img-c.udemycdn.com/course/480x270/567828_67d0.jpg",
		"false",
		"Udemy",
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("row 1 column %s = %q, want %q", catalogHeader[i], first[i], want[i])
		}
	}

	second := rows[2]
	if second[7] != "Free" {
		t.Errorf("Expected free course price 'Free', got %q", second[7])
	}
	if second[8] != "" {
		t.Errorf("Expected empty PRICE_AMOUNT, got %q", second[8])
	}
	if second[11] != "true" {
		t.Errorf("Expected PRACTICE_TEST true, got %q", second[11])
	}
}

func TestWriteCatalogCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCatalogCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCatalogCSV() error = %v", err)
	}
	if got := strings.Count(buf.String(), "\r\n"); got != 1 {
		t.Errorf("Expected header only, got %d lines", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCatalogCSVWriterError(t *testing.T) {
	err := WriteCatalogCSV(failingWriter{}, []domain.UnifiedCourse{{SourceID: "1"}})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected writer error, got %v", err)
	}
}

func TestClean(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  padded ", "padded"},
		{"two\nlines", "two lines"},
		{"crlf\r\nbreak", "crlf  break"},
	}
	for _, tc := range testCases {
		if got := clean(tc.in); got != tc.want {
			t.Errorf("clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
