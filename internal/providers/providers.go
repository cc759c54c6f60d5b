package providers

import (
	"context"

	"udemy-affiliate/internal/domain"
)

// CourseProvider lists a catalog in the unified shape exporters consume.
type CourseProvider interface {
	Name() string
	ListCourses(ctx context.Context) ([]domain.UnifiedCourse, error)
}
