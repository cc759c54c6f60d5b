package udemy

import (
	"context"
	"errors"
	"fmt"

	"udemy-affiliate/internal/concurrency"
)

// AsyncClient is the non-blocking adapter. Every call starts immediately and
// hands back a Future; request building and decoding are the Client's.
type AsyncClient struct {
	c    *Client
	opts concurrency.ParallelOptions
}

func NewAsync(c *Client) *AsyncClient {
	return &AsyncClient{c: c, opts: concurrency.DefaultOptions()}
}

// WithWorkers sets how many requests GetCourseDetailsBatch keeps in flight.
func (a *AsyncClient) WithWorkers(n int) *AsyncClient {
	a.opts.MaxWorkers = n
	return a
}

// Client returns the blocking client underneath.
func (a *AsyncClient) Client() *Client { return a.c }

func (a *AsyncClient) GetCourses(ctx context.Context, f CourseFilter) *concurrency.Future[[]Course] {
	return concurrency.Go(ctx, func(ctx context.Context) ([]Course, error) {
		return a.c.GetCourses(ctx, f)
	})
}

func (a *AsyncClient) SearchAllCourses(ctx context.Context, f CourseFilter, maxPages int) *concurrency.Future[[]Course] {
	return concurrency.Go(ctx, func(ctx context.Context) ([]Course, error) {
		return a.c.SearchAllCourses(ctx, f, maxPages)
	})
}

func (a *AsyncClient) GetCourseDetails(ctx context.Context, id int64) *concurrency.Future[Course] {
	return concurrency.Go(ctx, func(ctx context.Context) (Course, error) {
		return a.c.GetCourseDetails(ctx, id)
	})
}

func (a *AsyncClient) GetCourseReviews(ctx context.Context, id int64, f ReviewFilter) *concurrency.Future[[]CourseReview] {
	return concurrency.Go(ctx, func(ctx context.Context) ([]CourseReview, error) {
		return a.c.GetCourseReviews(ctx, id, f)
	})
}

func (a *AsyncClient) GetCoursePublicCurriculum(ctx context.Context, id int64, page, pageSize int) *concurrency.Future[[]CurriculumItem] {
	return concurrency.Go(ctx, func(ctx context.Context) ([]CurriculumItem, error) {
		return a.c.GetCoursePublicCurriculum(ctx, id, page, pageSize)
	})
}

// GetCourseDetailsBatch fetches several courses at once. The result is in ids
// order; if any fetch fails the whole batch fails and the remaining
// requests are cancelled.
func (a *AsyncClient) GetCourseDetailsBatch(ctx context.Context, ids []int64) *concurrency.Future[[]Course] {
	return concurrency.Go(ctx, func(ctx context.Context) ([]Course, error) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		courses, errs := concurrency.ProcessParallel(ctx, ids, a.opts, func(ctx context.Context, _ int, id int64) (Course, error) {
			course, err := a.c.GetCourseDetails(ctx, id)
			if err != nil {
				cancel()
				return Course{}, fmt.Errorf("course %d: %w", id, err)
			}
			return course, nil
		})
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return courses, nil
	})
}
