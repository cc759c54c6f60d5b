package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"udemy-affiliate/internal/concurrency"
	"udemy-affiliate/internal/config"
	"udemy-affiliate/internal/httpx"
	"udemy-affiliate/internal/logger"
	"udemy-affiliate/internal/providers/udemy"
)

type inspectOptions struct {
	ids        string
	reviews    int
	curriculum bool
	currPage   int
	currSize   int
	imagesDir  string
	workers    int
}

func main() {
	var o inspectOptions
	flag.StringVar(&o.ids, "ids", "", "comma separated course ids")
	flag.IntVar(&o.reviews, "reviews", 0, "also list this many reviews per course (0 = none)")
	flag.BoolVar(&o.curriculum, "curriculum", false, "also list the public curriculum")
	flag.IntVar(&o.currPage, "curriculum-page", 1, "curriculum page")
	flag.IntVar(&o.currSize, "curriculum-page-size", 100, "curriculum page size")
	flag.StringVar(&o.imagesDir, "images", "", "download each course's 480x270 image into this directory")
	flag.IntVar(&o.workers, "workers", 4, "courses fetched in parallel")
	flag.Parse()

	log := logger.New(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = logger.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log, o, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("inspect failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger, o inspectOptions, out io.Writer) error {
	courseIDs, err := parseIDs(o.ids)
	if err != nil {
		return err
	}
	if len(courseIDs) == 0 {
		return errors.New("-ids is required (e.g. -ids 567828,1565838)")
	}

	client, err := udemy.NewFromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}
	async := udemy.NewAsync(client).WithWorkers(o.workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reviews and curricula start right away and run while details load.
	reviewFutures := map[int64]*concurrency.Future[[]udemy.CourseReview]{}
	currFutures := map[int64]*concurrency.Future[[]udemy.CurriculumItem]{}
	for _, id := range courseIDs {
		if o.reviews > 0 {
			f := udemy.ReviewFilter{PageSize: udemy.Ptr(o.reviews)}
			reviewFutures[id] = async.GetCourseReviews(ctx, id, f)
		}
		if o.curriculum {
			currFutures[id] = async.GetCoursePublicCurriculum(ctx, id, o.currPage, o.currSize)
		}
	}

	courses, err := async.GetCourseDetailsBatch(ctx, courseIDs).Await(ctx)
	if err != nil {
		return fmt.Errorf("course details: %w", err)
	}

	for _, c := range courses {
		writeCourse(out, c)

		if f, ok := reviewFutures[c.ID]; ok {
			rs, err := f.Await(ctx)
			if err != nil {
				log.Error().Err(err).Int64("course", c.ID).Msg("reviews failed")
			}
			for _, r := range rs {
				fmt.Fprintf(out, "  review %.1f by %s: %s\n", r.Rating, r.User.DisplayName, oneLine(r.Content, 120))
			}
		}

		if f, ok := currFutures[c.ID]; ok {
			items, err := f.Await(ctx)
			if err != nil {
				log.Error().Err(err).Int64("course", c.ID).Msg("curriculum failed")
			}
			for _, item := range items {
				fmt.Fprintln(out, "  "+describeItem(item))
			}
		}
	}

	if o.imagesDir != "" {
		saved := downloadImages(ctx, log, &http.Client{Timeout: cfg.UdemyTimeout}, cfg.Retry(), courses, o.imagesDir, o.workers)
		log.Info().Int("images", saved).Str("dir", o.imagesDir).Msg("images downloaded")
	}
	return nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid course id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeCourse(w io.Writer, c udemy.Course) {
	fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Title)
	if c.Headline != nil {
		fmt.Fprintf(w, "  %s\n", *c.Headline)
	}
	for _, in := range c.VisibleInstructors {
		fmt.Fprintf(w, "  instructor: %s\n", in.DisplayName)
	}
	if c.PriceDetail != nil {
		fmt.Fprintf(w, "  price: %s\n", c.PriceDetail.PriceString)
	} else if !c.IsPaid {
		fmt.Fprintln(w, "  price: Free")
	}
}

func describeItem(item udemy.CurriculumItem) string {
	switch v := item.(type) {
	case udemy.Chapter:
		return fmt.Sprintf("chapter %d: %s", v.SortOrder, v.Title)
	case udemy.Lecture:
		s := fmt.Sprintf("lecture: %s [%s]", v.Title, v.Asset.AssetType)
		if v.Transcript != nil {
			s += " (transcript)"
		}
		return s
	case udemy.Quiz:
		return fmt.Sprintf("quiz: %s (%ds, pass %.0f%%)", v.Title, v.Duration, v.PassPercent)
	default:
		return item.ItemTitle()
	}
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

// downloadImages saves course_<id><ext> for every course with an image and
// returns how many were written. Failures are logged and skipped.
func downloadImages(ctx context.Context, log zerolog.Logger, hc *http.Client, retry httpx.RetryConfig, courses []udemy.Course, dir string, workers int) int {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("create image dir")
		return 0
	}

	withImage := make([]udemy.Course, 0, len(courses))
	for _, c := range courses {
		if c.Image480x270 != "" {
			withImage = append(withImage, c)
		}
	}

	errs := concurrency.ForEach(ctx, withImage, concurrency.ParallelOptions{MaxWorkers: workers},
		func(ctx context.Context, _ int, c udemy.Course) error {
			p, err := saveImage(ctx, hc, retry, c.Image480x270, dir, c.ID)
			if err != nil {
				log.Warn().Err(err).Int64("course", c.ID).Msg("image download failed")
				return err
			}
			log.Debug().Str("path", p).Msg("image saved")
			return nil
		})
	return len(withImage) - len(errs)
}

func saveImage(ctx context.Context, hc *http.Client, retry httpx.RetryConfig, imageURL, dir string, id int64) (string, error) {
	_, body, err := httpx.DoWithRetry(ctx, hc, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	}, retry)
	if err != nil {
		return "", err
	}

	ext := path.Ext(strings.SplitN(imageURL, "?", 2)[0])
	if ext == "" {
		ext = ".jpg"
	}
	p := filepath.Join(dir, fmt.Sprintf("course_%d%s", id, ext))
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return "", err
	}
	return p, nil
}
