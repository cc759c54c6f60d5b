package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"udemy-affiliate/internal/config"
	"udemy-affiliate/internal/devutil"
	"udemy-affiliate/internal/logger"
	"udemy-affiliate/internal/providers/udemy"
)

type searchFlags struct {
	search      string
	category    string
	subcategory string
	price       string
	language    string
	level       string
	ordering    string
	duration    string
	page        int
	pageSize    int
}

func main() {
	var (
		sf       searchFlags
		all      = flag.Bool("all", false, "follow pagination and return every page")
		maxPages = flag.Int("max-pages", 0, "with -all, stop after this many pages (0 = no limit)")
		fields   = flag.String("fields", "id,title,url", "comma separated fields to print per course (dotted paths allowed, empty = all)")
	)
	flag.StringVar(&sf.search, "q", "", "search term")
	flag.StringVar(&sf.category, "category", "", `category title, e.g. "Development"`)
	flag.StringVar(&sf.subcategory, "subcategory", "", `subcategory title, e.g. "Web Development" (needs -category)`)
	flag.StringVar(&sf.price, "price", "", "paid | free")
	flag.StringVar(&sf.language, "lang", "", "two-letter language code")
	flag.StringVar(&sf.level, "level", "", "all | beginner | intermediate | expert")
	flag.StringVar(&sf.ordering, "ordering", "", "relevance | most-reviewed | highest-rated | newest | price-low-to-high | price-high-to-low")
	flag.StringVar(&sf.duration, "duration", "", "short | medium | long | extraLong")
	flag.IntVar(&sf.page, "page", 0, "page number (default: API default)")
	flag.IntVar(&sf.pageSize, "page-size", 0, "page size (default: UDEMY_PAGE_SIZE)")
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

	if err := run(cfg, log, sf, *all, *maxPages, devutil.SplitKeys(*fields), os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger, sf searchFlags, all bool, maxPages int, fields []string, out io.Writer) error {
	if sf.pageSize == 0 {
		sf.pageSize = cfg.UdemyPageSize
	}
	filter, err := sf.filter()
	if err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	client, err := udemy.NewFromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var courses []udemy.Course
	if all {
		courses, err = client.SearchAllCourses(ctx, filter, maxPages)
	} else {
		courses, err = client.GetCourses(ctx, filter)
	}
	if err != nil {
		return fmt.Errorf("course search: %w", err)
	}

	if err := printCourses(out, courses, fields); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Int("courses", len(courses)).Msg("done")
	return nil
}

// filter maps the flags onto a CourseFilter. Only flags that were given are
// set; validation happens when the filter is serialized.
func (sf searchFlags) filter() (udemy.CourseFilter, error) {
	var f udemy.CourseFilter

	if sf.search != "" {
		f.Search = udemy.Ptr(sf.search)
	}
	if sf.category != "" {
		c := udemy.NewCourseCategory(sf.category)
		f.Category = &c
		if sf.subcategory != "" {
			s := udemy.NewCourseSubcategory(c, sf.subcategory)
			f.Subcategory = &s
		}
	} else if sf.subcategory != "" {
		s := udemy.NewCourseSubcategory(udemy.CourseCategory{}, sf.subcategory)
		f.Subcategory = &s
	}

	switch strings.ToLower(sf.price) {
	case "":
	case "paid", string(udemy.PricePaid):
		f.Price = udemy.Ptr(udemy.PricePaid)
	case "free", string(udemy.PriceFree):
		f.Price = udemy.Ptr(udemy.PriceFree)
	default:
		return f, fmt.Errorf("-price must be paid or free, got %q", sf.price)
	}

	if sf.language != "" {
		f.Language = udemy.Ptr(sf.language)
	}
	if sf.level != "" {
		f.InstructionalLevel = udemy.Ptr(udemy.InstructionalLevel(sf.level))
	}
	if sf.ordering != "" {
		f.Ordering = udemy.Ptr(udemy.Ordering(sf.ordering))
	}
	if sf.duration != "" {
		f.Duration = udemy.Ptr(udemy.Duration(sf.duration))
	}
	if sf.page != 0 {
		f.Page = udemy.Ptr(sf.page)
	}
	if sf.pageSize != 0 {
		f.PageSize = udemy.Ptr(sf.pageSize)
	}

	return f, f.Validate()
}

// printCourses writes one JSON object per line.
func printCourses(w io.Writer, courses []udemy.Course, fields []string) error {
	enc := json.NewEncoder(w)
	for _, c := range courses {
		if err := enc.Encode(devutil.Pick(c, fields...)); err != nil {
			return err
		}
	}
	return nil
}
