package udemy

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-querystring/query"
)

type Price string

const (
	PricePaid Price = "price-paid"
	PriceFree Price = "price-free"
)

type InstructionalLevel string

const (
	LevelAll          InstructionalLevel = "all"
	LevelBeginner     InstructionalLevel = "beginner"
	LevelIntermediate InstructionalLevel = "intermediate"
	LevelExpert       InstructionalLevel = "expert"
)

type Ordering string

const (
	OrderRelevance      Ordering = "relevance"
	OrderMostReviewed   Ordering = "most-reviewed"
	OrderHighestRated   Ordering = "highest-rated"
	OrderNewest         Ordering = "newest"
	OrderPriceLowToHigh Ordering = "price-low-to-high"
	OrderPriceHighToLow Ordering = "price-high-to-low"
)

type Duration string

const (
	DurationShort     Duration = "short"
	DurationMedium    Duration = "medium"
	DurationLong      Duration = "long"
	DurationExtraLong Duration = "extraLong"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	// Udemy refuses to page past the 10 000th result.
	maxResultWindow = 10000
)

// Ptr returns a pointer to v. Filters use nil for "not set".
func Ptr[T any](v T) *T { return &v }

// CourseFilter holds the course search parameters. Only non-nil fields are
// sent.
type CourseFilter struct {
	Page                     *int                `url:"page,omitempty" validate:"omitempty,gte=1"`
	PageSize                 *int                `url:"page_size,omitempty" validate:"omitempty,gte=1,lte=100"`
	Search                   *string             `url:"search,omitempty"`
	Category                 *CourseCategory     `url:"category,omitempty"`
	Subcategory              *CourseSubcategory  `url:"subcategory,omitempty"`
	Price                    *Price              `url:"price,omitempty" validate:"omitempty,oneof=price-paid price-free"`
	IsAffiliateAgreed        *bool               `url:"is_affiliate_agreed,omitempty"`
	IsFixedPricedDealsAgreed *bool               `url:"is_fixed_priced_deals_agreed,omitempty"`
	IsPercentageDealsAgreed  *bool               `url:"is_percentage_deals_agreed,omitempty"`
	Language                 *string             `url:"language,omitempty" validate:"omitempty,len=2,lowercase,alpha"`
	HasClosedCaption         *bool               `url:"has_closed_caption,omitempty"`
	HasCodingExercises       *bool               `url:"has_coding_exercises,omitempty"`
	HasSimpleQuiz            *bool               `url:"has_simple_quiz,omitempty"`
	InstructionalLevel       *InstructionalLevel `url:"instructional_level,omitempty" validate:"omitempty,oneof=all beginner intermediate expert"`
	Ordering                 *Ordering           `url:"ordering,omitempty" validate:"omitempty,oneof=relevance most-reviewed highest-rated newest price-low-to-high price-high-to-low"`
	Ratings                  *string             `url:"ratings,omitempty" validate:"omitempty,min=1"`
	Duration                 *Duration           `url:"duration,omitempty" validate:"omitempty,oneof=short medium long extraLong"`
}

// ReviewFilter holds the course review listing parameters.
type ReviewFilter struct {
	Page         *int    `url:"page,omitempty" validate:"omitempty,gte=1"`
	PageSize     *int    `url:"page_size,omitempty" validate:"omitempty,gte=1,lte=100"`
	IsTextReview *bool   `url:"is_text_review,omitempty"`
	Rating       *string `url:"rating,omitempty" validate:"omitempty,min=1"`
	User         *string `url:"user,omitempty" validate:"omitempty,min=1"`
}

type curriculumQuery struct {
	Page     int `url:"page" validate:"gte=1"`
	PageSize int `url:"page_size" validate:"gte=1,lte=100"`
}

// EncodeValues sends the category by title.
func (c CourseCategory) EncodeValues(key string, v *url.Values) error {
	v.Set(key, c.Title)
	return nil
}

func (s CourseSubcategory) EncodeValues(key string, v *url.Values) error {
	v.Set(key, s.Title)
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("url"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (f CourseFilter) Validate() error {
	if err := validateFields(f); err != nil {
		return err
	}
	if err := checkResultWindow(f.Page, f.PageSize); err != nil {
		return err
	}

	if f.Category != nil && !f.Category.Known() {
		return combinationErr("category", fmt.Sprintf("unknown category %q", f.Category.Title))
	}
	if f.Subcategory == nil {
		return nil
	}
	if f.Category == nil {
		return combinationErr("subcategory", "a parent category is required")
	}
	if !f.Subcategory.Known() {
		return combinationErr("subcategory", fmt.Sprintf("unknown subcategory %q", f.Subcategory.Title))
	}
	if parent := f.Subcategory.Category.Title; parent != "" && parent != f.Category.Title {
		return combinationErr("subcategory", fmt.Sprintf("belongs to %q, not %q", parent, f.Category.Title))
	}
	return nil
}

// Query validates the filter and returns the query string values.
func (f CourseFilter) Query() (url.Values, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return query.Values(f)
}

func (f ReviewFilter) Validate() error {
	if err := validateFields(f); err != nil {
		return err
	}
	return checkResultWindow(f.Page, f.PageSize)
}

func (f ReviewFilter) Query() (url.Values, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return query.Values(f)
}

func (q curriculumQuery) values() (url.Values, error) {
	if err := validateFields(q); err != nil {
		return nil, err
	}
	if err := checkResultWindow(&q.Page, &q.PageSize); err != nil {
		return nil, err
	}
	return query.Values(q)
}

func validateFields(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fmt.Sprintf("failed %q constraint", fe.Tag())
		if fe.Param() != "" {
			reason += " " + fe.Param()
		}
		return &FilterError{Field: fe.Field(), Reason: reason, Err: ErrInvalidFilter}
	}
	return &FilterError{Reason: err.Error(), Err: ErrInvalidFilter}
}

// checkResultWindow applies the page * page_size limit using the API
// defaults for whichever side is unset.
func checkResultWindow(page, pageSize *int) error {
	p, s := defaultPage, defaultPageSize
	if page != nil {
		p = *page
	}
	if pageSize != nil {
		s = *pageSize
	}
	if !withinResultWindow(p, s) {
		return combinationErr("page", fmt.Sprintf("page %d with page_size %d goes past result %d", p, s, maxResultWindow))
	}
	return nil
}

// withinResultWindow reports whether page*pageSize <= maxResultWindow
// without overflowing. Both values are >= 1 once field validation passed.
func withinResultWindow(page, pageSize int) bool {
	if page < 1 || pageSize < 1 {
		return true
	}
	return page <= maxResultWindow/pageSize
}

func combinationErr(field, reason string) error {
	return &FilterError{Field: field, Reason: reason, Err: ErrUnsupportedFilterCombination}
}
