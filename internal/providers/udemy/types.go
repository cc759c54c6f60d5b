package udemy

import "time"

// Required fields use a plain json tag; optional ones carry omitempty.
// construct.go relies on that convention to detect missing fields.

type User struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Instructor is a User plus the instructor-only fields. The embedded User
// is flattened on the wire.
type Instructor struct {
	User
	JobTitle     *string `json:"job_title,omitempty"`
	Image50x50   *string `json:"image_50x50,omitempty"`
	Image100x100 *string `json:"image_100x100,omitempty"`
	Initials     string  `json:"initials"`
	URL          string  `json:"url"`
}

type PriceDetail struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PriceString    string  `json:"price_string"`
	CurrencySymbol string  `json:"currency_symbol"`
}

type Locale struct {
	Locale             string `json:"locale"`
	Title              string `json:"title"`
	EnglishTitle       string `json:"english_title"`
	SimpleEnglishTitle string `json:"simple_english_title"`
}

type Course struct {
	ID                   int64        `json:"id"`
	Title                string       `json:"title"`
	URL                  string       `json:"url"`
	IsPaid               bool         `json:"is_paid"`
	Price                *string      `json:"price,omitempty"`
	PriceDetail          *PriceDetail `json:"price_detail,omitempty"`
	PriceServeTrackingID *string      `json:"price_serve_tracking_id,omitempty"`
	VisibleInstructors   []Instructor `json:"visible_instructors,omitempty"`
	Image125H            string       `json:"image_125_H"`
	Image240x135         string       `json:"image_240x135"`
	IsPracticeTestCourse bool         `json:"is_practice_test_course"`
	Image480x270         string       `json:"image_480x270"`
	PublishedTitle       string       `json:"published_title"`
	TrackingID           string       `json:"tracking_id,omitempty"`
	Locale               Locale       `json:"locale"`
	PredictiveScore      *float64     `json:"predictive_score,omitempty"`
	RelevancyScore       *float64     `json:"relevancy_score,omitempty"`
	OrderInResults       *int         `json:"order_in_results,omitempty"`
	Headline             *string      `json:"headline,omitempty"`
	InstructorName       *string      `json:"instructor_name,omitempty"`

	// Undocumented shapes, kept as raw bags.
	InputFeatures       map[string]any   `json:"input_features,omitempty"`
	LectureSearchResult map[string]any   `json:"lecture_search_result,omitempty"`
	CurriculumLectures  []map[string]any `json:"curriculum_lectures,omitempty"`
	CurriculumItems     []map[string]any `json:"curriculum_items,omitempty"`
}

type CourseReview struct {
	ID           int64     `json:"id"`
	Content      string    `json:"content"`
	Rating       float64   `json:"rating"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
	UserModified time.Time `json:"user_modified"`
	User         User      `json:"user"`
}

type Chapter struct {
	ID          int64     `json:"id"`
	Created     time.Time `json:"created"`
	SortOrder   int       `json:"sort_order"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
}

// Asset is attached to a lecture (video, article...). The shape is inferred
// from live responses; Udemy does not document it.
type Asset struct {
	ID        int64     `json:"id"`
	AssetType string    `json:"asset_type"`
	Title     string    `json:"title"`
	Created   time.Time `json:"created"`
}

type Lecture struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Created        time.Time `json:"created"`
	Description    string    `json:"description"`
	TitleCleaned   string    `json:"title_cleaned"`
	IsPublished    bool      `json:"is_published"`
	Transcript     *string   `json:"transcript,omitempty"`
	IsDownloadable bool      `json:"is_downloadable"`
	IsFree         bool      `json:"is_free"`
	Asset          Asset     `json:"asset"`
	SortOrder      int       `json:"sort_order"`
	CanBePreviewed bool      `json:"can_be_previewed"`
}

type Quiz struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Created      time.Time `json:"created"`
	Description  string    `json:"description"`
	TitleCleaned string    `json:"title_cleaned"`
	IsPublished  bool      `json:"is_published"`
	SortOrder    int       `json:"sort_order"`
	ObjectIndex  int       `json:"object_index"`
	IsDraft      bool      `json:"is_draft"`
	Version      int       `json:"version"`
	Duration     int       `json:"duration"`
	PassPercent  float64   `json:"pass_percent"`
}

// UnknownEntity holds an entry whose _class is not modeled. Fields is the
// entry minus the discriminator.
type UnknownEntity struct {
	Tag    string
	Fields map[string]any
}

// Entity is the closed set of values Construct can return.
type Entity interface {
	Kind() Kind
}

// CurriculumItem is a Chapter, Lecture or Quiz.
type CurriculumItem interface {
	Entity
	ItemTitle() string
	curriculumItem()
}

func (Course) Kind() Kind        { return KindCourse }
func (CourseReview) Kind() Kind  { return KindCourseReview }
func (Lecture) Kind() Kind       { return KindLecture }
func (Chapter) Kind() Kind       { return KindChapter }
func (Quiz) Kind() Kind          { return KindQuiz }
func (UnknownEntity) Kind() Kind { return KindUnknown }

func (c Chapter) ItemTitle() string { return c.Title }
func (l Lecture) ItemTitle() string { return l.Title }
func (q Quiz) ItemTitle() string    { return q.Title }

func (Chapter) curriculumItem() {}
func (Lecture) curriculumItem() {}
func (Quiz) curriculumItem()    {}
