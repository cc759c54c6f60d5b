package udemy

// classKey is the discriminator Udemy puts on every object it returns.
const classKey = "_class"

// Kind identifies which entity shape an entry carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindCourse
	KindCourseReview
	KindLecture
	KindChapter
	KindQuiz
)

// ParseKind maps a wire discriminator to its Kind. Anything unrecognised is
// KindUnknown.
func ParseKind(tag string) Kind {
	switch tag {
	case "course":
		return KindCourse
	case "course_review":
		return KindCourseReview
	case "lecture":
		return KindLecture
	case "chapter":
		return KindChapter
	case "quiz":
		return KindQuiz
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindCourse:
		return "course"
	case KindCourseReview:
		return "course_review"
	case KindLecture:
		return "lecture"
	case KindChapter:
		return "chapter"
	case KindQuiz:
		return "quiz"
	default:
		return "unknown"
	}
}

// hasNestedFields reports whether entries of this kind go through nested
// field conversion. Chapters and quizzes are flat.
func (k Kind) hasNestedFields() bool {
	return k == KindCourse || k == KindCourseReview || k == KindLecture
}

func (k Kind) isCurriculum() bool {
	return k == KindChapter || k == KindQuiz || k == KindLecture
}
