package udemy

import "strings"

// CourseCategory is a top-level Udemy category. Only the titles in
// knownCategories are accepted by the course search endpoint.
type CourseCategory struct {
	SortOrder    int    `json:"sort_order"`
	Title        string `json:"title"`
	TitleCleaned string `json:"title_cleaned"`
}

// CourseSubcategory points back to its parent category.
type CourseSubcategory struct {
	Category     CourseCategory `json:"category"`
	SortOrder    int            `json:"sort_order"`
	Title        string         `json:"title"`
	TitleCleaned string         `json:"title_cleaned"`
}

func NewCourseCategory(title string) CourseCategory {
	return CourseCategory{Title: title, TitleCleaned: cleanTitle(title)}
}

func NewCourseSubcategory(category CourseCategory, title string) CourseSubcategory {
	return CourseSubcategory{Category: category, Title: title, TitleCleaned: cleanTitle(title)}
}

// Known reports whether the title is one of the published categories.
func (c CourseCategory) Known() bool { return knownCategories[c.Title] }

func (s CourseSubcategory) Known() bool { return knownSubcategories[s.Title] }

func cleanTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}

// https://www.udemy.com/developers/affiliate/models/course-category/
var knownCategories = setOf(
	"Business",
	"Design",
	"Development",
	"Finance & Accounting",
	"Health & Fitness",
	"IT & Software",
	"Lifestyle",
	"Marketing",
	"Music",
	"Office Productivity",
	"Personal Development",
	"Photography & Video",
	"Teaching & Academics",
	"Udemy Free Resource Center",
	"Vodafone",
)

// https://www.udemy.com/developers/affiliate/models/course-subcategory/
var knownSubcategories = setOf(
	"3D & Animation",
	"Accounting & Bookkeeping",
	"Affiliate Marketing",
	"Apple",
	"Architectural Design",
	"Arts & Crafts",
	"Beauty & Makeup",
	"Branding",
	"Business Analytics & Intelligence",
	"Business Law",
	"Business Strategy",
	"Career Development",
	"Commercial Photography",
	"Communication",
	"Compliance",
	"Content Marketing",
	"Creativity",
	"Cryptocurrency & Blockchain",
	"Dance",
	"Data Science",
	"Database Design & Development",
	"Design Tools",
	"Digital Marketing",
	"Digital Photography",
	"E-Commerce",
	"Economics",
	"Engineering",
	"Entrepreneurship",
	"Esoteric Practices",
	"Essential Tech Skills",
	"Fashion Design",
	"Finance",
	"Finance Cert & Exam Prep",
	"Financial Modeling & Analysis",
	"Fitness",
	"Food & Beverage",
	"Game Design",
	"Game Development",
	"Gaming",
	"General Health",
	"Google",
	"Graphic Design & Illustration",
	"Growth Hacking",
	"Happiness",
	"Hardware",
	"Home Improvement & Gardening",
	"Human Resources",
	"Humanities",
	"Industry",
	"Influence",
	"Instruments",
	"Interior Design",
	"Investing & Trading",
	"IT Certifications",
	"Language Learning",
	"Leadership",
	"Management",
	"Marketing Analytics & Automation",
	"Marketing Fundamentals",
	"Martial Arts & Self Defense",
	"Math",
	"Media",
	"Meditation",
	"Memory & Study Skills",
	"Mental Health",
	"Microsoft",
	"Mobile Development",
	"Money Management Tools",
	"Motivation",
	"Music Fundamentals",
	"Music Production",
	"Music Software",
	"Music Techniques",
	"Network & Security",
	"No-Code Development",
	"Nutrition & Diet",
	"Online Education",
	"Operating Systems & Servers",
	"Operations",
	"Oracle",
	"Other Business",
	"Other Design",
	"Other Finance & Accounting",
	"Other Health & Fitness",
	"Other IT & Software",
	"Other Lifestyle",
	"Other Marketing",
	"Other Music",
	"Other Office Productivity",
	"Other Personal Development",
	"Other Photography & Video",
	"Other Teaching & Academics",
	"Paid Advertising",
	"Parenting & Relationships",
	"Personal Brand Building",
	"Personal Growth & Wellness",
	"Personal Productivity",
	"Personal Transformation",
	"Pet Care & Training",
	"Photography",
	"Photography Tools",
	"Portrait Photography",
	"Product Marketing",
	"Productivity & Professional Skills",
	"Programming Languages",
	"Project Management",
	"Public Relations",
	"Real Estate",
	"Religion & Spirituality",
	"Safety & First Aid",
	"Sales",
	"SAP",
	"Science",
	"Search Engine Optimization",
	"Self Esteem & Confidence",
	"Social Media Marketing",
	"Social Science",
	"Software Development Tools",
	"Software Engineering",
	"Software Testing",
	"Sports",
	"Stress Management",
	"Taxes",
	"Teacher Training",
	"Test Prep",
	"Travel",
	"User Experience Design",
	"Video & Mobile Marketing",
	"Video Design",
	"Vocal",
	"Vodafone",
	"Web Design",
	"Web Development",
	"Yoga",
)

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
