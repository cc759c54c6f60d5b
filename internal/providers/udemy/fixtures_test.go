package udemy

// Fresh payloads per call so tests can never leak mutations into each other.
// Shapes follow live affiliate API responses.

func userRaw() map[string]any {
	return map[string]any{
		"_class":       "user",
		"title":        "Jose Portilla",
		"name":         "Jose",
		"display_name": "Jose Portilla",
	}
}

func instructorRaw() map[string]any {
	return map[string]any{
		"_class":        "user",
		"title":         "Jose Portilla",
		"name":          "Jose",
		"display_name":  "Jose Portilla",
		"job_title":     "Head of Data Science at Pierian Training",
		"image_50x50":   "https://img-c.udemycdn.com/user/50x50/9685726_67e7_4.jpg",
		"image_100x100": "https://img-c.udemycdn.com/user/100x100/9685726_67e7_4.jpg",
		"initials":      "JP",
		"url":           "/user/joseportilla/",
	}
}

func localeRaw() map[string]any {
	return map[string]any{
		"_class":               "locale",
		"locale":               "en_US",
		"title":                "English (US)",
		"english_title":        "English (US)",
		"simple_english_title": "English",
	}
}

func courseRaw() map[string]any {
	return map[string]any{
		"_class":                  "course",
		"id":                      567828,
		"title":                   "The Complete Python Bootcamp From Zero to Hero in Python",
		"url":                     "/course/complete-python-bootcamp/",
		"is_paid":                 true,
		"price":                   "$84.99",
		"price_detail":            map[string]any{"amount": 84.99, "currency": "USD", "price_string": "$84.99", "currency_symbol": "$"},
		"price_serve_tracking_id": "ZTh0SzZ3Q2KOr4Hb",
		"visible_instructors":     []any{instructorRaw()},
		"image_125_H":             "https://img-c.udemycdn.com/course/125_H/567828_67d0.jpg",
		"image_240x135":           "https://img-c.udemycdn.com/course/240x135/567828_67d0.jpg",
		"is_practice_test_course": false,
		"image_480x270":           "https://img-c.udemycdn.com/course/480x270/567828_67d0.jpg",
		"published_title":         "complete-python-bootcamp",
		"tracking_id":             "tvb0Gd1tTJyk",
		"locale":                  localeRaw(),
		"predictive_score":        nil,
		"relevancy_score":         nil,
		"input_features":          nil,
		"lecture_search_result":   nil,
		"curriculum_lectures":     []any{},
		"order_in_results":        nil,
		"curriculum_items":        []any{},
		"headline":                "Learn Python like a Professional  Start from the basics and go all the way to creating your own applications and games",
		"instructor_name":         nil,
	}
}

func reviewRaw() map[string]any {
	return map[string]any{
		"_class":        "course_review",
		"id":            67265214,
		"content":       "Clear explanations and good pacing.",
		"rating":        4.5,
		"created":       "2020-11-09T15:54:24-08:00",
		"modified":      "2020-11-10T01:02:03-08:00",
		"user_modified": "2020-11-09T15:54:24-08:00",
		"user":          userRaw(),
	}
}

func assetRaw() map[string]any {
	return map[string]any{
		"_class":     "asset",
		"id":         21498642,
		"asset_type": "Video",
		"title":      "Intro.mp4",
		"created":    "2019-07-30T21:52:07Z",
	}
}

func lectureRaw() map[string]any {
	return map[string]any{
		"_class":           "lecture",
		"id":               14806588,
		"title":            "Course Introduction",
		"created":          "2019-07-30T21:52:07.123456789+02:00",
		"description":      "Overview of the course.",
		"title_cleaned":    "course-introduction",
		"is_published":     true,
		"transcript":       "",
		"is_downloadable":  false,
		"is_free":          true,
		"asset":            assetRaw(),
		"sort_order":       12,
		"can_be_previewed": true,
	}
}

func chapterRaw() map[string]any {
	return map[string]any{
		"_class":       "chapter",
		"id":           3437374,
		"created":      "2019-07-30T21:50:00Z",
		"sort_order":   13,
		"title":        "Course Overview",
		"description":  "",
		"is_published": true,
	}
}

func quizRaw() map[string]any {
	return map[string]any{
		"_class":        "quiz",
		"id":            4811066,
		"title":         "Python Objects and Data Structures Assessment",
		"type":          "coding-exercise",
		"created":       "2020-01-02T03:04:05Z",
		"description":   "",
		"title_cleaned": "python-objects-and-data-structures-assessment",
		"is_published":  true,
		"sort_order":    5,
		"object_index":  1,
		"is_draft":      false,
		"version":       1,
		"duration":      0,
		"pass_percent":  0,
	}
}

func practiceTestRaw() map[string]any {
	return map[string]any{
		"_class":     "practice_test",
		"id":         1,
		"title":      "Practice Exam 1",
		"sort_order": 20,
	}
}
