package udemy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udemy-affiliate/internal/httpx"
)

func fastRetry() httpx.RetryConfig {
	cfg := httpx.DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func newTestClient(t *testing.T, h http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL + "/api-2.0/"), WithRetry(fastRetry())}, opts...)
	c, err := New("id", "secret", opts...)
	require.NoError(t, err)
	return c, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func list(next string, entries ...map[string]any) map[string]any {
	results := make([]any, len(entries))
	for i, e := range entries {
		results[i] = e
	}
	out := map[string]any{"count": 42, "previous": nil, "results": results}
	if next != "" {
		out["next"] = next
	} else {
		out["next"] = nil
	}
	return out
}

func TestNew(t *testing.T) {
	_, err := New("", "secret")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = New("id", "  ")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = New("id", "secret", WithBaseURL("not a url"))
	assert.Error(t, err)
	_, err = New("id", "secret", WithBaseURL("/relative/"))
	assert.Error(t, err)

	c, err := New("id", "secret")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)

	c, err = New("id", "secret", WithBaseURL("https://example.com/api"), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/", c.BaseURL())
	assert.Equal(t, time.Second, c.http.Timeout)

	custom := &http.Client{}
	c, err = New("id", "secret", WithHTTPClient(custom), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Same(t, custom, c.http)
	assert.Zero(t, custom.Timeout)
}

func TestSetCredentials(t *testing.T) {
	var gotUser, gotPass string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		writeJSON(w, list(""))
	}))

	assert.ErrorIs(t, c.SetCredentials("new", ""), ErrMissingCredentials)
	assert.Equal(t, "id", c.ClientID())

	require.NoError(t, c.SetCredentials("new", "pass"))
	assert.Equal(t, "new", c.ClientID())

	_, err := c.GetCourses(context.Background(), CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, "new", gotUser)
	assert.Equal(t, "pass", gotPass)
}

func TestGetCoursesRequest(t *testing.T) {
	var logs bytes.Buffer
	var got *http.Request

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		writeJSON(w, list("", courseRaw(), courseRaw()))
	}), WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))

	courses, err := c.GetCourses(context.Background(), CourseFilter{
		Search:   Ptr("go"),
		PageSize: Ptr(2),
		Category: Ptr(NewCourseCategory("Development")),
	})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, int64(567828), courses[0].ID)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api-2.0/courses/", got.URL.Path)
	assert.Equal(t, "go", got.URL.Query().Get("search"))
	assert.Equal(t, "2", got.URL.Query().Get("page_size"))
	assert.Equal(t, "Development", got.URL.Query().Get("category"))

	user, pass, ok := got.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "id", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, httpx.AcceptEncoding, got.Header.Get("Accept-Encoding"))

	reqID := got.Header.Get("X-Request-Id")
	require.NotEmpty(t, reqID)
	assert.Contains(t, logs.String(), reqID)
	assert.Contains(t, logs.String(), `"op":"search courses"`)
	assert.Contains(t, logs.String(), `"message":"request done"`)
	assert.NotContains(t, logs.String(), "secret")
}

func TestGetCoursesDecodesAsCourse(t *testing.T) {
	// entries missing _class are still courses here
	entry := courseRaw()
	delete(entry, "_class")

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list("", entry))
	}))

	courses, err := c.GetCourses(context.Background(), CourseFilter{})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Len(t, courses[0].VisibleInstructors, 1)
	assert.Equal(t, "JP", courses[0].VisibleInstructors[0].Initials)
}

func TestGetCoursesFilterErrorSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, list(""))
	}))

	_, err := c.GetCourses(context.Background(), CourseFilter{Page: Ptr(101), PageSize: Ptr(100)})
	assert.ErrorIs(t, err, ErrUnsupportedFilterCombination)

	_, err = c.GetCourseReviews(context.Background(), 1, ReviewFilter{PageSize: Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = c.GetCoursePublicCurriculum(context.Background(), 1, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	assert.Zero(t, calls.Load())
}

func TestSearchAllCourses(t *testing.T) {
	var srvURL string
	var calls atomic.Int32
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("page") {
		case "":
			writeJSON(w, list(srvURL+"/api-2.0/courses/?page=2", courseRaw()))
		case "2":
			writeJSON(w, list(srvURL+"/api-2.0/courses/?page=3", courseRaw(), courseRaw()))
		default:
			writeJSON(w, list("", courseRaw()))
		}
	}))
	srvURL = srv.URL

	courses, err := c.SearchAllCourses(context.Background(), CourseFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, courses, 4)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	courses, err = c.SearchAllCourses(context.Background(), CourseFilter{}, 2)
	require.NoError(t, err)
	assert.Len(t, courses, 3)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchAllCoursesDropsPartialResults(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		writeJSON(w, list(srvURL+"/api-2.0/courses/?page=2", courseRaw()))
	}))
	srvURL = srv.URL

	courses, err := c.SearchAllCourses(context.Background(), CourseFilter{}, 0)
	assert.Nil(t, courses)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSearchAllCoursesStopsAtResultWindow(t *testing.T) {
	cases := []struct {
		name      string
		filter    CourseFilter
		wantCalls int32
	}{
		{"late start page", CourseFilter{Page: Ptr(98), PageSize: Ptr(100)}, 3},
		{"large pages", CourseFilter{PageSize: Ptr(100)}, 100},
		{"default page size", CourseFilter{Page: Ptr(996)}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			var lastPage atomic.Value
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				page := r.URL.Query().Get("page")
				lastPage.Store(page)
				n, _ := strconv.Atoi(page)
				if n == 0 {
					n = 1
				}
				// the cursor never runs out
				writeJSON(w, list("courses/?page="+strconv.Itoa(n+1), courseRaw()))
			}))

			courses, err := c.SearchAllCourses(context.Background(), tc.filter, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.wantCalls, calls.Load())
			assert.Len(t, courses, int(tc.wantCalls))

			last, _ := strconv.Atoi(lastPage.Load().(string))
			size := defaultPageSize
			if tc.filter.PageSize != nil {
				size = *tc.filter.PageSize
			}
			assert.LessOrEqual(t, last*size, maxResultWindow)
		})
	}
}

func TestSearchAllCoursesResolvesRelativeNext(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, list("", courseRaw()))
			return
		}
		writeJSON(w, list("/api-2.0/courses/?page=2&search=go", courseRaw()))
	}))

	courses, err := c.SearchAllCourses(context.Background(), CourseFilter{Search: Ptr("go")}, 0)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.Equal(t, []string{"/api-2.0/courses/?search=go", "/api-2.0/courses/?page=2&search=go"}, paths)
}

func TestSearchAllCoursesRefusesForeignNext(t *testing.T) {
	var foreignCalls atomic.Int32
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignCalls.Add(1)
		writeJSON(w, list("", courseRaw()))
	}))
	t.Cleanup(foreign.Close)

	var srvURL string
	var next string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list(next, courseRaw()))
	}))
	srvURL = srv.URL

	for _, link := range []string{
		foreign.URL + "/api-2.0/courses/?page=2",
		"https" + strings.TrimPrefix(srvURL, "http") + "/api-2.0/courses/?page=2",
		"//evil.test/api-2.0/courses/?page=2",
	} {
		next = link
		courses, err := c.SearchAllCourses(context.Background(), CourseFilter{}, 0)
		assert.Nil(t, courses, "next %q", link)
		assert.ErrorIs(t, err, ErrMalformedResponse, "next %q", link)
	}
	assert.Zero(t, foreignCalls.Load())
}

func TestGetCourseDetails(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api-2.0/courses/567828/", r.URL.Path)
		writeJSON(w, courseRaw())
	}))

	course, err := c.GetCourseDetails(context.Background(), 567828)
	require.NoError(t, err)
	assert.Equal(t, "complete-python-bootcamp", course.PublishedTitle)
	require.NotNil(t, course.Headline)
}

func TestGetCourseDetailsWrongCount(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list("", courseRaw(), courseRaw()))
	}))

	_, err := c.GetCourseDetails(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGetCourseDetailsSchemaMismatch(t *testing.T) {
	raw := courseRaw()
	delete(raw, "url")
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, raw)
	}))

	_, err := c.GetCourseDetails(context.Background(), 1)
	var serr *SchemaMismatchError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "course", serr.Entity)
	assert.Equal(t, "url", serr.Field)
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestGetCourseReviews(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api-2.0/courses/7/reviews/", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("rating"))
		writeJSON(w, list("", reviewRaw(), reviewRaw()))
	}))

	reviews, err := c.GetCourseReviews(context.Background(), 7, ReviewFilter{Rating: Ptr("5")})
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Jose Portilla", reviews[0].User.DisplayName)
}

func TestGetCoursePublicCurriculum(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api-2.0/courses/7/public-curriculum-items/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("page_size"))
		writeJSON(w, list("", chapterRaw(), lectureRaw(), practiceTestRaw(), quizRaw()))
	}))

	items, err := c.GetCoursePublicCurriculum(context.Background(), 7, 2, 25)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, KindChapter, items[0].Kind())
	assert.Equal(t, KindLecture, items[1].Kind())
	assert.Equal(t, KindQuiz, items[2].Kind())
}

func TestClientMalformedBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>maintenance</html>"},
		{"trailing data", `{"id": 1} {"id": 2}`},
		{"top level list", `[{"id": 1}]`},
		{"results not a list", `{"results": "nope"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))

			_, err := c.GetCourses(context.Background(), CourseFilter{})
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.False(t, errors.Is(err, ErrTransport))
		})
	}
}

func TestClientHTTPError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
	}))

	_, err := c.GetCourseDetails(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, errors.Is(err, ErrMalformedResponse))

	var herr *httpx.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusNotFound, herr.StatusCode)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "course details", terr.Op)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientRetriesUnavailable(t *testing.T) {
	var logs bytes.Buffer
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, courseRaw())
	}), WithLogger(zerolog.New(&logs)))

	_, err := c.GetCourseDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Contains(t, logs.String(), `"message":"retrying request"`)
	assert.Contains(t, logs.String(), `"attempt":1`)
}

func TestClientBrotliBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.Header.Get("Accept-Encoding"), "br"))
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		_ = json.NewEncoder(bw).Encode(courseRaw())
		_ = bw.Close()
	}))

	course, err := c.GetCourseDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(567828), course.ID)
}

func TestClientCancelledContext(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, courseRaw())
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetCourseDetails(ctx, 1)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientRateLimit(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, courseRaw())
	}), WithRateLimit(20))

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.GetCourseDetails(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
