package courses

import (
	"academy/internal/model"
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type failingTransport struct{}

func (failingTransport) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func courseAPI(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/courses/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestService(baseURL string, opts ...Option) (*Service, *test.Hook) {
	logger, hook := test.NewNullLogger()
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewService(Config{BaseURL: baseURL}, opts...), hook
}

func TestFetchCoursesSingleRecord(t *testing.T) {
	srv, calls := courseAPI(t, http.StatusOK, `{"status":200,"data":[{"id":1,"name":"Algebra","fee":100}]}`)
	svc, hook := newTestService(srv.URL)

	svc.FetchCourses(context.Background())

	assert.Equal(t, []model.Course{{ID: 1, Name: "Algebra", Fee: 100, Checked: false}}, svc.Courses())
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Empty(t, hook.AllEntries())
}

func TestFetchCoursesPreservesOrderAndClearsChecked(t *testing.T) {
	srv, _ := courseAPI(t, http.StatusOK, `{"data":[
		{"id":3,"name":"Physics","fee":80,"checked":true},
		{"id":1,"name":"Algebra","fee":100},
		{"id":2,"name":"Chemistry","fee":90,"checked":true}
	]}`)
	svc, _ := newTestService(srv.URL)

	svc.FetchCourses(context.Background())

	got := svc.Courses()
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{got[0].ID, got[1].ID, got[2].ID})
	for _, course := range got {
		assert.False(t, course.Checked, "course %d should not be checked", course.ID)
	}
}

func TestFetchCoursesAppendsOnEveryCall(t *testing.T) {
	first, _ := courseAPI(t, http.StatusOK, `{"data":[{"id":1,"name":"Algebra","fee":100},{"id":2,"name":"Chemistry","fee":90}]}`)
	second, _ := courseAPI(t, http.StatusOK, `{"data":[{"id":1,"name":"Algebra","fee":100}]}`)

	svc, _ := newTestService(first.URL)
	svc.FetchCourses(context.Background())

	svc.baseURL = second.URL
	svc.FetchCourses(context.Background())

	got := svc.Courses()
	assert.Len(t, got, 3)
	assert.Equal(t, got[0], got[2], "duplicates are kept")
}

func TestFetchCoursesMissingData(t *testing.T) {
	srv, _ := courseAPI(t, http.StatusOK, `{"status":200,"courses":[{"id":1}]}`)
	svc, hook := newTestService(srv.URL)

	assert.Len(t, svc.Courses(), 0)
	svc.FetchCourses(context.Background())

	assert.Len(t, svc.Courses(), 0)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.ErrorIs(t, hook.LastEntry().Data[logrus.ErrorKey].(error), ErrRequestFailed)
}

func TestFetchCoursesNetworkError(t *testing.T) {
	svc, hook := newTestService("http://courses.invalid", WithHTTPClient(failingTransport{}))

	svc.FetchCourses(context.Background())

	assert.Empty(t, svc.Courses())
	assert.Len(t, hook.AllEntries(), 1)
}

func TestFetchCoursesFailureKeepsPreviousCourses(t *testing.T) {
	good, _ := courseAPI(t, http.StatusOK, `{"data":[{"id":1,"name":"Algebra","fee":100}]}`)
	bad, _ := courseAPI(t, http.StatusInternalServerError, `{"status":500,"error":"boom"}`)

	svc, hook := newTestService(good.URL)
	svc.FetchCourses(context.Background())

	svc.baseURL = bad.URL
	svc.FetchCourses(context.Background())

	assert.Len(t, svc.Courses(), 1)
	assert.Len(t, hook.AllEntries(), 1)
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"status":500,"error":"database unavailable"}`},
		{name: "not found", status: http.StatusNotFound, body: `not found`},
		{name: "not json", status: http.StatusOK, body: `<html></html>`},
		{name: "missing data", status: http.StatusOK, body: `{"status":200}`},
		{name: "null data", status: http.StatusOK, body: `{"data":null}`},
		{name: "data not a list", status: http.StatusOK, body: `{"data":{"id":1}}`},
		{name: "wrong field type", status: http.StatusOK, body: `{"data":[{"id":"one","name":"Algebra","fee":100}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := courseAPI(t, tt.status, tt.body)
			svc, hook := newTestService(srv.URL)

			courses, err := svc.Fetch(context.Background())

			assert.Nil(t, courses)
			assert.ErrorIs(t, err, ErrRequestFailed)
			assert.Empty(t, hook.AllEntries(), "Fetch reports through its result, not the log")
		})
	}
}

func TestFetchReportsStatusAndMessage(t *testing.T) {
	srv, _ := courseAPI(t, http.StatusInternalServerError, `{"status":500,"error":"database unavailable"}`)
	svc, _ := newTestService(srv.URL)

	_, err := svc.Fetch(context.Background())

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.Status)
	assert.Equal(t, "database unavailable", fetchErr.Message)
	assert.Equal(t, srv.URL+"/courses/", fetchErr.URL)
}

func TestFetchDoesNotAccumulate(t *testing.T) {
	srv, _ := courseAPI(t, http.StatusOK, `{"data":[{"id":1,"name":"Algebra","fee":100}]}`)
	svc, _ := newTestService(srv.URL)

	courses, err := svc.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Empty(t, svc.Courses())
}

func TestFetchTrimsTrailingSlash(t *testing.T) {
	srv, calls := courseAPI(t, http.StatusOK, `{"data":[]}`)
	svc, hook := newTestService(srv.URL + "/")

	svc.FetchCourses(context.Background())

	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Empty(t, hook.AllEntries())
	assert.Empty(t, svc.Courses())
}

func TestConcurrentFetchesKeepResponsesContiguous(t *testing.T) {
	srv, _ := courseAPI(t, http.StatusOK, `{"data":[{"id":1,"name":"Algebra","fee":100},{"id":2,"name":"Chemistry","fee":90}]}`)
	svc, _ := newTestService(srv.URL)

	const fetches = 8
	done := make(chan struct{})
	for i := 0; i < fetches; i++ {
		go func() {
			svc.FetchCourses(context.Background())
			done <- struct{}{}
		}()
	}
	for i := 0; i < fetches; i++ {
		<-done
	}

	got := svc.Courses()
	require.Len(t, got, 2*fetches)
	for i := 0; i < len(got); i += 2 {
		assert.Equal(t, 1, got[i].ID)
		assert.Equal(t, 2, got[i+1].ID)
	}
}

func TestSelectionUntouchedByFetch(t *testing.T) {
	srv, _ := courseAPI(t, http.StatusOK, `{"data":[{"id":1,"name":"Algebra","fee":100}]}`)
	svc, _ := newTestService(srv.URL)

	for i := 0; i < 3; i++ {
		svc.FetchCourses(context.Background())
	}

	assert.Len(t, svc.Courses(), 3)
	assert.Len(t, svc.Selected(), 0)
}

func TestCoursesReturnsCopy(t *testing.T) {
	srv, _ := courseAPI(t, http.StatusOK, `{"data":[{"id":1,"name":"Algebra","fee":100}]}`)
	svc, _ := newTestService(srv.URL)
	svc.FetchCourses(context.Background())

	got := svc.Courses()
	got[0].Name = "changed"

	assert.Equal(t, "Algebra", svc.Courses()[0].Name)
}
