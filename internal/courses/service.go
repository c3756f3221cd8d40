package courses

import (
	"academy/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"strings"
	"sync"
)

// HTTPClient is the transport the service issues its requests through.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Service)

func WithHTTPClient(client HTTPClient) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithLogger sets the sink failed fetches are reported to.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

// Service fetches the course catalogue and keeps the accumulated courses and
// the user's selection in memory. All collection access goes through mu; the
// network round trip happens outside of it.
type Service struct {
	baseURL string
	client  HTTPClient
	log     logrus.FieldLogger

	mu         sync.Mutex
	allCourses []model.Course
	selected   []model.Course
}

func NewService(cfg Config, opts ...Option) *Service {
	s := &Service{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: cfg.Timeout},
		log:        logrus.StandardLogger(),
		allCourses: []model.Course{},
		selected:   []model.Course{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// envelope is the wrapper every course API response comes in.
type envelope struct {
	Status int             `json:"status"`
	Path   string          `json:"path"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// FetchCourses retrieves the catalogue and appends every course to the
// accumulated collection with its checked flag cleared. Failures are logged
// and leave the collection untouched; they never reach the caller.
func (s *Service) FetchCourses(ctx context.Context) {
	courses, err := s.Fetch(ctx)
	if err != nil {
		s.log.WithError(err).Error("There was an error during the request")
		return
	}

	s.mu.Lock()
	s.allCourses = append(s.allCourses, courses...)
	s.mu.Unlock()
}

// Fetch performs a single catalogue request and returns the courses with
// their checked flag cleared, without touching the accumulated collection.
func (s *Service) Fetch(ctx context.Context) ([]model.Course, error) {
	url := s.baseURL + coursesPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Op: "GET", URL: url, Err: fmt.Errorf("building request: %w", err)}
	}

	env, err := s.do(req)
	if err != nil {
		return nil, err
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &FetchError{Op: "GET", URL: url, Err: errors.New("response has no data field")}
	}

	var courses []model.Course
	if err := json.Unmarshal(env.Data, &courses); err != nil {
		return nil, &FetchError{Op: "GET", URL: url, Err: fmt.Errorf("decoding courses: %w", err)}
	}

	for i := range courses {
		courses[i].Checked = false
	}

	return courses, nil
}

// do sends req and decodes the response envelope, turning transport errors,
// non-2xx statuses and undecodable bodies into a *FetchError.
func (s *Service) do(req *http.Request) (envelope, error) {
	url := req.URL.String()

	resp, err := s.client.Do(req)
	if err != nil {
		return envelope{}, &FetchError{Op: req.Method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, &FetchError{Op: req.Method, URL: url, Status: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return envelope{}, &FetchError{Op: req.Method, URL: url, Status: resp.StatusCode, Message: env.Error}
	}

	if decodeErr != nil {
		return envelope{}, &FetchError{Op: req.Method, URL: url, Status: resp.StatusCode, Err: fmt.Errorf("decoding body: %w", decodeErr)}
	}

	return env, nil
}

// Courses returns a copy of the accumulated courses in arrival order.
func (s *Service) Courses() []model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Course{}, s.allCourses...)
}

// Selected returns a copy of the selected courses.
func (s *Service) Selected() []model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Course{}, s.selected...)
}

// SetChecked marks every accumulated course with the given id as checked or
// unchecked and rebuilds the selection from the checked courses.
func (s *Service) SetChecked(id int, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.allCourses {
		if s.allCourses[i].ID == id {
			s.allCourses[i].Checked = checked
			found = true
		}
	}

	if !found {
		return fmt.Errorf("checking course %d: %w", id, ErrCourseNotFound)
	}

	s.rebuildSelection()
	return nil
}

func (s *Service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.allCourses {
		s.allCourses[i].Checked = false
	}
	s.selected = []model.Course{}
}

// rebuildSelection must be called with mu held. Duplicated courses are
// selected once.
func (s *Service) rebuildSelection() {
	seen := make(map[int]bool)
	selected := []model.Course{}

	for _, course := range s.allCourses {
		if !course.Checked || seen[course.ID] {
			continue
		}
		seen[course.ID] = true
		selected = append(selected, course)
	}

	s.selected = selected
}
