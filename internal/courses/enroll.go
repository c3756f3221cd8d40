package courses

import (
	"academy/internal/model"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Enroll registers the student to every selected course.
func (s *Service) Enroll(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	selected := s.Selected()
	if len(selected) == 0 {
		return nil, ErrNothingSelected
	}

	refs := make([]model.CourseRef, 0, len(selected))
	for _, course := range selected {
		refs = append(refs, model.CourseRef{ID: course.ID})
	}

	body, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("encoding enrollment request: %w", err)
	}

	endpoint := s.baseURL + enrollmentsPath + "?" + url.Values{"studentId": {studentID}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Op: http.MethodPost, URL: endpoint, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var enrollments []model.Enrollment
	if err := json.Unmarshal(env.Data, &enrollments); err != nil {
		return nil, &FetchError{Op: http.MethodPost, URL: endpoint, Status: env.Status, Err: fmt.Errorf("decoding enrollments: %w", err)}
	}

	return enrollments, nil
}
