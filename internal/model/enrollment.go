package model

import "fmt"

type Enrollment struct {
	ID      string  `json:"id"`
	Student Student `json:"student"`
	Course  Course  `json:"course"`
}

// EnrollmentSummary is the per-student view returned by the enrollments listing.
type EnrollmentSummary struct {
	Student    Student `json:"student"`
	CourseName string  `json:"courseName"`
	Fee        float64 `json:"fee"`
}

// EnrollmentID builds the composite key identifying a student's enrollment in a course.
func EnrollmentID(studentID string, courseID int) string {
	return fmt.Sprintf("%s-%d", studentID, courseID)
}
