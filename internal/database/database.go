package database

import (
	"academy/internal/model"
	"database/sql"
	"errors"
	"fmt"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// uniqueViolation is the PostgreSQL error code for a broken unique constraint.
const uniqueViolation = "23505"

// DuplicateEnrollmentError reports an enrollment the student already holds.
type DuplicateEnrollmentError struct {
	Course model.Course
}

func (e *DuplicateEnrollmentError) Error() string {
	return fmt.Sprintf("already enrolled to course %d", e.Course.ID)
}

func (e *DuplicateEnrollmentError) Is(target error) bool {
	return target == ErrAlreadyExists
}

type Client interface {
	Close()
	GetCourses() ([]model.Course, error)
	GetCourseByID(id int) (model.Course, error)
	GetStudentByID(id string) (model.Student, error)
	GetEnrollment(id string) (model.Enrollment, error)
	GetEnrollments() ([]model.Enrollment, error)
	GetEnrollmentsByStudentID(studentID string) ([]model.Enrollment, error)
	CreateEnrollments(student model.Student, courses []model.Course) ([]model.Enrollment, error)
}

type client struct {
	db *sql.DB
}

func NewClient(connStr string) (Client, error) {
	db, err := sql.Open("postgres", connStr)

	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &client{db: db}, nil
}

func (c *client) Close() {
	err := c.db.Close()
	if err != nil {
		log.Errorf("closing database: %v", err)
	}
}

func (c *client) GetCourses() ([]model.Course, error) {
	rows, err := c.db.Query("SELECT id, name, fee FROM courses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(&course.ID, &course.Name, &course.Fee); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

func (c *client) GetCourseByID(id int) (model.Course, error) {
	query := `SELECT id, name, fee FROM courses WHERE id = $1`
	var course model.Course
	err := c.db.QueryRow(query, id).Scan(&course.ID, &course.Name, &course.Fee)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Course{}, fmt.Errorf("no course found with id %v: %w", id, ErrNotFound)
		}
		return model.Course{}, fmt.Errorf("querying for course by id: %w", err)
	}

	return course, nil
}

func (c *client) GetStudentByID(id string) (model.Student, error) {
	query := `SELECT id, name, email FROM students WHERE id = $1`
	var student model.Student
	err := c.db.QueryRow(query, id).Scan(&student.ID, &student.Name, &student.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Student{}, fmt.Errorf("no student found with id %s: %w", id, ErrNotFound)
		}
		return model.Student{}, fmt.Errorf("querying for student by id: %w", err)
	}

	return student, nil
}

const enrollmentSelect = `
	SELECT e.id, s.id, s.name, s.email, c.id, c.name, c.fee
	FROM enrollments e
	JOIN students s ON s.id = e.student_id
	JOIN courses c ON c.id = e.course_id
`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEnrollment(row scanner) (model.Enrollment, error) {
	var e model.Enrollment
	err := row.Scan(&e.ID, &e.Student.ID, &e.Student.Name, &e.Student.Email, &e.Course.ID, &e.Course.Name, &e.Course.Fee)
	return e, err
}

func (c *client) GetEnrollment(id string) (model.Enrollment, error) {
	enrollment, err := scanEnrollment(c.db.QueryRow(enrollmentSelect+" WHERE e.id = $1", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Enrollment{}, fmt.Errorf("no enrollment found with id %s: %w", id, ErrNotFound)
		}
		return model.Enrollment{}, fmt.Errorf("querying for enrollment by id: %w", err)
	}

	return enrollment, nil
}

func (c *client) GetEnrollments() ([]model.Enrollment, error) {
	return c.queryEnrollments(enrollmentSelect + " ORDER BY e.id")
}

func (c *client) GetEnrollmentsByStudentID(studentID string) ([]model.Enrollment, error) {
	return c.queryEnrollments(enrollmentSelect+" WHERE e.student_id = $1 ORDER BY c.id", studentID)
}

func (c *client) queryEnrollments(query string, args ...interface{}) ([]model.Enrollment, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, rows.Err()
}

// CreateEnrollments inserts one enrollment per course in a single
// transaction. Either every row is stored or none is.
func (c *client) CreateEnrollments(student model.Student, courses []model.Course) ([]model.Enrollment, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting enrollment transaction: %w", err)
	}

	enrollments := make([]model.Enrollment, 0, len(courses))
	for _, course := range courses {
		enrollment := model.Enrollment{
			ID:      model.EnrollmentID(student.ID, course.ID),
			Student: student,
			Course:  course,
		}

		_, err := tx.Exec(
			`INSERT INTO enrollments (id, student_id, course_id) VALUES ($1, $2, $3)`,
			enrollment.ID,
			student.ID,
			course.ID,
		)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("rolling back enrollments: %v", rbErr)
			}

			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return nil, &DuplicateEnrollmentError{Course: course}
			}
			return nil, fmt.Errorf("unable to add enrollment: %w", err)
		}

		enrollments = append(enrollments, enrollment)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing enrollments: %w", err)
	}

	return enrollments, nil
}
