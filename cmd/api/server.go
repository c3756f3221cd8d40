package main

import (
	"academy/internal/database"
	"academy/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strconv"
)

type Server struct {
	port int
	db   database.Client
	http *http.Server
}

const address = "0.0.0.0"

func NewServer(port int, db database.Client) *Server {
	s := &Server{
		port: port,
		db:   db,
	}

	s.http = &http.Server{
		Addr:    fmt.Sprintf("%v:%v", address, port),
		Handler: s.routes(),
	}

	return s
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/courses/", s.getCourses).Methods("GET")
	router.HandleFunc("/courses", s.getCourses).Methods("GET")
	router.HandleFunc("/courses/{courseId:[0-9]+}", s.getCourse).Methods("GET")

	router.HandleFunc("/enrollments/", s.postEnrollment).Methods("POST")
	router.HandleFunc("/enrollments/", s.getEnrollments).Methods("GET")
	router.HandleFunc("/enrollments/{enrollmentId}", s.getEnrollment).Methods("GET")
	router.HandleFunc("/enrollments/{studentId}/", s.getEnrollmentsByStudentID).Methods("GET")

	router.Use(logRequest)

	return router
}

func (s *Server) Run() error {
	log.Printf("listening requests at %v:%v", address, s.port)

	return s.http.ListenAndServe()
}

// Shutdown stops accepting requests and waits for open ones to finish. A
// server shut down before Run never starts listening.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithField("method", r.Method).Info(r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func writeResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	response := HTTPResponse{
		Status: status,
		Path:   r.URL.Path,
		Data:   data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("encoding response for %v: %v", r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	log.WithField("status", status).Infof("%v: %v", r.URL.Path, message)

	response := HTTPResponse{
		Status: status,
		Path:   r.URL.Path,
		Error:  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("encoding error response for %v: %v", r.URL.Path, err)
	}
}

func (s *Server) getCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.db.GetCourses()
	if err != nil {
		log.Errorf("listing courses: %v", err)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(w, r, http.StatusOK, courses)
}

func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["courseId"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid Course ID")
		return
	}

	course, err := s.db.GetCourseByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Course Not Found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(w, r, http.StatusOK, course)
}

// postEnrollment registers a student to a list of courses. A course listed
// twice is enrolled once. The rows are written in one transaction, so a
// rejected request stores nothing.
func (s *Server) postEnrollment(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeError(w, r, http.StatusBadRequest, "Missing studentId")
		return
	}

	var request []model.CourseRef
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	student, err := s.db.GetStudentByID(studentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Student Not Found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	seen := make(map[int]bool)
	courses := make([]model.Course, 0, len(request))
	for _, ref := range request {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true

		course, err := s.db.GetCourseByID(ref.ID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				writeError(w, r, http.StatusNotFound, "Invalid Course in Request")
				return
			}
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}

		_, err = s.db.GetEnrollment(model.EnrollmentID(studentID, course.ID))
		if err == nil {
			writeError(w, r, http.StatusConflict, "Already Registred to : "+course.Name)
			return
		}
		if !errors.Is(err, database.ErrNotFound) {
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}

		courses = append(courses, course)
	}

	enrollments, err := s.db.CreateEnrollments(student, courses)
	if err != nil {
		// Another request enrolled the student between the check and the insert.
		var dup *database.DuplicateEnrollmentError
		if errors.As(err, &dup) {
			writeError(w, r, http.StatusConflict, "Already Registred to : "+dup.Course.Name)
			return
		}
		log.Errorf("creating enrollments: %v", err)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(w, r, http.StatusCreated, enrollments)
}

func (s *Server) getEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := s.db.GetEnrollments()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(w, r, http.StatusOK, enrollments)
}

func (s *Server) getEnrollment(w http.ResponseWriter, r *http.Request) {
	enrollment, err := s.db.GetEnrollment(mux.Vars(r)["enrollmentId"])
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Enrollment Record not Found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(w, r, http.StatusOK, enrollment)
}

func (s *Server) getEnrollmentsByStudentID(w http.ResponseWriter, r *http.Request) {
	student, err := s.db.GetStudentByID(mux.Vars(r)["studentId"])
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Student Not Found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	enrollments, err := s.db.GetEnrollmentsByStudentID(student.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]model.EnrollmentSummary, 0, len(enrollments))
	for _, enrollment := range enrollments {
		summaries = append(summaries, model.EnrollmentSummary{
			Student:    student,
			CourseName: enrollment.Course.Name,
			Fee:        enrollment.Course.Fee,
		})
	}

	writeResponse(w, r, http.StatusOK, summaries)
}
