package courses

import "time"

const (
	coursesPath     = "/courses/"
	enrollmentsPath = "/enrollments/"
)

// Config locates the course API. The tags let commands embed it in their own
// configuration and parse it with conf.
type Config struct {
	BaseURL string        `conf:"default:http://localhost:8081,env:COURSES_URL"`
	Timeout time.Duration `conf:"default:10s,env:COURSES_TIMEOUT"`
}
