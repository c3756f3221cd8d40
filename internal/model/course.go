package model

type Course struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Fee     float64 `json:"fee"`
	Checked bool    `json:"checked"`
}

// CourseRef is the body element the enrollment endpoint accepts.
type CourseRef struct {
	ID int `json:"id"`
}
