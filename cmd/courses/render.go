package main

import (
	"academy/internal/model"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"strings"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func renderCourses(courses []model.Course) string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Courses (%d)", len(courses)))}

	if len(courses) == 0 {
		lines = append(lines, mutedStyle.Render("no courses"))
	}

	for _, course := range courses {
		line := fmt.Sprintf("%s %3d  %-24s %8.2f", boxUnchecked, course.ID, course.Name, course.Fee)
		if course.Checked {
			line = checkedStyle.Render(fmt.Sprintf("%s %3d  %-24s %8.2f", boxChecked, course.ID, course.Name, course.Fee))
		}
		lines = append(lines, line)
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	return border.Render(strings.Join(lines, "\n"))
}

func renderEnrollments(enrollments []model.Enrollment) string {
	lines := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		lines = append(lines, checkedStyle.Render(fmt.Sprintf("✔ %s enrolled to %s", e.Student.Name, e.Course.Name)))
	}
	return strings.Join(lines, "\n")
}

func renderError(msg string) string {
	return errorStyle.Render("✖ " + msg)
}
