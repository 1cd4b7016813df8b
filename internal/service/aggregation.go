package service

import (
	"strconv"

	"github.com/noah-isme/college-erp-api/internal/models"
)

// AttendancePercentage returns present/total as a two decimal percentage. Late and absent
// records count toward the total only.
func AttendancePercentage(records []models.Attendance) (percentage string, total, present int) {
	total = len(records)
	for _, r := range records {
		if r.Status == models.AttendancePresent {
			present++
		}
	}
	if total == 0 {
		return formatTwoDecimals(0), 0, 0
	}
	return formatTwoDecimals(float64(present) / float64(total) * 100), total, present
}

// CGPA weights each grade point by the credits of its course. Marks whose course is not in
// courses contribute nothing.
func CGPA(marks []models.Marks, courses map[string]models.Course) string {
	var points, credits float64
	for _, m := range marks {
		course, ok := courses[m.CourseID]
		if !ok {
			continue
		}
		points += m.Grade.Points() * float64(course.Credits)
		credits += float64(course.Credits)
	}
	if credits == 0 {
		return formatTwoDecimals(0)
	}
	return formatTwoDecimals(points / credits)
}

func formatTwoDecimals(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
