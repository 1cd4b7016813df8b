package models

// UserRef is the populated form of a user reference.
type UserRef struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email,omitempty"`
	Role  UserRole `json:"role,omitempty"`
}

// DepartmentRef is the populated form of a department reference.
type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// CourseRef is the populated form of a course reference.
type CourseRef struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}
