package models

import "time"

// ApprovalStatus редакционный статус курса, не связан с мягким удалением.
type ApprovalStatus string

const (
	CoursePending  ApprovalStatus = "Pending"
	CourseApproved ApprovalStatus = "Approved"
	CourseDeclined ApprovalStatus = "Declined"
)

// Valid проверяет, что статус входит в допустимый набор.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case CoursePending, CourseApproved, CourseDeclined:
		return true
	}
	return false
}

// Course курс с упорядоченным списком вложенных лекций.
type Course struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Thumbnail         Media          `json:"thumbnail"`
	Lectures          []Lecture      `json:"lectures,omitempty"`
	NumbersOfLectures int            `json:"numbersOfLectures"`
	CreatedBy         string         `json:"createdBy"`
	Status            ApprovalStatus `json:"status"`
	IsActive          bool           `json:"isActive"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// Lecture существует только внутри списка лекций своего курса.
type Lecture struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Lecture     Media  `json:"lecture"`
}
