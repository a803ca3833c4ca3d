package models

import "time"

// Course is an offering owned by a teacher. Optional attributes are nil when unset.
type Course struct {
	ID          int       `db:"id" json:"id"`
	TeacherID   int       `db:"teacher_id" json:"teacher_id"`
	Name        string    `db:"name" json:"name"`
	Time        time.Time `db:"posted_time" json:"time"`
	Description *string   `db:"description" json:"description"`
	Format      *string   `db:"format" json:"format"`
	Structure   *string   `db:"structure" json:"structure"`
	Duration    *int      `db:"duration" json:"duration"`
	Price       *float64  `db:"price" json:"price"`
	Language    *string   `db:"language" json:"language"`
	Level       *string   `db:"level" json:"level"`
}

// CreateCourse is the write-side shape for new courses.
type CreateCourse struct {
	TeacherID   int      `db:"teacher_id" json:"teacher_id" validate:"required,gt=0"`
	Name        string   `db:"name" json:"name" validate:"required,notblank,max=140"`
	Description *string  `db:"description" json:"description" validate:"omitempty,max=2000"`
	Format      *string  `db:"format" json:"format" validate:"omitempty,max=30"`
	Structure   *string  `db:"structure" json:"structure" validate:"omitempty,max=200"`
	Duration    *int     `db:"duration" json:"duration" validate:"omitempty,gte=0"`
	Price       *float64 `db:"price" json:"price" validate:"omitempty,gte=0"`
	Language    *string  `db:"language" json:"language" validate:"omitempty,max=30"`
	Level       *string  `db:"level" json:"level" validate:"omitempty,max=30"`
}

// UpdateCourse is a partial update; nil fields keep the stored value.
type UpdateCourse struct {
	Name        *string  `json:"name" validate:"omitnil,notblank,max=140"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Format      *string  `json:"format" validate:"omitempty,max=30"`
	Structure   *string  `json:"structure" validate:"omitempty,max=200"`
	Duration    *int     `json:"duration" validate:"omitempty,gte=0"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Language    *string  `json:"language" validate:"omitempty,max=30"`
	Level       *string  `json:"level" validate:"omitempty,max=30"`
}

// Apply returns current with every provided field replaced.
func (u UpdateCourse) Apply(current Course) Course {
	merged := current
	if u.Name != nil {
		merged.Name = *u.Name
	}
	if u.Description != nil {
		merged.Description = u.Description
	}
	if u.Format != nil {
		merged.Format = u.Format
	}
	if u.Structure != nil {
		merged.Structure = u.Structure
	}
	if u.Duration != nil {
		merged.Duration = u.Duration
	}
	if u.Price != nil {
		merged.Price = u.Price
	}
	if u.Language != nil {
		merged.Language = u.Language
	}
	if u.Level != nil {
		merged.Level = u.Level
	}
	return merged
}
