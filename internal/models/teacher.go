package models

// Teacher represents an instructor record.
type Teacher struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	PictureURL string `db:"picture_url" json:"picture_url"`
	Profile    string `db:"profile" json:"profile"`
}

// CreateTeacher is the write-side shape for new teachers.
type CreateTeacher struct {
	Name       string `json:"name" validate:"required,notblank,max=140"`
	PictureURL string `json:"picture_url" validate:"required,notblank,max=500"`
	Profile    string `json:"profile" validate:"required,notblank,max=2000"`
}

// UpdateTeacher is a partial update; nil fields keep the stored value.
// Provided fields obey the same rules as on create.
type UpdateTeacher struct {
	Name       *string `json:"name" validate:"omitnil,notblank,max=140"`
	PictureURL *string `json:"picture_url" validate:"omitnil,notblank,max=500"`
	Profile    *string `json:"profile" validate:"omitnil,notblank,max=2000"`
}

// Apply returns current with every provided field replaced.
func (u UpdateTeacher) Apply(current Teacher) Teacher {
	merged := current
	if u.Name != nil {
		merged.Name = *u.Name
	}
	if u.PictureURL != nil {
		merged.PictureURL = *u.PictureURL
	}
	if u.Profile != nil {
		merged.Profile = *u.Profile
	}
	return merged
}
