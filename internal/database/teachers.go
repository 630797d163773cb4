package database

// Teacher belongs to exactly one school.
type Teacher struct {
	ID        int64
	SchoolID  int64
	FirstName string
	LastName  string
}

// AddTeacher inserts a teacher employed by the given school.
func (r *Repository) AddTeacher(schoolID int64, firstName, lastName string) (int64, error) {
	return r.insert("teacher", `
		INSERT INTO teachers (school_id, first_name, last_name) VALUES (?, ?, ?)
	`, schoolID, firstName, lastName)
}

// GetTeacher retrieves a teacher by ID.
func (r *Repository) GetTeacher(id int64) (*Teacher, error) {
	teacher := &Teacher{}
	err := r.get("teacher", `
		SELECT id, school_id, first_name, last_name
		FROM teachers WHERE id = ?
	`, id, &teacher.ID, &teacher.SchoolID, &teacher.FirstName, &teacher.LastName)
	if err != nil {
		return nil, err
	}
	return teacher, nil
}
