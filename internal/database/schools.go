package database

// School is a row in the schools table. Name is globally unique.
type School struct {
	ID   int64
	Name string
}

// Ranking places a school at a position. Removed with its school.
type Ranking struct {
	ID       int64
	SchoolID int64
	Position int
}

// AddSchool inserts a school and returns its id.
// A duplicate name fails with ErrUniqueViolation.
func (r *Repository) AddSchool(name string) (int64, error) {
	return r.insert("school", "INSERT INTO schools (name) VALUES (?)", name)
}

// GetSchool retrieves a school by ID.
func (r *Repository) GetSchool(id int64) (*School, error) {
	school := &School{}
	if err := r.get("school", "SELECT id, name FROM schools WHERE id = ?", id,
		&school.ID, &school.Name); err != nil {
		return nil, err
	}
	return school, nil
}

// RemoveSchool deletes a school together with its rankings, teachers,
// classes and students (and, through them, cards, averages and grades).
func (r *Repository) RemoveSchool(id int64) error {
	return r.remove("school", "DELETE FROM schools WHERE id = ?", id)
}

// AddRanking inserts a ranking position for an existing school.
func (r *Repository) AddRanking(schoolID int64, position int) (int64, error) {
	return r.insert("ranking", `
		INSERT INTO rankings (school_id, position) VALUES (?, ?)
	`, schoolID, position)
}

// GetRanking retrieves a ranking by ID.
func (r *Repository) GetRanking(id int64) (*Ranking, error) {
	ranking := &Ranking{}
	if err := r.get("ranking", "SELECT id, school_id, position FROM rankings WHERE id = ?", id,
		&ranking.ID, &ranking.SchoolID, &ranking.Position); err != nil {
		return nil, err
	}
	return ranking, nil
}
