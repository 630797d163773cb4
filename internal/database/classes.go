package database

import "database/sql"

// ClassProfile is a named specialization (e.g. "science") shared by classes.
type ClassProfile struct {
	ID   int64
	Name string
}

// Class belongs to a school and optionally to a profile.
// ProfileID becomes nil when the profile is removed.
type Class struct {
	ID        int64
	SchoolID  int64
	Name      string
	ProfileID *int64
}

// AddClassProfile inserts a profile. Names are globally unique.
func (r *Repository) AddClassProfile(name string) (int64, error) {
	return r.insert("class profile", "INSERT INTO class_profiles (name) VALUES (?)", name)
}

// GetClassProfile retrieves a class profile by ID.
func (r *Repository) GetClassProfile(id int64) (*ClassProfile, error) {
	profile := &ClassProfile{}
	if err := r.get("class profile", "SELECT id, name FROM class_profiles WHERE id = ?", id,
		&profile.ID, &profile.Name); err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveClassProfile deletes a profile. Classes using it are kept and
// detached from it.
func (r *Repository) RemoveClassProfile(id int64) error {
	return r.remove("class profile", "DELETE FROM class_profiles WHERE id = ?", id)
}

// AddClass inserts a class. profileID may be nil.
func (r *Repository) AddClass(schoolID int64, name string, profileID *int64) (int64, error) {
	return r.insert("class", `
		INSERT INTO classes (school_id, name, profile_id) VALUES (?, ?, ?)
	`, schoolID, name, int64PtrToNull(profileID))
}

// GetClass retrieves a class by ID.
func (r *Repository) GetClass(id int64) (*Class, error) {
	class := &Class{}
	var profileID sql.NullInt64
	err := r.get("class", `
		SELECT id, school_id, name, profile_id
		FROM classes WHERE id = ?
	`, id, &class.ID, &class.SchoolID, &class.Name, &profileID)
	if err != nil {
		return nil, err
	}
	class.ProfileID = nullInt64ToPtr(profileID)
	return class, nil
}

// RemoveClass deletes a class. Its students are kept with no class.
func (r *Repository) RemoveClass(id int64) error {
	return r.remove("class", "DELETE FROM classes WHERE id = ?", id)
}
