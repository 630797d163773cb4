package database

import "database/sql"

// Student belongs to a school and optionally to a class.
// ClassID becomes nil when the class is removed.
type Student struct {
	ID        int64
	SchoolID  int64
	FirstName string
	LastName  string
	ClassID   *int64
}

// IDCard is a student's identity card; a student has at most one.
type IDCard struct {
	ID        int64
	StudentID int64
	Active    bool
	Number    *string
}

// AddStudent inserts a student. classID may be nil.
// A classID that does not exist fails with ErrForeignKeyViolation.
func (r *Repository) AddStudent(schoolID int64, firstName, lastName string, classID *int64) (int64, error) {
	return r.insert("student", `
		INSERT INTO students (school_id, first_name, last_name, class_id) VALUES (?, ?, ?, ?)
	`, schoolID, firstName, lastName, int64PtrToNull(classID))
}

// GetStudent retrieves a student by ID.
func (r *Repository) GetStudent(id int64) (*Student, error) {
	student := &Student{}
	var classID sql.NullInt64
	err := r.get("student", `
		SELECT id, school_id, first_name, last_name, class_id
		FROM students WHERE id = ?
	`, id, &student.ID, &student.SchoolID, &student.FirstName, &student.LastName, &classID)
	if err != nil {
		return nil, err
	}
	student.ClassID = nullInt64ToPtr(classID)
	return student, nil
}

// RemoveStudent deletes a student along with their ID card, grade average
// and grades. The student's school and class are left untouched.
// Removing an unknown id fails with ErrNotFound.
func (r *Repository) RemoveStudent(id int64) error {
	return r.remove("student", "DELETE FROM students WHERE id = ?", id)
}

// AddIDCard issues a card to a student. New cards are normally active;
// number may be nil. A second card for the same student fails with
// ErrUniqueViolation.
func (r *Repository) AddIDCard(studentID int64, active bool, number *string) (int64, error) {
	return r.insert("id card", `
		INSERT INTO id_cards (student_id, active, number) VALUES (?, ?, ?)
	`, studentID, boolToInt(active), stringPtrToNull(number))
}

// GetIDCard retrieves an ID card by ID.
func (r *Repository) GetIDCard(id int64) (*IDCard, error) {
	card := &IDCard{}
	var active int64
	var number sql.NullString
	err := r.get("id card", `
		SELECT id, student_id, active, number
		FROM id_cards WHERE id = ?
	`, id, &card.ID, &card.StudentID, &active, &number)
	if err != nil {
		return nil, err
	}
	card.Active = active != 0
	card.Number = nullStringToPtr(number)
	return card, nil
}
