package database

// Subject is a taught subject. Names are globally unique.
type Subject struct {
	ID   int64
	Name string
}

// Grade is a single mark a student received in a subject.
type Grade struct {
	ID        int64
	StudentID int64
	SubjectID int64
	Value     float64
}

// GradeAverage is a student's grade-point average as supplied by the
// caller; it is not derived from the grades table.
type GradeAverage struct {
	ID        int64
	StudentID int64
	Value     float64
}

// AddSubject inserts a subject and returns its id.
func (r *Repository) AddSubject(name string) (int64, error) {
	return r.insert("subject", "INSERT INTO subjects (name) VALUES (?)", name)
}

// GetSubject retrieves a subject by ID.
func (r *Repository) GetSubject(id int64) (*Subject, error) {
	subject := &Subject{}
	if err := r.get("subject", "SELECT id, name FROM subjects WHERE id = ?", id,
		&subject.ID, &subject.Name); err != nil {
		return nil, err
	}
	return subject, nil
}

// AddGrade records a grade for a student in a subject.
func (r *Repository) AddGrade(studentID, subjectID int64, value float64) (int64, error) {
	return r.insert("grade", `
		INSERT INTO grades (student_id, subject_id, value) VALUES (?, ?, ?)
	`, studentID, subjectID, value)
}

// GetGrade retrieves a grade by ID.
func (r *Repository) GetGrade(id int64) (*Grade, error) {
	grade := &Grade{}
	err := r.get("grade", `
		SELECT id, student_id, subject_id, value
		FROM grades WHERE id = ?
	`, id, &grade.ID, &grade.StudentID, &grade.SubjectID, &grade.Value)
	if err != nil {
		return nil, err
	}
	return grade, nil
}

// AddGradeAverage stores a student's average. A student has at most one;
// a second insert fails with ErrUniqueViolation.
func (r *Repository) AddGradeAverage(studentID int64, value float64) (int64, error) {
	return r.insert("grade average", `
		INSERT INTO grade_averages (student_id, value) VALUES (?, ?)
	`, studentID, value)
}

// GetGradeAverage retrieves a grade average by ID.
func (r *Repository) GetGradeAverage(id int64) (*GradeAverage, error) {
	avg := &GradeAverage{}
	err := r.get("grade average", `
		SELECT id, student_id, value
		FROM grade_averages WHERE id = ?
	`, id, &avg.ID, &avg.StudentID, &avg.Value)
	if err != nil {
		return nil, err
	}
	return avg, nil
}
