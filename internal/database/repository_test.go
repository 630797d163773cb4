package database

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLincolnHighScenario(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	require.EqualValues(t, 1, schoolID)

	subjectID, err := repo.AddSubject("Math")
	require.NoError(t, err)
	require.EqualValues(t, 1, subjectID)

	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, studentID)

	gradeID, err := repo.AddGrade(studentID, subjectID, 5.0)
	require.NoError(t, err)
	require.EqualValues(t, 1, gradeID)

	grade, err := repo.GetGrade(gradeID)
	require.NoError(t, err)
	require.Equal(t, &Grade{ID: 1, StudentID: 1, SubjectID: 1, Value: 5.0}, grade)

	require.NoError(t, repo.RemoveStudent(studentID))

	_, err = repo.GetGrade(gradeID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetStudent(studentID)
	require.ErrorIs(t, err, ErrNotFound)

	subject, err := repo.GetSubject(subjectID)
	require.NoError(t, err)
	require.Equal(t, "Math", subject.Name)

	school, err := repo.GetSchool(schoolID)
	require.NoError(t, err)
	require.Equal(t, "Lincoln High", school.Name)
}

func TestInsertsRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)

	rankingID, err := repo.AddRanking(schoolID, 3)
	require.NoError(t, err)
	ranking, err := repo.GetRanking(rankingID)
	require.NoError(t, err)
	require.Equal(t, &Ranking{ID: rankingID, SchoolID: schoolID, Position: 3}, ranking)

	teacherID, err := repo.AddTeacher(schoolID, "Maria", "Nowak")
	require.NoError(t, err)
	teacher, err := repo.GetTeacher(teacherID)
	require.NoError(t, err)
	require.Equal(t, &Teacher{ID: teacherID, SchoolID: schoolID, FirstName: "Maria", LastName: "Nowak"}, teacher)

	profileID, err := repo.AddClassProfile("science")
	require.NoError(t, err)
	profile, err := repo.GetClassProfile(profileID)
	require.NoError(t, err)
	require.Equal(t, &ClassProfile{ID: profileID, Name: "science"}, profile)

	classID, err := repo.AddClass(schoolID, "1A", &profileID)
	require.NoError(t, err)
	class, err := repo.GetClass(classID)
	require.NoError(t, err)
	require.Equal(t, &Class{ID: classID, SchoolID: schoolID, Name: "1A", ProfileID: ptr(profileID)}, class)

	plainClassID, err := repo.AddClass(schoolID, "1B", nil)
	require.NoError(t, err)
	plainClass, err := repo.GetClass(plainClassID)
	require.NoError(t, err)
	require.Nil(t, plainClass.ProfileID)

	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", &classID)
	require.NoError(t, err)
	student, err := repo.GetStudent(studentID)
	require.NoError(t, err)
	require.Equal(t, &Student{ID: studentID, SchoolID: schoolID, FirstName: "Ann", LastName: "Lee", ClassID: ptr(classID)}, student)

	cardID, err := repo.AddIDCard(studentID, true, ptr("LH-0001"))
	require.NoError(t, err)
	card, err := repo.GetIDCard(cardID)
	require.NoError(t, err)
	require.Equal(t, &IDCard{ID: cardID, StudentID: studentID, Active: true, Number: ptr("LH-0001")}, card)

	avgID, err := repo.AddGradeAverage(studentID, 4.75)
	require.NoError(t, err)
	avg, err := repo.GetGradeAverage(avgID)
	require.NoError(t, err)
	require.Equal(t, &GradeAverage{ID: avgID, StudentID: studentID, Value: 4.75}, avg)
}

func TestIDCardWithoutNumber(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", nil)
	require.NoError(t, err)

	cardID, err := repo.AddIDCard(studentID, false, nil)
	require.NoError(t, err)

	card, err := repo.GetIDCard(cardID)
	require.NoError(t, err)
	require.False(t, card.Active)
	require.Nil(t, card.Number)
}

func TestIdentifiersArePositiveAndDistinct(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	first, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	second, err := repo.AddSchool("Roosevelt High")
	require.NoError(t, err)

	require.Positive(t, first)
	require.Positive(t, second)
	require.NotEqual(t, first, second)
}

func TestUniqueNames(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	_, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	_, err = repo.AddSchool("Lincoln High")
	require.ErrorIs(t, err, ErrUniqueViolation)

	_, err = repo.AddSubject("Math")
	require.NoError(t, err)
	_, err = repo.AddSubject("Math")
	require.ErrorIs(t, err, ErrUniqueViolation)

	_, err = repo.AddClassProfile("science")
	require.NoError(t, err)
	_, err = repo.AddClassProfile("science")
	require.ErrorIs(t, err, ErrUniqueViolation)
}

func TestOneCardAndOneAveragePerStudent(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", nil)
	require.NoError(t, err)

	_, err = repo.AddIDCard(studentID, true, nil)
	require.NoError(t, err)
	_, err = repo.AddIDCard(studentID, true, ptr("second"))
	require.ErrorIs(t, err, ErrUniqueViolation)

	_, err = repo.AddGradeAverage(studentID, 4.0)
	require.NoError(t, err)
	_, err = repo.AddGradeAverage(studentID, 3.0)
	require.ErrorIs(t, err, ErrUniqueViolation)
}

func TestDanglingReferencesFail(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)

	_, err = repo.AddStudent(schoolID, "Ann", "Lee", ptr(int64(42)))
	require.ErrorIs(t, err, ErrForeignKeyViolation)

	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", nil)
	require.NoError(t, err)

	_, err = repo.AddTeacher(999, "Maria", "Nowak")
	require.ErrorIs(t, err, ErrForeignKeyViolation)

	_, err = repo.AddClass(schoolID, "1A", ptr(int64(7)))
	require.ErrorIs(t, err, ErrForeignKeyViolation)

	subjectID, err := repo.AddSubject("Math")
	require.NoError(t, err)

	_, err = repo.AddGrade(studentID, 99, 3.5)
	require.ErrorIs(t, err, ErrForeignKeyViolation)

	_, err = repo.AddGrade(studentID+100, subjectID, 3.5)
	require.ErrorIs(t, err, ErrForeignKeyViolation)

	_, err = repo.AddIDCard(studentID+100, true, nil)
	require.ErrorIs(t, err, ErrForeignKeyViolation)

	_, err = repo.AddGradeAverage(studentID+100, 4.0)
	require.ErrorIs(t, err, ErrForeignKeyViolation)

	_, err = repo.AddRanking(999, 1)
	require.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestRemoveSchoolCascades(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	otherSchoolID, err := repo.AddSchool("Roosevelt High")
	require.NoError(t, err)
	subjectID, err := repo.AddSubject("Math")
	require.NoError(t, err)

	rankingID, err := repo.AddRanking(schoolID, 1)
	require.NoError(t, err)
	teacherID, err := repo.AddTeacher(schoolID, "Maria", "Nowak")
	require.NoError(t, err)
	classID, err := repo.AddClass(schoolID, "1A", nil)
	require.NoError(t, err)
	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", &classID)
	require.NoError(t, err)
	cardID, err := repo.AddIDCard(studentID, true, nil)
	require.NoError(t, err)
	avgID, err := repo.AddGradeAverage(studentID, 4.5)
	require.NoError(t, err)
	gradeID, err := repo.AddGrade(studentID, subjectID, 5.0)
	require.NoError(t, err)

	otherStudentID, err := repo.AddStudent(otherSchoolID, "Bob", "Kim", nil)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveSchool(schoolID))

	lookups := map[string]func() error{
		"school":        func() error { _, err := repo.GetSchool(schoolID); return err },
		"ranking":       func() error { _, err := repo.GetRanking(rankingID); return err },
		"teacher":       func() error { _, err := repo.GetTeacher(teacherID); return err },
		"class":         func() error { _, err := repo.GetClass(classID); return err },
		"student":       func() error { _, err := repo.GetStudent(studentID); return err },
		"id card":       func() error { _, err := repo.GetIDCard(cardID); return err },
		"grade average": func() error { _, err := repo.GetGradeAverage(avgID); return err },
		"grade":         func() error { _, err := repo.GetGrade(gradeID); return err },
	}
	for name, lookup := range lookups {
		require.ErrorIs(t, lookup(), ErrNotFound, name)
	}

	_, err = repo.GetSubject(subjectID)
	require.NoError(t, err)
	_, err = repo.GetStudent(otherStudentID)
	require.NoError(t, err)
}

func TestRemoveClassProfileDetachesClasses(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	profileID, err := repo.AddClassProfile("science")
	require.NoError(t, err)
	classID, err := repo.AddClass(schoolID, "1A", &profileID)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveClassProfile(profileID))

	class, err := repo.GetClass(classID)
	require.NoError(t, err)
	require.Nil(t, class.ProfileID)
	require.Equal(t, "1A", class.Name)
}

func TestRemoveClassDetachesStudents(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	classID, err := repo.AddClass(schoolID, "1A", nil)
	require.NoError(t, err)
	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", &classID)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveClass(classID))

	student, err := repo.GetStudent(studentID)
	require.NoError(t, err)
	require.Nil(t, student.ClassID)
	require.Equal(t, schoolID, student.SchoolID)
}

func TestRemoveStudentKeepsClassAndSchool(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	schoolID, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)
	classID, err := repo.AddClass(schoolID, "1A", nil)
	require.NoError(t, err)
	studentID, err := repo.AddStudent(schoolID, "Ann", "Lee", &classID)
	require.NoError(t, err)
	cardID, err := repo.AddIDCard(studentID, true, nil)
	require.NoError(t, err)
	avgID, err := repo.AddGradeAverage(studentID, 3.9)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveStudent(studentID))

	_, err = repo.GetIDCard(cardID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetGradeAverage(avgID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetClass(classID)
	require.NoError(t, err)
	_, err = repo.GetSchool(schoolID)
	require.NoError(t, err)
}

func TestRemoveUnknownReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	require.ErrorIs(t, repo.RemoveStudent(1), ErrNotFound)
	require.ErrorIs(t, repo.RemoveSchool(1), ErrNotFound)
	require.ErrorIs(t, repo.RemoveClass(1), ErrNotFound)
	require.ErrorIs(t, repo.RemoveClassProfile(1), ErrNotFound)

	_, err := repo.GetSchool(1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentInsertsAreSerialized(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	const workers = 8
	var wg sync.WaitGroup
	ids := make([]int64, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i], errs[i] = repo.AddSubject(string(rune('A' + i)))
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for i := range workers {
		require.NoError(t, errs[i])
		require.False(t, seen[ids[i]])
		seen[ids[i]] = true
	}
}

func TestErrorsKeepDriverDetail(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	_, err := repo.AddSchool("Lincoln High")
	require.NoError(t, err)

	_, err = repo.AddSchool("Lincoln High")
	require.ErrorIs(t, err, ErrUniqueViolation)
	require.Contains(t, err.Error(), "failed to add school")
	require.Contains(t, err.Error(), "schools.name")
	require.False(t, errors.Is(err, ErrForeignKeyViolation))
}
