package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGradeRepoMock(t *testing.T) (*GradeRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlite3")
	return NewGradeRepository(sqlxDB), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func sumColumns() []string {
	cols := []string{"row_count"}
	for _, col := range gradeColumns {
		cols = append(cols, col.alias)
	}
	return cols
}

func toDriverValues(values []interface{}) []driver.Value {
	out := make([]driver.Value, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func TestGradeRepositoryInstructorsFiltersByTerm(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT DISTINCT COALESCE\("Instructors", ''\) AS "Instructors" FROM GradeData WHERE "SubjectCatalogNbr" = \? AND "Term" = \?`).
		WithArgs("CSE 101", "Fall 2023").
		WillReturnRows(sqlmock.NewRows([]string{"Instructors"}).AddRow("Lee,Jane").AddRow("Tantalo,Patrick"))

	instructors, err := repo.Instructors(context.Background(), "CSE 101", "Fall 2023")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lee,Jane", "Tantalo,Patrick"}, instructors)
}

func TestGradeRepositoryHistoricalInstructors(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT DISTINCT COALESCE\("Instructors", ''\) AS "Instructors" FROM GradeData WHERE "SubjectCatalogNbr" = \? ORDER BY`).
		WithArgs("CSE 101").
		WillReturnRows(sqlmock.NewRows([]string{"Instructors"}))

	instructors, err := repo.HistoricalInstructors(context.Background(), "CSE 101")
	require.NoError(t, err)
	assert.NotNil(t, instructors)
	assert.Empty(t, instructors)
}

func TestGradeRepositoryInstructorsSkipsMissingNames(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT DISTINCT COALESCE\("Instructors", ''\) AS "Instructors" FROM GradeData WHERE "SubjectCatalogNbr" = \? ORDER BY`).
		WithArgs("CSE 30").
		WillReturnRows(sqlmock.NewRows([]string{"Instructors"}).AddRow("").AddRow("Whitehead,Nathan").AddRow(" "))

	instructors, err := repo.HistoricalInstructors(context.Background(), "CSE 30")
	require.NoError(t, err)
	assert.Equal(t, []string{"Whitehead,Nathan"}, instructors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryQuartersNewestFirst(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(`GROUP BY "Term" ORDER BY MAX\(rowid\) DESC`).
		WithArgs("CSE 101", "Lee,Jane").
		WillReturnRows(sqlmock.NewRows([]string{"Term"}).AddRow("Spring 2024").AddRow("Fall 2023"))

	terms, err := repo.Quarters(context.Background(), "CSE 101", "Lee,Jane")
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring 2024", "Fall 2023"}, terms)
}

func TestGradeRepositoryCourseDistribution(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	values := []interface{}{3, 4, 10, 6, 5, 4, 3, 2, 1, 0, 0, 0, 0, 1, 7, 2, 5}
	mock.ExpectQuery(`SELECT COUNT\(\*\) AS row_count, COALESCE\(SUM\("A\+"\), 0\) AS a_plus`).
		WithArgs("CSE 101").
		WillReturnRows(sqlmock.NewRows(sumColumns()).AddRow(toDriverValues(values)...))

	dist, rows, err := repo.CourseDistribution(context.Background(), "CSE 101")
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, dist["A+"])
	assert.Equal(t, 1, dist["F"])
	assert.NotContains(t, dist, "P")
	assert.NotContains(t, dist, "W")
	assert.Equal(t, 36, dist.Total())
}

func TestGradeRepositoryDistributionWithFilters(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	values := make([]interface{}, len(gradeColumns)+1)
	for i := range values {
		values[i] = 0
	}
	values[0] = 1
	values[len(values)-1] = 4
	mock.ExpectQuery(`AND "Term" = \? AND "Instructors" = \?`).
		WithArgs("CSE 101", "Fall 2023", "Lee,Jane").
		WillReturnRows(sqlmock.NewRows(sumColumns()).AddRow(toDriverValues(values)...))

	dist, rows, err := repo.Distribution(context.Background(), "CSE 101", "Fall 2023", "Lee,Jane")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 4, dist["W"])
	assert.Equal(t, 0, dist.Total())
}

func TestGradeRepositoryInstructorDistributionError(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM GradeData").WillReturnError(errors.New("database is locked"))

	_, err := repo.InstructorDistribution(context.Background(), "CSE 101", "Lee,Jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum grades for CSE 101")
}

func TestGradeRepositoryClassInfo(t *testing.T) {
	repo, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()

	cols := []string{"code", "term", "instructors"}
	for _, col := range gradeColumns {
		cols = append(cols, col.alias)
	}
	row := []interface{}{"CSE 101", "Fall 2023", "Lee,Jane"}
	for i := range gradeColumns {
		row = append(row, i)
	}
	mock.ExpectQuery(`FROM GradeData WHERE "SubjectCatalogNbr" = \? ORDER BY rowid`).
		WithArgs("CSE 101").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(toDriverValues(row)...))

	history, err := repo.ClassInfo(context.Background(), "CSE 101")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Fall 2023", history[0].Term)
	assert.Equal(t, "Lee,Jane", history[0].Instructors)
	assert.Equal(t, 0, history[0].Grades["A+"])
	assert.Equal(t, 13, history[0].Grades["P"])
	assert.Equal(t, 15, history[0].Grades["W"])
}
