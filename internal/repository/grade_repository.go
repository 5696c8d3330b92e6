package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

// GradeRepository reads the historical grade table. The table is never written.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository over the grade history database.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// gradeColumn maps a grade symbol to the alias it is selected under.
type gradeColumn struct {
	symbol string
	alias  string
}

var gradeColumns = []gradeColumn{
	{"A+", "a_plus"}, {"A", "a"}, {"A-", "a_minus"},
	{"B+", "b_plus"}, {"B", "b"}, {"B-", "b_minus"},
	{"C+", "c_plus"}, {"C", "c"}, {"C-", "c_minus"},
	{"D+", "d_plus"}, {"D", "d"}, {"D-", "d_minus"},
	{"F", "f"}, {"P", "p"}, {"NP", "np"}, {"W", "w"},
}

type gradeRow struct {
	Code        string `db:"code"`
	Term        string `db:"term"`
	Instructors string `db:"instructors"`
	Rows        int    `db:"row_count"`
	APlus       int    `db:"a_plus"`
	A           int    `db:"a"`
	AMinus      int    `db:"a_minus"`
	BPlus       int    `db:"b_plus"`
	B           int    `db:"b"`
	BMinus      int    `db:"b_minus"`
	CPlus       int    `db:"c_plus"`
	C           int    `db:"c"`
	CMinus      int    `db:"c_minus"`
	DPlus       int    `db:"d_plus"`
	D           int    `db:"d"`
	DMinus      int    `db:"d_minus"`
	F           int    `db:"f"`
	P           int    `db:"p"`
	NP          int    `db:"np"`
	W           int    `db:"w"`
}

func (r gradeRow) distribution() models.GradeDistribution {
	return models.GradeDistribution{
		"A+": r.APlus, "A": r.A, "A-": r.AMinus,
		"B+": r.BPlus, "B": r.B, "B-": r.BMinus,
		"C+": r.CPlus, "C": r.C, "C-": r.CMinus,
		"D+": r.DPlus, "D": r.D, "D-": r.DMinus,
		"F": r.F, "P": r.P, "NP": r.NP, "W": r.W,
	}
}

// letterOnly drops the non-grade symbols.
func letterOnly(dist models.GradeDistribution) models.GradeDistribution {
	out := make(models.GradeDistribution, len(models.LetterGrades))
	for _, grade := range models.LetterGrades {
		out[grade] = dist[grade]
	}
	return out
}

var (
	sumSelect = buildGradeSelect(`COALESCE(SUM("%s"), 0) AS %s`)
	rowSelect = buildGradeSelect(`COALESCE("%s", 0) AS %s`)
)

func buildGradeSelect(format string) string {
	parts := make([]string, len(gradeColumns))
	for i, col := range gradeColumns {
		parts[i] = fmt.Sprintf(format, col.symbol, col.alias)
	}
	return strings.Join(parts, ", ")
}

// HistoricalInstructors lists the distinct instructor strings recorded for a course.
func (r *GradeRepository) HistoricalInstructors(ctx context.Context, courseCode string) ([]string, error) {
	return r.Instructors(ctx, courseCode, "")
}

// Classes lists every course code in the history.
func (r *GradeRepository) Classes(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT "SubjectCatalogNbr" FROM GradeData ORDER BY "SubjectCatalogNbr"`
	classes := make([]string, 0)
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list grade classes: %w", err)
	}
	return classes, nil
}

// Instructors lists the instructors of a course, optionally limited to one term.
func (r *GradeRepository) Instructors(ctx context.Context, courseCode, term string) ([]string, error) {
	query := `SELECT DISTINCT COALESCE("Instructors", '') AS "Instructors" FROM GradeData WHERE "SubjectCatalogNbr" = ?`
	args := []interface{}{courseCode}
	if term != "" {
		query += ` AND "Term" = ?`
		args = append(args, term)
	}
	query += ` ORDER BY "Instructors"`

	instructors := make([]string, 0)
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, fmt.Errorf("list instructors for %s: %w", courseCode, err)
	}
	named := instructors[:0]
	for _, name := range instructors {
		if strings.TrimSpace(name) != "" {
			named = append(named, name)
		}
	}
	return named, nil
}

// Quarters lists the terms a course was offered, most recently loaded first,
// optionally limited to one instructor.
func (r *GradeRepository) Quarters(ctx context.Context, courseCode, instructor string) ([]string, error) {
	query := `SELECT "Term" FROM GradeData WHERE "SubjectCatalogNbr" = ?`
	args := []interface{}{courseCode}
	if instructor != "" {
		query += ` AND "Instructors" = ?`
		args = append(args, instructor)
	}
	query += ` GROUP BY "Term" ORDER BY MAX(rowid) DESC`

	terms := make([]string, 0)
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, fmt.Errorf("list quarters for %s: %w", courseCode, err)
	}
	return terms, nil
}

// Distribution sums every grade symbol for a course with optional term and instructor
// filters. It also returns how many history rows matched.
func (r *GradeRepository) Distribution(ctx context.Context, courseCode, term, instructor string) (models.GradeDistribution, int, error) {
	query := `SELECT COUNT(*) AS row_count, ` + sumSelect + ` FROM GradeData WHERE "SubjectCatalogNbr" = ?`
	args := []interface{}{courseCode}
	if term != "" {
		query += ` AND "Term" = ?`
		args = append(args, term)
	}
	if instructor != "" {
		query += ` AND "Instructors" = ?`
		args = append(args, instructor)
	}

	var row gradeRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, 0, fmt.Errorf("sum grades for %s: %w", courseCode, err)
	}
	return row.distribution(), row.Rows, nil
}

// InstructorDistribution sums the letter grades one instructor gave in a course.
func (r *GradeRepository) InstructorDistribution(ctx context.Context, courseCode, instructor string) (models.GradeDistribution, error) {
	dist, _, err := r.Distribution(ctx, courseCode, "", instructor)
	if err != nil {
		return nil, err
	}
	return letterOnly(dist), nil
}

// CourseDistribution sums the letter grades of a course across all terms.
func (r *GradeRepository) CourseDistribution(ctx context.Context, courseCode string) (models.GradeDistribution, int, error) {
	dist, rows, err := r.Distribution(ctx, courseCode, "", "")
	if err != nil {
		return nil, 0, err
	}
	return letterOnly(dist), rows, nil
}

// ClassInfo returns every history row of a course including P, NP and W counts.
func (r *GradeRepository) ClassInfo(ctx context.Context, courseCode string) ([]models.GradeHistoryRow, error) {
	query := `SELECT "SubjectCatalogNbr" AS code, "Term" AS term, COALESCE("Instructors", '') AS instructors, ` +
		rowSelect + ` FROM GradeData WHERE "SubjectCatalogNbr" = ? ORDER BY rowid`

	var rows []gradeRow
	if err := r.db.SelectContext(ctx, &rows, query, courseCode); err != nil {
		return nil, fmt.Errorf("class info for %s: %w", courseCode, err)
	}
	history := make([]models.GradeHistoryRow, 0, len(rows))
	for _, row := range rows {
		history = append(history, models.GradeHistoryRow{
			CourseCode:  row.Code,
			Term:        row.Term,
			Instructors: row.Instructors,
			Grades:      row.distribution(),
		})
	}
	return history, nil
}
