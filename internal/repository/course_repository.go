package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

// CourseRepository persists course generations and their merged records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

type courseRow struct {
	GenerationID       string     `db:"generation_id"`
	Position           int        `db:"position"`
	GE                 string     `db:"ge"`
	Code               string     `db:"code"`
	Subject            string     `db:"subject"`
	CatalogNum         string     `db:"catalog_num"`
	Name               string     `db:"name"`
	Instructor         string     `db:"instructor"`
	Link               string     `db:"link"`
	ClassCount         string     `db:"class_count"`
	EnrollNum          string     `db:"enroll_num"`
	ClassType          string     `db:"class_type"`
	Schedule           string     `db:"schedule"`
	Location           string     `db:"location"`
	ClassStatus        string     `db:"class_status"`
	Description        string     `db:"description"`
	ClassNotes         string     `db:"class_notes"`
	EnrollmentReqs     string     `db:"enrollment_reqs"`
	DiscussionSections jsonColumn `db:"discussion_sections"`
	Credits            string     `db:"credits"`
	Career             string     `db:"career"`
	Grading            string     `db:"grading"`
	CourseType         string     `db:"course_type"`
	GPA                models.GPA `db:"gpa"`
	InstructorRatings  jsonColumn `db:"instructor_ratings"`
	Prerequisites      jsonColumn `db:"prerequisites"`
}

const courseColumns = `generation_id, position, ge, code, subject, catalog_num, name, instructor, link, class_count,
enroll_num, class_type, schedule, location, class_status, description, class_notes, enrollment_reqs,
discussion_sections, credits, career, grading, course_type, gpa, instructor_ratings, prerequisites`

const insertCourseQuery = `INSERT INTO course_records (` + courseColumns + `)
VALUES (:generation_id, :position, :ge, :code, :subject, :catalog_num, :name, :instructor, :link, :class_count,
:enroll_num, :class_type, :schedule, :location, :class_status, :description, :class_notes, :enrollment_reqs,
:discussion_sections, :credits, :career, :grading, :course_type, :gpa, :instructor_ratings, :prerequisites)`

func newCourseRow(generationID string, position int, rec models.MergedCourseRecord) (courseRow, error) {
	sections, err := json.Marshal(nonNilSections(rec.DiscussionSections))
	if err != nil {
		return courseRow{}, err
	}
	prereqs, err := json.Marshal(rec.Prerequisites)
	if err != nil {
		return courseRow{}, err
	}
	var ratings jsonColumn
	if rec.InstructorRatings != nil {
		if ratings, err = json.Marshal(rec.InstructorRatings); err != nil {
			return courseRow{}, err
		}
	}
	return courseRow{
		GenerationID:       generationID,
		Position:           position,
		GE:                 rec.GE,
		Code:               rec.Code,
		Subject:            rec.Subject,
		CatalogNum:         rec.CatalogNum,
		Name:               rec.Name,
		Instructor:         rec.Instructor,
		Link:               rec.Link,
		ClassCount:         rec.ClassCount,
		EnrollNum:          rec.EnrollNum,
		ClassType:          rec.ClassType,
		Schedule:           rec.Schedule,
		Location:           rec.Location,
		ClassStatus:        rec.ClassStatus,
		Description:        rec.Description,
		ClassNotes:         rec.ClassNotes,
		EnrollmentReqs:     rec.EnrollmentReqs,
		DiscussionSections: sections,
		Credits:            rec.Credits,
		Career:             rec.Career,
		Grading:            rec.Grading,
		CourseType:         rec.CourseType,
		GPA:                rec.GPA,
		InstructorRatings:  ratings,
		Prerequisites:      prereqs,
	}, nil
}

func (r courseRow) record() (models.MergedCourseRecord, error) {
	rec := models.MergedCourseRecord{
		GE:                r.GE,
		Code:              r.Code,
		Subject:           r.Subject,
		CatalogNum:        r.CatalogNum,
		Name:              r.Name,
		Instructor:        r.Instructor,
		Link:              r.Link,
		ClassCount:        r.ClassCount,
		EnrollNum:         r.EnrollNum,
		ClassType:         r.ClassType,
		Schedule:          r.Schedule,
		Location:          r.Location,
		ClassStatus:       r.ClassStatus,
		Description:       r.Description,
		ClassNotes:        r.ClassNotes,
		EnrollmentReqs:    r.EnrollmentReqs,
		HasEnrollmentReqs: r.EnrollmentReqs != "",
		Credits:           r.Credits,
		Career:            r.Career,
		Grading:           r.Grading,
		CourseType:        r.CourseType,
		GPA:               r.GPA,
	}
	if len(r.DiscussionSections) > 0 {
		if err := json.Unmarshal(r.DiscussionSections, &rec.DiscussionSections); err != nil {
			return rec, fmt.Errorf("decode discussion sections: %w", err)
		}
	}
	rec.DiscussionSections = nonNilSections(rec.DiscussionSections)
	if len(r.Prerequisites) > 0 {
		if err := json.Unmarshal(r.Prerequisites, &rec.Prerequisites); err != nil {
			return rec, fmt.Errorf("decode prerequisites: %w", err)
		}
	}
	if len(r.InstructorRatings) > 0 {
		var profile models.RatingProfile
		if err := json.Unmarshal(r.InstructorRatings, &profile); err != nil {
			return rec, fmt.Errorf("decode instructor ratings: %w", err)
		}
		rec.InstructorRatings = &profile
	}
	return rec, nil
}

// ReplaceGeneration writes a complete generation and makes it the only active one.
// Older generations and their records are removed in the same transaction.
func (r *CourseRepository) ReplaceGeneration(ctx context.Context, gen *models.Generation, records []models.MergedCourseRecord) error {
	if gen.CreatedAt.IsZero() {
		gen.CreatedAt = time.Now().UTC()
	}
	gen.CourseCount = len(records)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin generation tx: %w", err)
	}
	rollback := func(err error) error {
		_ = tx.Rollback()
		return err
	}

	const insertGeneration = `INSERT INTO course_generations (id, created_at, course_count, active) VALUES ($1, $2, $3, FALSE)`
	if _, err := tx.ExecContext(ctx, insertGeneration, gen.ID, gen.CreatedAt, gen.CourseCount); err != nil {
		return rollback(fmt.Errorf("insert generation: %w", err))
	}

	for i, rec := range records {
		row, err := newCourseRow(gen.ID, i, rec)
		if err != nil {
			return rollback(fmt.Errorf("encode course %s: %w", rec.Code, err))
		}
		if _, err := tx.NamedExecContext(ctx, insertCourseQuery, row); err != nil {
			return rollback(fmt.Errorf("insert course %s: %w", rec.Code, err))
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_generations WHERE id <> $1`, gen.ID); err != nil {
		return rollback(fmt.Errorf("delete old generations: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `UPDATE course_generations SET active = TRUE WHERE id = $1`, gen.ID); err != nil {
		return rollback(fmt.Errorf("activate generation: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit generation tx: %w", err)
	}
	gen.Active = true
	return nil
}

// ActiveGeneration returns the active generation or sql.ErrNoRows.
func (r *CourseRepository) ActiveGeneration(ctx context.Context) (*models.Generation, error) {
	const query = `SELECT id, created_at, course_count, active FROM course_generations WHERE active = TRUE
ORDER BY created_at DESC LIMIT 1`
	var gen models.Generation
	if err := r.db.GetContext(ctx, &gen, query); err != nil {
		return nil, err
	}
	return &gen, nil
}

// ActiveSnapshot loads the active generation with its records in scrape order.
func (r *CourseRepository) ActiveSnapshot(ctx context.Context) (*models.CourseSnapshot, error) {
	gen, err := r.ActiveGeneration(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + courseColumns + ` FROM course_records WHERE generation_id = $1 ORDER BY position ASC`
	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, query, gen.ID); err != nil {
		return nil, fmt.Errorf("list course records: %w", err)
	}

	courses := make([]models.MergedCourseRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", row.Code, err)
		}
		courses = append(courses, rec)
	}
	return &models.CourseSnapshot{GenerationID: gen.ID, UpdatedAt: gen.CreatedAt, Courses: courses}, nil
}

// jsonColumn carries JSONB as text so the driver does not send it as bytea.
type jsonColumn []byte

func (j jsonColumn) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *jsonColumn) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = jsonColumn(v)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	return nil
}

func nonNilSections(sections []models.DiscussionSection) []models.DiscussionSection {
	if sections == nil {
		return []models.DiscussionSection{}
	}
	return sections
}
