package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shubhamdhabu/trace-rescue/internal/cases"
)

// CaseRepository implements cases.Repository over PostgreSQL.
type CaseRepository struct {
	pool *Pool
}

// NewCaseRepository creates a case repository using the given pool.
func NewCaseRepository(pool *Pool) *CaseRepository {
	return &CaseRepository{pool: pool}
}

const caseColumns = `id, owner_id, full_name, age, gender, description, photo_url,
	date_registered, last_seen_location, last_seen_date, contact_info,
	additional_details, branch_department, status, is_public, created_at, updated_at`

// scanCase reads one case row. Nullable columns map onto pointer or
// zero-valued fields.
func scanCase(row interface{ Scan(dest ...any) error }) (*cases.Case, error) {
	var c cases.Case
	var age sql.NullInt64
	var lastSeen sql.NullTime
	var status string

	err := row.Scan(
		&c.ID, &c.OwnerID, &c.FullName, &age, &c.Gender, &c.Description,
		&c.PhotoURL, &c.DateRegistered, &c.LastSeenLocation, &lastSeen,
		&c.ContactInfo, &c.AdditionalDetails, &c.BranchDepartment, &status,
		&c.IsPublic, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		v := int(age.Int64)
		c.Age = &v
	}
	if lastSeen.Valid {
		t := lastSeen.Time
		c.LastSeenDate = &t
	}
	c.Status = cases.Status(status)
	return &c, nil
}

// Insert stores a new case, assigning its id.
func (r *CaseRepository) Insert(ctx context.Context, c *cases.Case) (*cases.Case, error) {
	stored := *c
	stored.ID = uuid.New().String()

	var age any
	if c.Age != nil {
		age = *c.Age
	}
	var lastSeen any
	if c.LastSeenDate != nil {
		lastSeen = *c.LastSeenDate
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO cases (`+caseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		stored.ID, stored.OwnerID, stored.FullName, age, stored.Gender,
		stored.Description, stored.PhotoURL, stored.DateRegistered,
		stored.LastSeenLocation, lastSeen, stored.ContactInfo,
		stored.AdditionalDetails, stored.BranchDepartment, string(stored.Status),
		stored.IsPublic, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting case: %w", err)
	}
	return &stored, nil
}

// ListVisible returns cases visible to the principal, most recent first.
// The visibility rule is part of the query itself so the database never hands
// back a record the principal may not see.
func (r *CaseRepository) ListVisible(ctx context.Context, principalID string, limit int) ([]cases.Case, error) {
	query := `
		SELECT ` + caseColumns + `
		FROM cases
		WHERE owner_id = $1 OR is_public = TRUE
		ORDER BY created_at DESC`
	args := []any{principalID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var result []cases.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning case row: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating case rows: %w", err)
	}
	return result, nil
}

// Get returns a case by id, or nil when absent.
func (r *CaseRepository) Get(ctx context.Context, id string) (*cases.Case, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id)

	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading case %s: %w", id, err)
	}
	return c, nil
}

// Update persists the full record.
func (r *CaseRepository) Update(ctx context.Context, c *cases.Case) (*cases.Case, error) {
	var age any
	if c.Age != nil {
		age = *c.Age
	}
	var lastSeen any
	if c.LastSeenDate != nil {
		lastSeen = *c.LastSeenDate
	}

	res, err := r.pool.Exec(ctx, `
		UPDATE cases SET
			full_name = $2, age = $3, gender = $4, description = $5,
			photo_url = $6, date_registered = $7, last_seen_location = $8,
			last_seen_date = $9, contact_info = $10, additional_details = $11,
			branch_department = $12, status = $13, is_public = $14, updated_at = $15
		WHERE id = $1`,
		c.ID, c.FullName, age, c.Gender, c.Description, c.PhotoURL,
		c.DateRegistered, c.LastSeenLocation, lastSeen, c.ContactInfo,
		c.AdditionalDetails, c.BranchDepartment, string(c.Status), c.IsPublic,
		c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("updating case %s: %w", c.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("case %s does not exist", c.ID)
	}

	stored := *c
	return &stored, nil
}
