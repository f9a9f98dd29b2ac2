package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"realtor_portal_backend/internal/assignments/domain"
	"realtor_portal_backend/platform/apperr"
)

const (
	assignmentNotFoundMessage = "assignment not found"
	leadAlreadyWonMessage     = "another realtor already signed a listing agreement for this lead"
)

const assignmentColumns = `id, lead_id, user_id, status, comments, sent_date, callback_time, updated_at`

// Repo implements the assignment repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new assignment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanAssignment(row pgx.Row) (domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.ID, &a.LeadID, &a.UserID, &a.Status, &a.Comments, &a.SentDate, &a.CallbackTime, &a.UpdatedAt)
	return a, err
}

// Create inserts an assignment sending a lead to a realtor's user account.
// Re-sending the same lead to the same realtor creates a new row.
func (r *Repo) Create(ctx context.Context, leadID, userID uuid.UUID) (domain.Assignment, error) {
	query := fmt.Sprintf(`
		INSERT INTO lead_assignments (lead_id, user_id)
		VALUES ($1, $2)
		RETURNING %s`, assignmentColumns)

	assignment, err := scanAssignment(r.pool.QueryRow(ctx, query, leadID, userID))
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("create assignment: %w", err)
	}
	return assignment, nil
}

// GetByID retrieves an assignment by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM lead_assignments WHERE id = $1`, assignmentColumns)
	assignment, err := scanAssignment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, apperr.NotFound(assignmentNotFoundMessage)
		}
		return domain.Assignment{}, fmt.Errorf("get assignment by id: %w", err)
	}
	return assignment, nil
}

// ListForLead lists a lead's assignments with realtor identity attached.
func (r *Repo) ListForLead(ctx context.Context, leadID uuid.UUID) ([]AssignmentWithRealtor, error) {
	query := `
		SELECT a.id, a.lead_id, a.user_id, a.status, a.comments, a.sent_date, a.callback_time, a.updated_at,
			r.agent_code, r.first_name, r.last_name
		FROM lead_assignments a
		JOIN realtors r ON r.user_id = a.user_id
		WHERE a.lead_id = $1
		ORDER BY a.sent_date ASC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list assignments for lead: %w", err)
	}
	defer rows.Close()

	items := make([]AssignmentWithRealtor, 0)
	for rows.Next() {
		var a AssignmentWithRealtor
		if err := rows.Scan(
			&a.ID, &a.LeadID, &a.UserID, &a.Status, &a.Comments, &a.SentDate, &a.CallbackTime, &a.UpdatedAt,
			&a.AgentCode, &a.RealtorFirstName, &a.RealtorLastName,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate assignments: %w", rows.Err())
	}
	return items, nil
}

// ListForRealtor lists a realtor's working queue: assignments that have not
// reached a losing terminal status, newest first, with lead details attached.
func (r *Repo) ListForRealtor(ctx context.Context, userID uuid.UUID) ([]AssignmentWithLead, error) {
	query := `
		SELECT a.id, a.lead_id, a.user_id, a.status, a.comments, a.sent_date, a.callback_time, a.updated_at,
			l.lead_code, l.first_name, l.last_name, l.phone, l.email,
			l.address, l.city, l.state, l.zip_code,
			l.bedrooms, l.bathrooms, l.property_value, l.has_realtor_contract
		FROM lead_assignments a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.user_id = $1
		AND a.status NOT IN ($2, $3, $4, $5)
		ORDER BY a.sent_date DESC`

	rows, err := r.pool.Query(ctx, query, userID,
		domain.StatusNotInterested, domain.StatusNotListing,
		domain.StatusListedByHomeowner, domain.StatusTakenByOther)
	if err != nil {
		return nil, fmt.Errorf("list assignments for realtor: %w", err)
	}
	defer rows.Close()

	items := make([]AssignmentWithLead, 0)
	for rows.Next() {
		var a AssignmentWithLead
		if err := rows.Scan(
			&a.ID, &a.LeadID, &a.UserID, &a.Status, &a.Comments, &a.SentDate, &a.CallbackTime, &a.UpdatedAt,
			&a.LeadCode, &a.LeadFirstName, &a.LeadLastName, &a.LeadPhone, &a.LeadEmail,
			&a.LeadAddress, &a.LeadCity, &a.LeadState, &a.LeadZipCode,
			&a.LeadBedrooms, &a.LeadBathrooms, &a.LeadPropertyValue, &a.LeadHasRealtorContract,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate assignments: %w", rows.Err())
	}
	return items, nil
}

// UpdateStatus sets an assignment's status and callback time. The winning
// transition must go through SignAgreement instead.
func (r *Repo) UpdateStatus(ctx context.Context, params UpdateStatusParams) (domain.Assignment, error) {
	query := fmt.Sprintf(`
		UPDATE lead_assignments
		SET status = $2, callback_time = COALESCE($3, callback_time), updated_at = now()
		WHERE id = $1
		RETURNING %s`, assignmentColumns)

	assignment, err := scanAssignment(r.pool.QueryRow(ctx, query, params.ID, params.Status, params.CallbackTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, apperr.NotFound(assignmentNotFoundMessage)
		}
		return domain.Assignment{}, fmt.Errorf("update assignment status: %w", err)
	}
	return assignment, nil
}

// SignAgreement marks an assignment as the winning one and relabels every
// other assignment on the same lead as taken by another realtor, whatever
// status it held. The whole transition runs in one transaction: the lead's
// assignment rows are locked and an existing winner aborts with a conflict.
func (r *Repo) SignAgreement(ctx context.Context, id uuid.UUID, callbackTime *time.Time) (SignResult, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return SignResult{}, fmt.Errorf("begin sign agreement: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var leadID uuid.UUID
	if err := tx.QueryRow(ctx,
		`SELECT lead_id FROM lead_assignments WHERE id = $1`, id,
	).Scan(&leadID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SignResult{}, apperr.NotFound(assignmentNotFoundMessage)
		}
		return SignResult{}, fmt.Errorf("load assignment lead: %w", err)
	}

	// Lock all sibling rows so concurrent signs serialize on this lead.
	rows, err := tx.Query(ctx,
		`SELECT id, status FROM lead_assignments WHERE lead_id = $1 FOR UPDATE`, leadID)
	if err != nil {
		return SignResult{}, fmt.Errorf("lock lead assignments: %w", err)
	}
	for rows.Next() {
		var siblingID uuid.UUID
		var status domain.Status
		if err := rows.Scan(&siblingID, &status); err != nil {
			rows.Close()
			return SignResult{}, fmt.Errorf("scan locked assignment: %w", err)
		}
		if domain.IsWin(status) && siblingID != id {
			rows.Close()
			return SignResult{}, apperr.Conflict(leadAlreadyWonMessage)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return SignResult{}, fmt.Errorf("iterate locked assignments: %w", rows.Err())
	}

	query := fmt.Sprintf(`
		UPDATE lead_assignments
		SET status = $2, callback_time = COALESCE($3, callback_time), updated_at = now()
		WHERE id = $1
		RETURNING %s`, assignmentColumns)

	assignment, err := scanAssignment(tx.QueryRow(ctx, query, id, domain.StatusAgreementSigned, callbackTime))
	if err != nil {
		return SignResult{}, fmt.Errorf("mark agreement signed: %w", err)
	}

	relabel, err := tx.Exec(ctx, `
		UPDATE lead_assignments
		SET status = $3, updated_at = now()
		WHERE lead_id = $1 AND id <> $2`,
		leadID, id, domain.StatusTakenByOther,
	)
	if err != nil {
		return SignResult{}, fmt.Errorf("relabel sibling assignments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return SignResult{}, fmt.Errorf("commit sign agreement: %w", err)
	}

	return SignResult{Assignment: assignment, Invalidated: int(relabel.RowsAffected())}, nil
}

// HasWinner reports whether any assignment on the lead has a signed listing
// agreement.
func (r *Repo) HasWinner(ctx context.Context, leadID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM lead_assignments WHERE lead_id = $1 AND status = $2)`,
		leadID, domain.StatusAgreementSigned,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check lead winner: %w", err)
	}
	return exists, nil
}

// SetComment overwrites an assignment's comment without touching its status.
func (r *Repo) SetComment(ctx context.Context, id uuid.UUID, comment string) (domain.Assignment, error) {
	query := fmt.Sprintf(`
		UPDATE lead_assignments
		SET comments = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, assignmentColumns)

	assignment, err := scanAssignment(r.pool.QueryRow(ctx, query, id, comment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, apperr.NotFound(assignmentNotFoundMessage)
		}
		return domain.Assignment{}, fmt.Errorf("set assignment comment: %w", err)
	}
	return assignment, nil
}
