package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"realtor_portal_backend/internal/leads/domain"
	"realtor_portal_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

// Unique violations on lead_code are retried with a fresh code this many
// times before giving up.
const maxCodeRetries = 3

const leadColumns = `id, lead_code, first_name, last_name, email, phone, address, city, state, zip_code, is_homeowner, property_value, has_realtor_contract, bedrooms, bathrooms, notes, recording_url, status, created_by, created_at, updated_at`

// Repo implements the lead repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lead repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.LeadCode, &l.FirstName, &l.LastName, &l.Email, &l.Phone,
		&l.Address, &l.City, &l.State, &l.ZipCode,
		&l.IsHomeowner, &l.PropertyValue, &l.HasRealtorContract,
		&l.Bedrooms, &l.Bathrooms, &l.Notes, &l.RecordingURL,
		&l.Status, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create inserts a lead with a freshly generated lead code, retrying on code
// collisions.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Lead, error) {
	query := fmt.Sprintf(`
		INSERT INTO leads (lead_code, first_name, last_name, email, phone, address, city, state, zip_code, is_homeowner, property_value, has_realtor_contract, bedrooms, bathrooms, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING %s`, leadColumns)

	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code, err := domain.NewLeadCode()
		if err != nil {
			return domain.Lead{}, fmt.Errorf("create lead: %w", err)
		}

		lead, err := scanLead(r.pool.QueryRow(ctx, query,
			code, params.FirstName, params.LastName, params.Email, params.Phone,
			params.Address, params.City, params.State, params.ZipCode,
			params.IsHomeowner, params.PropertyValue, params.HasRealtorContract,
			params.Bedrooms, params.Bathrooms, params.Notes, params.CreatedBy,
		))
		if err == nil {
			return lead, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "lead_code") {
			continue
		}
		return domain.Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return domain.Lead{}, apperr.Conflict("could not allocate a unique lead code")
}

// GetByID retrieves a lead by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// GetByCode retrieves a lead by its public lead code.
func (r *Repo) GetByCode(ctx context.Context, code string) (domain.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE lead_code = $1`, leadColumns)
	lead, err := scanLead(r.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("get lead by code: %w", err)
	}
	return lead, nil
}

// List lists leads with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.ZipCode != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("zip_code = $%d", argIdx))
		args = append(args, params.ZipCode)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(lead_code ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR city ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at < $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	sortColumn := "created_at"
	switch params.SortBy {
	case "updatedAt":
		sortColumn = "updated_at"
	case "zipCode":
		sortColumn = "zip_code"
	case "status":
		sortColumn = "status"
	}

	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", rows.Err())
	}

	return items, total, nil
}

// Update applies the QA review edit.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (domain.Lead, error) {
	query := fmt.Sprintf(`
		UPDATE leads
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			address = COALESCE($6, address),
			city = COALESCE($7, city),
			state = COALESCE($8, state),
			zip_code = COALESCE($9, zip_code),
			is_homeowner = COALESCE($10, is_homeowner),
			property_value = COALESCE($11, property_value),
			has_realtor_contract = COALESCE($12, has_realtor_contract),
			bedrooms = COALESCE($13, bedrooms),
			bathrooms = COALESCE($14, bathrooms),
			notes = COALESCE($15, notes),
			recording_url = COALESCE($16, recording_url),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		params.ID, params.FirstName, params.LastName, params.Email, params.Phone,
		params.Address, params.City, params.State, params.ZipCode,
		params.IsHomeowner, params.PropertyValue, params.HasRealtorContract,
		params.Bedrooms, params.Bathrooms, params.Notes, params.RecordingURL,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

// UpdateStatus sets a lead's status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	query := fmt.Sprintf(`
		UPDATE leads
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("update lead status: %w", err)
	}
	return lead, nil
}

// Delete removes a lead. Assignments cascade at the database level.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// Metrics aggregates lead counts by status, overall and per submission day,
// within the given window.
func (r *Repo) Metrics(ctx context.Context, params MetricsParams) (domain.Metrics, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at < $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}
	whereClause := strings.Join(whereClauses, " AND ")

	const countColumns = `
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'accepted'),
		COUNT(*) FILTER (WHERE status = 'rejected'),
		COUNT(*) FILTER (WHERE status = 'no_coverage'),
		COUNT(*) FILTER (WHERE status = 'rejected_overturned')`

	var m domain.Metrics
	totalQuery := fmt.Sprintf(`SELECT %s FROM leads WHERE %s`, countColumns, whereClause)
	if err := r.pool.QueryRow(ctx, totalQuery, args...).Scan(
		&m.Total, &m.Pending, &m.Accepted, &m.Rejected, &m.NoCoverage, &m.RejectedOverturned,
	); err != nil {
		return domain.Metrics{}, fmt.Errorf("lead metrics totals: %w", err)
	}

	if m.Total > 0 {
		m.ConversionRate = float64(m.Accepted) / float64(m.Total)
	}

	dailyQuery := fmt.Sprintf(`
		SELECT date_trunc('day', created_at) AS day, %s
		FROM leads
		WHERE %s
		GROUP BY day
		ORDER BY day ASC`, countColumns, whereClause)

	rows, err := r.pool.Query(ctx, dailyQuery, args...)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("lead metrics daily: %w", err)
	}
	defer rows.Close()

	m.Daily = make([]domain.DayCounts, 0)
	for rows.Next() {
		var d domain.DayCounts
		if err := rows.Scan(&d.Day, &d.Total, &d.Pending, &d.Accepted, &d.Rejected, &d.NoCoverage, &d.RejectedOverturned); err != nil {
			return domain.Metrics{}, fmt.Errorf("scan lead metrics day: %w", err)
		}
		m.Daily = append(m.Daily, d)
	}
	if rows.Err() != nil {
		return domain.Metrics{}, fmt.Errorf("iterate lead metrics: %w", rows.Err())
	}

	return m, nil
}

// ListAcceptedWithoutAssignments returns accepted leads that have no
// assignments at all. These are the demotion candidates for the reconciler.
func (r *Repo) ListAcceptedWithoutAssignments(ctx context.Context) ([]domain.Lead, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE status = 'accepted'
		AND NOT EXISTS (SELECT 1 FROM lead_assignments a WHERE a.lead_id = leads.id)
		ORDER BY created_at ASC`, leadColumns)

	return r.queryLeads(ctx, query)
}

// ListNoCoverage returns leads currently in no_coverage, oldest first. These
// are the promotion candidates for the reconciler.
func (r *Repo) ListNoCoverage(ctx context.Context) ([]domain.Lead, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE status = 'no_coverage'
		ORDER BY created_at ASC`, leadColumns)

	return r.queryLeads(ctx, query)
}

func (r *Repo) queryLeads(ctx context.Context, query string, args ...interface{}) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate leads: %w", rows.Err())
	}
	return items, nil
}
