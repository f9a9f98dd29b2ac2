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

	"realtor_portal_backend/platform/apperr"
)

const (
	realtorNotFoundMessage  = "realtor not found"
	realtorDuplicateMessage = "a realtor with this email or agent code already exists"
)

// Sign-up pricing in whole dollars, used by the sales summary.
const (
	individualPriceUSD = 299
	teamPriceUSD       = 499
)

const realtorColumns = `id, agent_code, first_name, last_name, email, phone, brokerage, state, zip_codes, central_zip_code, radius, sign_up_category, team_members, is_active, contract_sent, contact_signed, user_id, created_by, created_at, updated_at`

// Repo implements the realtor repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new realtor repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanRealtor(row pgx.Row) (Realtor, error) {
	var r Realtor
	err := row.Scan(
		&r.ID, &r.AgentCode, &r.FirstName, &r.LastName, &r.Email, &r.Phone,
		&r.Brokerage, &r.State, &r.ZipCodes, &r.CentralZipCode, &r.Radius,
		&r.SignUpCategory, &r.TeamMembers, &r.IsActive, &r.ContractSent,
		&r.ContactSigned, &r.UserID, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create inserts the realtor's portal user and profile in one transaction.
// The user starts with the realtor role and inactive until onboarding
// completes.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Realtor, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Realtor{}, fmt.Errorf("begin create realtor: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, 'realtor', FALSE)
		RETURNING id`,
		strings.ToLower(params.Email), params.PasswordHash, params.FirstName, params.LastName,
	).Scan(&userID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Realtor{}, apperr.Conflict(realtorDuplicateMessage)
		}
		return Realtor{}, fmt.Errorf("create realtor user: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO realtors (agent_code, first_name, last_name, email, phone, brokerage, state, zip_codes, central_zip_code, radius, sign_up_category, team_members, user_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s`, realtorColumns)

	realtor, err := scanRealtor(tx.QueryRow(ctx, query,
		strings.ToUpper(params.AgentCode), params.FirstName, params.LastName,
		strings.ToLower(params.Email), params.Phone, params.Brokerage, params.State,
		params.ZipCodes, params.CentralZipCode, params.Radius,
		params.SignUpCategory, params.TeamMembers, userID, params.CreatedBy,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Realtor{}, apperr.Conflict(realtorDuplicateMessage)
		}
		return Realtor{}, fmt.Errorf("create realtor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Realtor{}, fmt.Errorf("commit create realtor: %w", err)
	}
	return realtor, nil
}

// GetByID retrieves a realtor by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Realtor, error) {
	query := fmt.Sprintf(`SELECT %s FROM realtors WHERE id = $1`, realtorColumns)
	realtor, err := scanRealtor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Realtor{}, apperr.NotFound(realtorNotFoundMessage)
		}
		return Realtor{}, fmt.Errorf("get realtor by id: %w", err)
	}
	return realtor, nil
}

// GetByUserID retrieves the realtor profile linked to a portal user.
func (r *Repo) GetByUserID(ctx context.Context, userID uuid.UUID) (Realtor, error) {
	query := fmt.Sprintf(`SELECT %s FROM realtors WHERE user_id = $1`, realtorColumns)
	realtor, err := scanRealtor(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Realtor{}, apperr.NotFound(realtorNotFoundMessage)
		}
		return Realtor{}, fmt.Errorf("get realtor by user id: %w", err)
	}
	return realtor, nil
}

// List lists realtors with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Realtor, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.CreatedBy != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_by = $%d", argIdx))
		args = append(args, *params.CreatedBy)
		argIdx++
	}
	if params.IsActive != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *params.IsActive)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(agent_code ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM realtors WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count realtors: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM realtors
		WHERE %s
		ORDER BY created_at DESC, id ASC
		LIMIT $%d OFFSET $%d
	`, realtorColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list realtors: %w", err)
	}
	defer rows.Close()

	items := make([]Realtor, 0)
	for rows.Next() {
		realtor, err := scanRealtor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan realtor: %w", err)
		}
		items = append(items, realtor)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate realtors: %w", rows.Err())
	}

	return items, total, nil
}

// ListActive returns every active realtor. The coverage matcher evaluates the
// full set in memory; realtor counts are small relative to lead volume.
func (r *Repo) ListActive(ctx context.Context) ([]Realtor, error) {
	query := fmt.Sprintf(`SELECT %s FROM realtors WHERE is_active ORDER BY created_at ASC`, realtorColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active realtors: %w", err)
	}
	defer rows.Close()

	items := make([]Realtor, 0)
	for rows.Next() {
		realtor, err := scanRealtor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan realtor: %w", err)
		}
		items = append(items, realtor)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate realtors: %w", rows.Err())
	}
	return items, nil
}

// Update updates a realtor profile. Activation and zip changes take effect on
// the next reconcile tick.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Realtor, error) {
	query := fmt.Sprintf(`
		UPDATE realtors
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			phone = COALESCE($4, phone),
			brokerage = COALESCE($5, brokerage),
			state = COALESCE($6, state),
			zip_codes = COALESCE($7, zip_codes),
			central_zip_code = COALESCE($8, central_zip_code),
			radius = COALESCE($9, radius),
			sign_up_category = COALESCE($10, sign_up_category),
			team_members = COALESCE($11, team_members),
			is_active = COALESCE($12, is_active),
			contract_sent = COALESCE($13, contract_sent),
			contact_signed = COALESCE($14, contact_signed),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, realtorColumns)

	realtor, err := scanRealtor(r.pool.QueryRow(ctx, query,
		params.ID, params.FirstName, params.LastName, params.Phone, params.Brokerage,
		params.State, params.ZipCodes, params.CentralZipCode, params.Radius,
		params.SignUpCategory, params.TeamMembers,
		params.IsActive, params.ContractSent, params.ContactSigned,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Realtor{}, apperr.NotFound(realtorNotFoundMessage)
		}
		return Realtor{}, fmt.Errorf("update realtor: %w", err)
	}
	return realtor, nil
}

// SalesSummary aggregates onboarding counts and sign-up revenue for realtors
// created by one sales user.
func (r *Repo) SalesSummary(ctx context.Context, createdBy uuid.UUID) (SalesSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE sign_up_category = 'individual'),
			COUNT(*) FILTER (WHERE sign_up_category = 'team')
		FROM realtors
		WHERE created_by = $1`

	var s SalesSummary
	if err := r.pool.QueryRow(ctx, query, createdBy).Scan(&s.TotalRealtors, &s.Individuals, &s.Teams); err != nil {
		return SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}
	s.RevenueUSD = s.Individuals*individualPriceUSD + s.Teams*teamPriceUSD
	return s, nil
}
