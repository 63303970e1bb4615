package adapters

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
	txcontext "veriflow/pkg/platform/tx"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const pgUniqueViolation = "23505"

// PostgresUserDirectory reads the users table owned by the registration service.
type PostgresUserDirectory struct {
	pool *pgxpool.Pool
}

func NewPostgresUserDirectory(pool *pgxpool.Pool) *PostgresUserDirectory {
	return &PostgresUserDirectory{pool: pool}
}

func (d *PostgresUserDirectory) GetByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query, args, err := psql.Select("id", "name", "email", "role").
		From("users").
		Where(sq.Eq{"id": uuid.UUID(userID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user select: %w", err)
	}
	user, err := scanUser(txcontext.QuerierFrom(ctx, d.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// FindByRole orders by creation time so assignment ties are stable.
func (d *PostgresUserDirectory) FindByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query, args, err := psql.Select("id", "name", "email", "role").
		From("users").
		Where(sq.Eq{"role": string(role)}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build users by role select: %w", err)
	}
	rows, err := txcontext.QuerierFrom(ctx, d.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users by role: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// Create inserts a user. Used by seeding and tests; registration lives elsewhere.
func (d *PostgresUserDirectory) Create(ctx context.Context, user *models.User) error {
	query, args, err := psql.Insert("users").
		Columns("id", "name", "email", "role").
		Values(uuid.UUID(user.ID), user.Name, user.Email, string(user.Role)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}
	if _, err := txcontext.QuerierFrom(ctx, d.pool).Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SeedUser inserts a user built by NewSeedUser. An existing user with the
// same email is left untouched and returned.
func (d *PostgresUserDirectory) SeedUser(ctx context.Context, emailAddr string, role models.Role) (*models.User, error) {
	user := NewSeedUser(emailAddr, role)
	err := d.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sentinel.ErrConflict) {
		return nil, err
	}
	return d.getByEmail(ctx, emailAddr)
}

func (d *PostgresUserDirectory) getByEmail(ctx context.Context, emailAddr string) (*models.User, error) {
	query, args, err := psql.Select("id", "name", "email", "role").
		From("users").
		Where(sq.Eq{"email": emailAddr}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user lookup: %w", err)
	}
	user, err := scanUser(txcontext.QuerierFrom(ctx, d.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user   models.User
		userID uuid.UUID
		role   string
	)
	if err := row.Scan(&userID, &user.Name, &user.Email, &role); err != nil {
		return nil, err
	}
	user.ID = id.UserID(userID)
	user.Role = models.Role(role)
	return &user, nil
}
