// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/gabrieldeam/sysane/internal/server/models"
	serr "github.com/gabrieldeam/sysane/internal/shared/errors"
)

// код postgres unique_violation
const pgUniqueViolation = "23505"

const userColumns = `id, name, email, phone, company_name, company_size, work_area, department,
	accepted_privacy_policy, password_hash, is_verified, created_at, updated_at`

// UsersRepository — хранилище учётных записей (таблица users).
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// FindByEmail ищет пользователя по email (email уже нормализован сервисом).
//
// Ошибки: ErrNotFound, ErrInternal.
func (r *UsersRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=$1`,
		email,
	)
	return scanUser(row)
}

// FindByID ищет пользователя по id.
//
// Ошибки: ErrNotFound, ErrInternal.
func (r *UsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`,
		id,
	)
	return scanUser(row)
}

// Create вставляет нового пользователя и возвращает его с id и временными метками из БД.
//
// Уникальность email гарантирует constraint users_email_key:
// при гонке двух регистраций вторая получит ErrDuplicateEmail.
func (r *UsersRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	created := *u

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, phone, company_name, company_size, work_area, department,
		                    accepted_privacy_policy, password_hash, is_verified)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Phone,
		nullString(u.CompanyName), nullCompanySize(u.CompanySize),
		string(u.WorkArea), string(u.Department),
		u.AcceptedPrivacyPolicy, u.PasswordHash, u.IsVerified,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, serr.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: create user: %v", serr.ErrInternal, err)
	}

	return &created, nil
}

// Save сохраняет изменяемые поля пользователя: флаг подтверждения и хэш пароля.
//
// Ошибки: ErrNotFound (строка не обновлена), ErrInternal.
func (r *UsersRepository) Save(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET is_verified=$2, password_hash=$3, updated_at=now()
		 WHERE id=$1`,
		u.ID, u.IsVerified, u.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("%w: save user: %v", serr.ErrInternal, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: save user: %v", serr.ErrInternal, err)
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}

// Ping проверяет доступность БД (для /healthz).
func (r *UsersRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", serr.ErrInternal, err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u           models.User
		companyName sql.NullString
		companySize sql.NullString
		workArea    string
		department  string
	)

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone,
		&companyName, &companySize, &workArea, &department,
		&u.AcceptedPrivacyPolicy, &u.PasswordHash, &u.IsVerified,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scan user: %v", serr.ErrInternal, err)
	}

	if companyName.Valid {
		u.CompanyName = &companyName.String
	}
	if companySize.Valid {
		size := models.CompanySize(companySize.String)
		u.CompanySize = &size
	}
	u.WorkArea = models.WorkArea(workArea)
	u.Department = models.Department(department)

	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullCompanySize(s *models.CompanySize) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*s), Valid: true}
}
