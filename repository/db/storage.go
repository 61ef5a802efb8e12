package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"zenith/internal/domain/errors"
	"zenith/internal/domain/models"
	"zenith/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const queryTimeout = 15 * time.Second

const uniqueViolation = "23505"

type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(connStr string) (*Storage, error) {
	if err := ValidateDSN(connStr); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to create connection pool", "err", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("failed to connect to database", "err", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}

	logger.Info("database connection established")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() {
	s.pool.Close()
}

const userColumns = `id, name, email, password, avatar, theme, sound_enabled, autosave_enabled,
	reminders_enabled, notifications, is_active, last_active, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Avatar,
		&u.Settings.Theme, &u.Settings.SoundEnabled, &u.Settings.AutosaveEnabled,
		&u.Settings.RemindersEnabled, &u.Settings.Notifications,
		&u.IsActive, &u.LastActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user.Email = models.NormalizeEmail(user.Email)
	_, err := s.pool.Exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, user.Name, user.Email, user.Password, user.Avatar,
		user.Settings.Theme, user.Settings.SoundEnabled, user.Settings.AutosaveEnabled,
		user.Settings.RemindersEnabled, user.Settings.Notifications,
		user.IsActive, user.LastActive, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrDuplicateEmail
		}
		logger.Error("failed to create user", "err", err)
		return err
	}
	logger.Debug("user created", "id", user.ID)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		logger.Error("failed to get user", "id", id, "err", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`,
		models.NormalizeEmail(email)))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		logger.Error("failed to get user by email", "err", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user.Email = models.NormalizeEmail(user.Email)
	ct, err := s.pool.Exec(ctx, `UPDATE users SET name = $1, email = $2, password = $3, avatar = $4,
		theme = $5, sound_enabled = $6, autosave_enabled = $7, reminders_enabled = $8,
		notifications = $9, is_active = $10, last_active = $11
		WHERE id = $12`,
		user.Name, user.Email, user.Password, user.Avatar,
		user.Settings.Theme, user.Settings.SoundEnabled, user.Settings.AutosaveEnabled,
		user.Settings.RemindersEnabled, user.Settings.Notifications,
		user.IsActive, user.LastActive, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrDuplicateEmail
		}
		logger.Error("failed to update user", "id", user.ID, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrUserNotFound
	}
	logger.Debug("user updated", "id", user.ID)
	return nil
}

func (s *Storage) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, `UPDATE users SET last_active = $1 WHERE id = $2`, at, id)
	if err != nil {
		logger.Error("failed to touch last active", "id", id, "err", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
