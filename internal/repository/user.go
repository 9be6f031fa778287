package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/portfolio/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrInvalidRole    = errors.New("invalid role")
)

// UserRepository is the user directory. Lookups by email normalize first.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}

type UserFilter struct {
	Role     model.Role
	Active   *bool
	Provider model.AuthProvider
	Limit    int
	Offset   int
}

const userColumns = `id, name, email, password_hash, role, image, phone, address, bio, is_active,
	email_verified_at, last_login_at, auth_provider, notification_preferences, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// prepareForCreate fills defaults shared by every backend.
func prepareForCreate(user *model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if !user.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, user.Role)
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := prepareForCreate(user)
	if err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `INSERT INTO users (` + userColumns + `) VALUES (
		:id, :name, :email, :password_hash, :role, :image, :phone, :address, :bio, :is_active,
		:email_verified_at, :last_login_at, :auth_provider, :notification_preferences, :created_at, :updated_at)`

	_, err = r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, model.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, *upd.Role)
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Role != nil {
		set("role", *upd.Role)
	}
	if upd.Image != nil {
		set("image", nullable(*upd.Image))
	}
	if upd.Phone != nil {
		set("phone", nullable(*upd.Phone))
	}
	if upd.Address != nil {
		set("address", nullable(*upd.Address))
	}
	if upd.Bio != nil {
		set("bio", nullable(*upd.Bio))
	}
	if upd.IsActive != nil {
		set("is_active", *upd.IsActive)
	}
	if upd.EmailVerifiedAt != nil {
		set("email_verified_at", upd.EmailVerifiedAt.UTC())
	}
	if upd.LastLoginAt != nil {
		set("last_login_at", upd.LastLoginAt.UTC())
	}
	if upd.AuthProvider != nil {
		set("auth_provider", *upd.AuthProvider)
	}
	if upd.PasswordHash != nil {
		set("password_hash", nullable(*upd.PasswordHash))
	}
	if upd.NotificationPreferences != nil {
		set("notification_preferences", *upd.NotificationPreferences)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]model.User, error) {
	where, args := filter.sqlWhere()
	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	users := []model.User{}
	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) Count(ctx context.Context, filter UserFilter) (int, error) {
	where, args := filter.sqlWhere()

	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (f UserFilter) sqlWhere() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Role != "" {
		args = append(args, f.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if f.Provider != "" {
		args = append(args, f.Provider)
		conds = append(conds, fmt.Sprintf("auth_provider = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// nullable maps an empty optional string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
