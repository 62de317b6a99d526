package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mdobak/go-xerrors"
	"github.com/nexaread/backend/internal/auth"
	"github.com/nexaread/backend/internal/utils/databaseutils"
)

var (
	ErrDuplicateEmail = xerrors.Message("Email address already exists")
	ErrDuplicatePhone = xerrors.Message("Phone number already exists")
	NoRecordFound     = xerrors.Message("No record found")
)

// UpdatableUserColumns is the allow-listed set of single-field profile
// mutations. Anything outside it is rejected before a query is built.
var UpdatableUserColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"phone":     "phone",
	"dob":       "dob",
}

const userColumns = `id, email, phone, password, first_name, last_name, dob, is_verified, profile_image, created_at, updated_at`

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}

	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.DateOfBirth,
		&user.IsVerified,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func (c *Core) CreateNewUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (email, phone, password, first_name, last_name, dob)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_verified, created_at, updated_at
	`
	args := []any{user.Email, user.Phone, user.Password, user.FirstName, user.LastName, user.DateOfBirth}
	_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, args...)

	if err != nil {
		return translateUserUniqueViolation(err)
	}

	c.log.Info("New user created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (c *Core) GetUserByID(ctx context.Context, userID int64) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE id = $1
	`, userColumns)

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE email = $1
	`, userColumns)

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

// GetUserByEmailOrPhone resolves a login identifier. Either argument may be
// blank, the caller guarantees at least one is not. When both are supplied
// and match different accounts, the email match wins.
func (c *Core) GetUserByEmailOrPhone(ctx context.Context, email, phone string) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE (email = $1 AND $1 <> '') OR (phone = $2 AND $2 <> '')
		ORDER BY (email = $1 AND $1 <> '') DESC
		LIMIT 1
	`, userColumns)

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, email, phone)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

// MarkUserVerified flips is_verified to true. Verification is one-way and
// idempotent, re-verifying an already verified user is not an error.
func (c *Core) MarkUserVerified(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET is_verified = TRUE, updated_at = now()
		WHERE id = $1
	`

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, userID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	c.log.Info("User verified", "user_id", userID)
	return nil
}

// UpdateUserField applies a single allow-listed profile mutation. The column
// name is taken from UpdatableUserColumns, never from the caller input.
func (c *Core) UpdateUserField(ctx context.Context, userID int64, column string, value any) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET %s = $1, updated_at = now()
		WHERE id = $2
		RETURNING %s
	`, column, userColumns)

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, value, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, translateUserUniqueViolation(err)
		}
	}

	c.log.Info("User updated successfully", "user_id", user.ID, "column", column)
	return user, nil
}

func (c *Core) UpdatePassword(ctx context.Context, userID int64, hashedPassword []byte) error {
	query := `
		UPDATE users
		SET password = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, hashedPassword, userID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}

func (c *Core) UpdateProfileImage(ctx context.Context, userID int64, imageRef string) error {
	query := `
		UPDATE users
		SET profile_image = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, imageRef, userID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}

func (c *Core) GetPreferences(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT category
		FROM user_preferences
		WHERE user_id = $1
		ORDER BY category
	`

	categories, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (string, error) {
		var category string
		if err := rows.Scan(&category); err != nil {
			return "", xerrors.New(err)
		}
		return category, nil
	}, userID)

	if err != nil {
		return nil, xerrors.New(err)
	}

	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// ReplacePreferences swaps the preference set wholesale inside one
// transaction.
func (c *Core) ReplacePreferences(ctx context.Context, userID int64, categories []string) error {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		deleteSQL := `
			DELETE FROM user_preferences
			WHERE user_id = $1
		`
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, deleteSQL, userID); err != nil {
			return xerrors.New(err)
		}

		insertSQL := `
			INSERT INTO user_preferences (user_id, category)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
		for _, category := range categories {
			if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, insertSQL, userID, category); err != nil {
				return xerrors.New(err)
			}
		}

		return nil
	})

	if err != nil {
		return xerrors.New(err)
	}

	return nil
}

func translateUserUniqueViolation(err error) error {
	switch {
	case err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"`:
		return xerrors.New(ErrDuplicateEmail)
	case err.Error() == `pq: duplicate key value violates unique constraint "users_phone_key"`:
		return xerrors.New(ErrDuplicatePhone)
	default:
		return xerrors.New(err)
	}
}
