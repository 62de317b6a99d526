package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/nexaread/backend/internal/utils/databaseutils"
	"github.com/nexaread/backend/models"
)

// GetReaction returns the viewer's reaction on the article, or the empty
// string when none is registered.
func (c *Core) GetReaction(ctx context.Context, articleID, userID int64) (string, error) {
	query := `
		SELECT kind
		FROM article_reactions
		WHERE article_id = $1 AND user_id = $2
	`

	kind, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (string, error) {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return "", xerrors.New(err)
		}
		return kind, nil
	}, articleID, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", xerrors.New(err)
	}

	return kind, nil
}

// ToggleReaction flips the viewer's reaction. Repeating the registered kind
// removes it, a different kind replaces it. A single row per (article, user)
// keeps like and dislike mutually exclusive.
func (c *Core) ToggleReaction(ctx context.Context, articleID, userID int64, kind string) (*models.ReactionResult, error) {
	result := &models.ReactionResult{}

	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		currentKind, err := c.GetReaction(txCtx, articleID, userID)
		if err != nil {
			return err
		}

		var resultingKind string
		if currentKind == kind {
			deleteSQL := `
				DELETE FROM article_reactions
				WHERE article_id = $1 AND user_id = $2
			`
			if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, deleteSQL, articleID, userID); err != nil {
				return xerrors.New(err)
			}
		} else {
			upsertSQL := `
				INSERT INTO article_reactions (article_id, user_id, kind)
				VALUES ($1, $2, $3)
				ON CONFLICT (article_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
			`
			if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, upsertSQL, articleID, userID, kind); err != nil {
				return xerrors.New(err)
			}
			resultingKind = kind
		}

		likes, dislikes, err := c.ReactionCounts(txCtx, articleID)
		if err != nil {
			return err
		}

		result.Likes = likes
		result.Dislikes = dislikes
		if resultingKind != "" {
			result.UserReaction = &resultingKind
		}
		return nil
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	return result, nil
}

func (c *Core) ReactionCounts(ctx context.Context, articleID int64) (int64, int64, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'like'),
			COUNT(*) FILTER (WHERE kind = 'dislike')
		FROM article_reactions
		WHERE article_id = $1
	`

	executor := databaseutils.GetSQLExecutor(ctx, c.db)
	var likes, dislikes int64
	if err := executor.QueryRowContext(ctx, query, articleID).Scan(&likes, &dislikes); err != nil {
		return 0, 0, xerrors.New(err)
	}

	return likes, dislikes, nil
}
