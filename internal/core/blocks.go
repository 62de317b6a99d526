package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/nexaread/backend/internal/utils/databaseutils"
)

// BlockArticle suppresses the article from the viewer's own feed and detail
// view. One relation holds both the viewer's blocked set and the article's
// blocker set, so the block is a single atomic insert. Set-add semantics,
// blocking twice is not an error.
func (c *Core) BlockArticle(ctx context.Context, userID, articleID int64) error {
	insertSQL := `
		INSERT INTO blocked_articles (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, userID, articleID); err != nil {
		return xerrors.New(err)
	}

	c.log.Info("Article blocked", "user_id", userID, "article_id", articleID)
	return nil
}

// UnblockArticle removes the suppression. Unblocking an article that was
// never blocked is a no-op.
func (c *Core) UnblockArticle(ctx context.Context, userID, articleID int64) error {
	deleteSQL := `
		DELETE FROM blocked_articles
		WHERE user_id = $1 AND article_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, userID, articleID); err != nil {
		return xerrors.New(err)
	}

	c.log.Info("Article unblocked", "user_id", userID, "article_id", articleID)
	return nil
}

func (c *Core) IsArticleBlockedByUser(ctx context.Context, userID, articleID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocked_articles WHERE user_id = $1 AND article_id = $2
		)
	`

	blocked, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (bool, error) {
		var blocked bool
		if err := rows.Scan(&blocked); err != nil {
			return false, xerrors.New(err)
		}
		return blocked, nil
	}, userID, articleID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return blocked, nil
}

func (c *Core) BlockCount(ctx context.Context, articleID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM blocked_articles
		WHERE article_id = $1
	`

	executor := databaseutils.GetSQLExecutor(ctx, c.db)
	var count int64
	if err := executor.QueryRowContext(ctx, query, articleID).Scan(&count); err != nil {
		return 0, xerrors.New(err)
	}

	return count, nil
}
