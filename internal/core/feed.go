package core

import (
	"context"
	"fmt"

	"github.com/mdobak/go-xerrors"
	"github.com/nexaread/backend/internal/filter"
	"github.com/nexaread/backend/internal/utils/databaseutils"
	"github.com/nexaread/backend/models"
)

const feedPredicate = `
	a.category IN (SELECT category FROM user_preferences WHERE user_id = $1)
	AND a.id NOT IN (SELECT article_id FROM blocked_articles WHERE user_id = $1)
	AND a.author_id <> $1
`

// DiscoveryFeed returns articles matching the viewer's preferences,
// excluding the viewer's own articles and anything in their blocked set.
// The sort is stable (creation time descending, tie-broken by id) so page
// boundaries do not shift between calls.
func (c *Core) DiscoveryFeed(ctx context.Context, viewerID int64, filters filter.Filter) ([]*models.ArticleSummary, filter.Metadata, error) {
	countSQL := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM articles a
		WHERE %s
	`, feedPredicate)

	var totalArticles int64
	executor := databaseutils.GetSQLExecutor(ctx, c.db)
	if err := executor.QueryRowContext(ctx, countSQL, viewerID).Scan(&totalArticles); err != nil {
		return nil, filter.Metadata{}, xerrors.New(err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		WHERE %s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2 OFFSET $3
	`, summaryColumns, feedPredicate)

	summaries, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanArticleSummary, viewerID, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, filter.Metadata{}, xerrors.New(err)
	}

	if err := c.attachTags(ctx, summaries); err != nil {
		return nil, filter.Metadata{}, err
	}

	return summaries, filter.CalculateMetadata(totalArticles, filters.PageSize), nil
}
