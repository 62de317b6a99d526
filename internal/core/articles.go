package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/nexaread/backend/internal/filter"
	"github.com/nexaread/backend/internal/utils/collectionutils"
	"github.com/nexaread/backend/internal/utils/databaseutils"
	"github.com/nexaread/backend/internal/utils/functional"
	"github.com/nexaread/backend/internal/utils/stringutils"
	"github.com/nexaread/backend/models"
)

const summaryColumns = `
	a.id, a.title, a.image, a.category, a.author_id, a.created_at,
	(SELECT COUNT(*) FROM article_reactions r WHERE r.article_id = a.id AND r.kind = 'like'),
	(SELECT COUNT(*) FROM article_reactions r WHERE r.article_id = a.id AND r.kind = 'dislike'),
	(SELECT COUNT(*) FROM blocked_articles b WHERE b.article_id = a.id)
`

func scanArticle(rows *sql.Rows) (*models.Article, error) {
	var article = &models.Article{}

	if err := rows.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Image,
		&article.Category,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return article, nil
}

func scanArticleSummary(rows *sql.Rows) (*models.ArticleSummary, error) {
	var summary = &models.ArticleSummary{}

	if err := rows.Scan(
		&summary.ID,
		&summary.Title,
		&summary.Image,
		&summary.Category,
		&summary.AuthorID,
		&summary.CreatedAt,
		&summary.Likes,
		&summary.Dislikes,
		&summary.Blocks,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return summary, nil
}

// CreateArticle persists the article and its ordered tag sequence in one
// transaction.
func (c *Core) CreateArticle(ctx context.Context, article *models.Article) (*models.Article, error) {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		insertSQL := `
			INSERT INTO articles (title, content, image, category, author_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			RETURNING id, created_at, updated_at
		`

		args := []any{article.Title, article.Content, article.Image, article.Category, article.AuthorID}
		_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, insertSQL, func(rows *sql.Rows) (*models.Article, error) {
			if err := rows.Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt); err != nil {
				return nil, xerrors.New(err)
			}
			return article, nil
		}, args...)
		if err != nil {
			return xerrors.New(err)
		}

		return c.insertTags(txCtx, article.ID, article.Tags)
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("Article created", "article_id", article.ID, "author_id", article.AuthorID)
	return article, nil
}

func (c *Core) GetArticleByID(ctx context.Context, articleID int64) (*models.Article, error) {
	query := `
		SELECT id, title, content, image, category, author_id, created_at, updated_at
		FROM articles
		WHERE id = $1
	`

	article, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, articleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	tagsByArticleID, err := c.GetTagsByArticleIDs(ctx, []int64{article.ID})
	if err != nil {
		return nil, xerrors.New(err)
	}
	article.Tags = collectionutils.GetOrDefault(tagsByArticleID, article.ID, []string{})

	return article, nil
}

// GetArticleWithAuthor is the populated read used by the detail view.
func (c *Core) GetArticleWithAuthor(ctx context.Context, articleID int64) (*models.Article, *models.Author, error) {
	query := `
		SELECT a.id, a.title, a.content, a.image, a.category, a.author_id, a.created_at, a.updated_at,
		       u.id, u.first_name, u.last_name, u.profile_image
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = $1
	`

	type articleWithAuthor struct {
		article *models.Article
		author  *models.Author
	}

	result, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*articleWithAuthor, error) {
		var article = &models.Article{}
		var author = &models.Author{}

		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.Image,
			&article.Category,
			&article.AuthorID,
			&article.CreatedAt,
			&article.UpdatedAt,
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&author.ProfileImage,
		); err != nil {
			return nil, xerrors.New(err)
		}
		return &articleWithAuthor{article: article, author: author}, nil
	}, articleID)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil, xerrors.New(NoRecordFound)
		default:
			return nil, nil, xerrors.New(err)
		}
	}

	tagsByArticleID, err := c.GetTagsByArticleIDs(ctx, []int64{result.article.ID})
	if err != nil {
		return nil, nil, xerrors.New(err)
	}
	result.article.Tags = collectionutils.GetOrDefault(tagsByArticleID, result.article.ID, []string{})

	return result.article, result.author, nil
}

// UpdateArticle overwrites every mutable field and replaces the tag
// sequence, all in one transaction.
func (c *Core) UpdateArticle(ctx context.Context, article *models.Article) (*models.Article, error) {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		updateSQL := `
			UPDATE articles
			SET title = $1, content = $2, image = $3, category = $4, updated_at = now()
			WHERE id = $5
			RETURNING created_at, updated_at
		`

		args := []any{article.Title, article.Content, article.Image, article.Category, article.ID}
		_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, updateSQL, func(rows *sql.Rows) (*models.Article, error) {
			if err := rows.Scan(&article.CreatedAt, &article.UpdatedAt); err != nil {
				return nil, xerrors.New(err)
			}
			return article, nil
		}, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return xerrors.New(NoRecordFound)
			}
			return xerrors.New(err)
		}

		deleteTagsSQL := `
			DELETE FROM article_tags
			WHERE article_id = $1
		`
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, deleteTagsSQL, article.ID); err != nil {
			return xerrors.New(err)
		}

		return c.insertTags(txCtx, article.ID, article.Tags)
	})

	if err != nil {
		return nil, err
	}

	c.log.Info("Article updated", "article_id", article.ID)
	return article, nil
}

// DeleteArticle hard-deletes the article. Tags, reactions and every user's
// blocked-set entry for it go in the same transaction, so no dangling
// references survive the delete.
func (c *Core) DeleteArticle(ctx context.Context, articleID int64) error {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		cleanupStatements := []string{
			`DELETE FROM article_tags WHERE article_id = $1`,
			`DELETE FROM article_reactions WHERE article_id = $1`,
			`DELETE FROM blocked_articles WHERE article_id = $1`,
		}
		for _, statement := range cleanupStatements {
			if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, statement, articleID); err != nil {
				return xerrors.New(err)
			}
		}

		deleteSQL := `
			DELETE FROM articles
			WHERE id = $1
		`
		affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, deleteSQL, articleID)
		if err != nil {
			return xerrors.New(err)
		}
		if affected == 0 {
			return xerrors.New(NoRecordFound)
		}

		return nil
	})

	if err != nil {
		return err
	}

	c.log.Info("Article deleted", "article_id", articleID)
	return nil
}

// GetArticlesByAuthor returns the author's own articles, newest first, with
// reaction and block counts summarised.
func (c *Core) GetArticlesByAuthor(ctx context.Context, authorID int64, filters filter.Filter) ([]*models.ArticleSummary, filter.Metadata, error) {
	countSQL := `
		SELECT COUNT(*)
		FROM articles
		WHERE author_id = $1
	`

	var totalArticles int64
	executor := databaseutils.GetSQLExecutor(ctx, c.db)
	if err := executor.QueryRowContext(ctx, countSQL, authorID).Scan(&totalArticles); err != nil {
		return nil, filter.Metadata{}, xerrors.New(err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		WHERE a.author_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2 OFFSET $3
	`, summaryColumns)

	summaries, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanArticleSummary, authorID, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, filter.Metadata{}, xerrors.New(err)
	}

	if err := c.attachTags(ctx, summaries); err != nil {
		return nil, filter.Metadata{}, err
	}

	return summaries, filter.CalculateMetadata(totalArticles, filters.PageSize), nil
}

// GetTagsByArticleIDs loads the ordered tag sequences for a set of articles.
func (c *Core) GetTagsByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]string, error) {
	if len(articleIDs) == 0 {
		return map[int64][]string{}, nil
	}

	placeholders, args := stringutils.INClause(articleIDs)
	query := fmt.Sprintf(`
		SELECT article_id, name
		FROM article_tags
		WHERE article_id IN (%s)
		ORDER BY article_id, position
	`, strings.Join(placeholders, ", "))

	type articleTag struct {
		articleID int64
		name      string
	}

	tagRows, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (articleTag, error) {
		var tag articleTag
		if err := rows.Scan(&tag.articleID, &tag.name); err != nil {
			return articleTag{}, xerrors.New(err)
		}
		return tag, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	grouped := collectionutils.GroupBy(tagRows, func(tag articleTag) int64 { return tag.articleID })
	tagsByArticleID := make(map[int64][]string, len(grouped))
	for id, tags := range grouped {
		tagsByArticleID[id] = functional.Map(tags, func(tag articleTag) string { return tag.name })
	}

	return tagsByArticleID, nil
}

func (c *Core) insertTags(ctx context.Context, articleID int64, tags []string) error {
	insertSQL := `
		INSERT INTO article_tags (article_id, position, name)
		VALUES ($1, $2, $3)
	`
	for position, name := range tags {
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, articleID, position, name); err != nil {
			return xerrors.New(err)
		}
	}

	return nil
}

func (c *Core) attachTags(ctx context.Context, summaries []*models.ArticleSummary) error {
	articleIDs := make([]int64, len(summaries))
	for i, summary := range summaries {
		articleIDs[i] = summary.ID
	}

	tagsByArticleID, err := c.GetTagsByArticleIDs(ctx, articleIDs)
	if err != nil {
		return err
	}

	for _, summary := range summaries {
		summary.Tags = collectionutils.GetOrDefault(tagsByArticleID, summary.ID, []string{})
	}

	return nil
}
