package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/nexaread/backend/internal/core"
	"github.com/nexaread/backend/internal/filter"
	"github.com/nexaread/backend/internal/utils/functional"
	"github.com/nexaread/backend/internal/validator"
	"github.com/nexaread/backend/models"
)

type articleSummaryResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	Category  string    `json:"category"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	Blocks    *int64    `json:"blocks,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

func (app *application) createArticleHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	draft, v := app.readArticleForm(r)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}
	draft.AuthorID = user.ID

	article, err := app.core.CreateArticle(r.Context(), draft)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getOwnArticlesHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	v := validator.New()
	page := app.readInt(r.URL.Query(), "page", 1, v)

	filters := filter.NewFilter(page, filter.OwnArticlesPageSize)
	filter.ValidateFilters(filters, v)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	summaries, metadata, err := app.core.GetArticlesByAuthor(r.Context(), user.ID, filters)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"articles":      summariesResponse(summaries, true),
		"totalPages":    metadata.TotalPages,
		"totalArticles": metadata.TotalArticles,
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getArticleHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	params := httprouter.ParamsFromContext(r.Context())
	articleID, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "Article id must be an integer"})
		return
	}

	article, author, err := app.core.GetArticleWithAuthor(r.Context(), articleID)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	blocked, err := app.core.IsArticleBlockedByUser(r.Context(), user.ID, articleID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if blocked {
		app.forbiddenResponse(w, r)
		return
	}

	likes, dislikes, err := app.core.ReactionCounts(r.Context(), articleID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	blockCount, err := app.core.BlockCount(r.Context(), articleID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// The viewer's reaction state is derived from set membership at read
	// time, it is not stored on the article.
	reaction, err := app.core.GetReaction(r.Context(), articleID, user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	type articleDetailResponse struct {
		ID           int64          `json:"id"`
		Title        string         `json:"title"`
		Content      string         `json:"content"`
		ImageURL     *string        `json:"imageUrl,omitempty"`
		Category     string         `json:"category"`
		Likes        int64          `json:"likes"`
		Dislikes     int64          `json:"dislikes"`
		Blocks       int64          `json:"blocks"`
		Tags         []string       `json:"tags"`
		Author       *models.Author `json:"author"`
		CreatedAt    time.Time      `json:"createdAt"`
		UserReaction *string        `json:"userReaction"`
	}

	detail := &articleDetailResponse{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		ImageURL:  article.Image,
		Category:  article.Category,
		Likes:     likes,
		Dislikes:  dislikes,
		Blocks:    blockCount,
		Tags:      article.Tags,
		Author:    author,
		CreatedAt: article.CreatedAt,
	}
	if reaction != "" {
		detail.UserReaction = &reaction
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": detail}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateArticleHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	draft, v := app.readArticleForm(r)

	articleID, err := strconv.ParseInt(r.FormValue("articleId"), 10, 64)
	if err != nil {
		v.AddError("articleId", "must be an integer")
	}
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	existing, err := app.core.GetArticleByID(r.Context(), articleID)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	// Only the author may edit their article.
	if existing.AuthorID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	draft.ID = articleID
	draft.AuthorID = existing.AuthorID
	if draft.Image == nil {
		draft.Image = existing.Image
	}

	article, err := app.core.UpdateArticle(r.Context(), draft)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article, "message": "Resource updated successfully."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) discoveryFeedHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	v := validator.New()
	page := app.readInt(r.URL.Query(), "page", 1, v)

	filters := filter.NewFilter(page, filter.DiscoveryFeedPageSize)
	filter.ValidateFilters(filters, v)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	summaries, metadata, err := app.core.DiscoveryFeed(r.Context(), user.ID, filters)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"articles": summariesResponse(summaries, false),
		"hasMore":  metadata.HasMore(filters.Page),
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) toggleReactionHandler(w http.ResponseWriter, r *http.Request) {
	type reactionPayload struct {
		ArticleID int64  `json:"articleId"`
		Reaction  string `json:"reaction"`
	}

	var reactionRequest reactionPayload
	if err := app.readJSON(w, r, &reactionRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.Check(reactionRequest.ArticleID > 0, "articleId", "must be provided")
	v.Check(reactionRequest.Reaction == models.ReactionLike || reactionRequest.Reaction == models.ReactionDislike,
		"reaction", "must be either 'like' or 'dislike'")
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	if _, err := app.core.GetArticleByID(r.Context(), reactionRequest.ArticleID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	result, err := app.core.ToggleReaction(r.Context(), reactionRequest.ArticleID, user.ID, reactionRequest.Reaction)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"reaction": result}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) blockArticleHandler(w http.ResponseWriter, r *http.Request) {
	type blockPayload struct {
		ArticleID int64 `json:"articleId"`
	}

	var blockRequest blockPayload
	if err := app.readJSON(w, r, &blockRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	if _, err := app.core.GetArticleByID(r.Context(), blockRequest.ArticleID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.BlockArticle(r.Context(), user.ID, blockRequest.ArticleID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Resource updated successfully."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) unblockArticleHandler(w http.ResponseWriter, r *http.Request) {
	articleID, err := strconv.ParseInt(app.readString(r.URL.Query(), "id", ""), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "Article id must be an integer"})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	if _, err := app.core.GetArticleByID(r.Context(), articleID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.UnblockArticle(r.Context(), user.ID, articleID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Resource updated successfully."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteArticleHandler(w http.ResponseWriter, r *http.Request) {
	articleID, err := strconv.ParseInt(app.readString(r.URL.Query(), "articleId", ""), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "Article id must be an integer"})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	article, err := app.core.GetArticleByID(r.Context(), articleID)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	// Only the author may delete their article.
	if article.AuthorID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.core.DeleteArticle(r.Context(), articleID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Resource deleted successfully."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// readArticleForm parses the multipart article form shared by create and
// update: title, content, category, repeated tags and an optional image.
func (app *application) readArticleForm(r *http.Request) (*models.Article, *validator.Validator) {
	v := validator.New()

	draft := &models.Article{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Content:  r.FormValue("content"),
		Category: strings.TrimSpace(r.FormValue("category")),
	}

	v.CheckNotBlank(draft.Title, "title", "must be provided")
	v.CheckNotBlank(draft.Content, "content", "must be provided")
	v.CheckNotBlank(draft.Category, "category", "must be provided")

	draft.Tags = []string{}
	if r.MultipartForm != nil {
		for _, tag := range r.MultipartForm.Value["tags"] {
			tag = strings.TrimSpace(tag)
			v.CheckNotBlank(tag, "tags", "must not contain blank tags")
			draft.Tags = append(draft.Tags, tag)
		}
	}

	imageRef, err := app.saveUploadedFile(r, "image")
	if err != nil && !errors.Is(err, errNoFileUploaded) {
		v.AddError("image", "could not store the uploaded file")
		return draft, v
	}
	if err == nil {
		draft.Image = &imageRef
	}

	return draft, v
}

func summariesResponse(summaries []*models.ArticleSummary, includeBlocks bool) []*articleSummaryResponse {
	return functional.Map(summaries, func(summary *models.ArticleSummary) *articleSummaryResponse {
		response := &articleSummaryResponse{
			ID:        summary.ID,
			Title:     summary.Title,
			ImageURL:  summary.Image,
			Category:  summary.Category,
			Likes:     summary.Likes,
			Dislikes:  summary.Dislikes,
			Tags:      summary.Tags,
			CreatedAt: summary.CreatedAt,
		}
		if includeBlocks {
			blocks := summary.Blocks
			response.Blocks = &blocks
		}
		return response
	})
}
