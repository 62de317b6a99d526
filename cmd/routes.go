package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/users/user", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/users/verify-email", app.verifyEmailHandler)
	router.HandlerFunc(http.MethodPost, "/api/users/resend-verification", app.resendVerificationHandler)
	router.HandlerFunc(http.MethodPost, "/api/users/login", app.loginHandler)
	router.HandlerFunc(http.MethodPost, "/api/users/refresh", app.refreshTokenHandler)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/users/logout", app.requireAuthenticatedUser(app.logoutHandler))
	router.HandlerFunc(http.MethodGet, "/api/users/user", app.requireAuthenticatedUser(app.getUserHandler))
	router.HandlerFunc(http.MethodPatch, "/api/users/user", app.requireAuthenticatedUser(app.updateUserHandler))
	router.HandlerFunc(http.MethodGet, "/api/users/preferences", app.requireAuthenticatedUser(app.getPreferencesHandler))
	router.HandlerFunc(http.MethodPatch, "/api/users/preferences", app.requireAuthenticatedUser(app.updatePreferencesHandler))
	router.HandlerFunc(http.MethodPatch, "/api/users/change-password", app.requireAuthenticatedUser(app.changePasswordHandler))
	router.HandlerFunc(http.MethodPost, "/api/users/upload-profile", app.requireAuthenticatedUser(app.uploadProfileImageHandler))

	router.HandlerFunc(http.MethodPost, "/api/articles/article", app.requireAuthenticatedUser(app.createArticleHandler))
	router.HandlerFunc(http.MethodPut, "/api/articles/article", app.requireAuthenticatedUser(app.updateArticleHandler))
	router.HandlerFunc(http.MethodGet, "/api/articles/article/:id", app.requireAuthenticatedUser(app.getArticleHandler))
	router.HandlerFunc(http.MethodGet, "/api/articles/articles", app.requireAuthenticatedUser(app.getOwnArticlesHandler))
	router.HandlerFunc(http.MethodGet, "/api/articles/article-list", app.requireAuthenticatedUser(app.discoveryFeedHandler))
	router.HandlerFunc(http.MethodPatch, "/api/articles/reaction", app.requireAuthenticatedUser(app.toggleReactionHandler))
	router.HandlerFunc(http.MethodPatch, "/api/articles/block", app.requireAuthenticatedUser(app.blockArticleHandler))
	router.HandlerFunc(http.MethodPatch, "/api/articles/unblock", app.requireAuthenticatedUser(app.unblockArticleHandler))
	router.HandlerFunc(http.MethodDelete, "/api/articles/delete", app.requireAuthenticatedUser(app.deleteArticleHandler))

	return app.recoverPanic(app.enableCORS(app.authenticate(router)))
}
