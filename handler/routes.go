package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books", h.requireActivatedUser(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.showBookHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId", h.requireActivatedUser(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", h.requireActivatedUser(h.deleteBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/cover", h.requireActivatedUser(h.updateBookCoverHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/rating", h.showBookRatingHandler)
	router.HandlerFunc(http.MethodGet, "/v1/isbn/:isbn", h.lookupBookByISBNHandler)
	router.HandlerFunc(http.MethodGet, "/v1/top-rated", h.listTopRatedBooksHandler)
	router.HandlerFunc(http.MethodGet, "/v1/recommendations", h.requireActivatedUser(h.listRecommendedBooksHandler))

	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/reviews", h.listReviewsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/reviews", h.requireActivatedUser(h.createReviewHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/reviews/:reviewId", h.showReviewHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/reviews/:reviewId", h.requireReviewOwnerPermission(h.updateReviewHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId/reviews/:reviewId", h.requireReviewOwnerPermission(h.deleteReviewHandler))

	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/reading", h.requireActivatedUser(h.startReadingHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/reading", h.requireActivatedUser(h.showReadingProgressHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/reading", h.requireActivatedUser(h.updateReadingProgressHandler))
	router.HandlerFunc(http.MethodPut, "/v1/books/:bookId/reading/finish", h.requireActivatedUser(h.finishReadingHandler))
	router.HandlerFunc(http.MethodPut, "/v1/books/:bookId/reading/status", h.requireActivatedUser(h.updateReadingStatusHandler))

	router.HandlerFunc(http.MethodGet, "/v1/goals", h.requireActivatedUser(h.listReadingGoalsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/goals", h.requireActivatedUser(h.createReadingGoalHandler))
	router.HandlerFunc(http.MethodGet, "/v1/goals/:goalId", h.requireActivatedUser(h.showReadingGoalHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/goals/:goalId", h.requireActivatedUser(h.updateReadingGoalHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/goals/:goalId", h.requireActivatedUser(h.deleteReadingGoalHandler))
	router.HandlerFunc(http.MethodPut, "/v1/goals/:goalId/increment", h.requireActivatedUser(h.incrementReadingGoalHandler))

	router.HandlerFunc(http.MethodGet, "/v1/clubs", h.listPublicBookClubsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/clubs", h.requireActivatedUser(h.createBookClubHandler))
	router.HandlerFunc(http.MethodGet, "/v1/clubs/:clubId", h.showBookClubHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/clubs/:clubId", h.requireActivatedUser(h.updateBookClubHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/clubs/:clubId", h.requireActivatedUser(h.deleteBookClubHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/clubs/:clubId/image", h.requireActivatedUser(h.uploadBookClubImageHandler))
	router.HandlerFunc(http.MethodPost, "/v1/clubs/:clubId/join", h.requireActivatedUser(h.joinBookClubHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/clubs/:clubId/leave", h.requireActivatedUser(h.leaveBookClubHandler))
	router.HandlerFunc(http.MethodGet, "/v1/clubs/:clubId/members", h.requireActivatedUser(h.listBookClubMembersHandler))
	router.HandlerFunc(http.MethodPut, "/v1/clubs/:clubId/members/:userId", h.requireActivatedUser(h.updateBookClubMemberRoleHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/clubs/:clubId/members/:userId", h.requireActivatedUser(h.removeBookClubMemberHandler))

	router.HandlerFunc(http.MethodGet, "/v1/clubs/:clubId/discussions", h.requireActivatedUser(h.listClubDiscussionsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/clubs/:clubId/discussions", h.requireActivatedUser(h.createDiscussionHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/discussions", h.listBookDiscussionsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/discussions/:discussionId", h.requireActivatedUser(h.showDiscussionHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/discussions/:discussionId", h.requireActivatedUser(h.updateDiscussionHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/discussions/:discussionId", h.requireActivatedUser(h.deleteDiscussionHandler))

	router.HandlerFunc(http.MethodGet, "/v1/discussions/:discussionId/comments", h.requireActivatedUser(h.listCommentsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/discussions/:discussionId/comments", h.requireActivatedUser(h.createCommentHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/comments/:commentId", h.requireActivatedUser(h.updateCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/comments/:commentId", h.requireActivatedUser(h.deleteCommentHandler))

	router.HandlerFunc(http.MethodGet, "/v1/shelves", h.requireActivatedUser(h.listBookshelvesHandler))
	router.HandlerFunc(http.MethodPost, "/v1/shelves", h.requireActivatedUser(h.createBookshelfHandler))
	router.HandlerFunc(http.MethodGet, "/v1/shelves/:shelfId", h.requireActivatedUser(h.showBookshelfHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/shelves/:shelfId", h.requireBookshelfOwnerPermission(h.updateBookshelfHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/shelves/:shelfId", h.requireBookshelfOwnerPermission(h.deleteBookshelfHandler))
	router.HandlerFunc(http.MethodGet, "/v1/shelves/:shelfId/books", h.requireActivatedUser(h.listShelfBooksHandler))
	router.HandlerFunc(http.MethodPost, "/v1/shelves/:shelfId/books/:bookId", h.requireBookshelfOwnerPermission(h.addBookToShelfHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/shelves/:shelfId/books/:bookId", h.requireBookshelfOwnerPermission(h.removeBookFromShelfHandler))

	router.HandlerFunc(http.MethodPost, "/v1/users", h.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activated", h.activateUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/password", h.resetUserPasswordHandler)

	router.HandlerFunc(http.MethodGet, "/v1/users/profile", h.requireActivatedUser(h.showUserHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/users/profile", h.requireActivatedUser(h.updateUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/users/profile", h.requireActivatedUser(h.updateUserPasswordHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/users/profile", h.requireActivatedUser(h.deleteUserHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/users/profile/picture", h.requireActivatedUser(h.uploadUserProfilePictureHandler))

	router.HandlerFunc(http.MethodGet, "/v1/users/reviews", h.requireActivatedUser(h.listUserReviewsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/reading", h.requireActivatedUser(h.listUserReadingHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/reading/history", h.requireActivatedUser(h.listUserReadingHistoryHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/reading/stats", h.requireActivatedUser(h.showReadingStatsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/clubs", h.requireActivatedUser(h.listUserBookClubsHandler))

	router.HandlerFunc(http.MethodPost, "/v1/tokens/activation", h.createActivationTokenHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedUser(h.deleteAuthenticationTokenHandler))
	router.HandlerFunc(http.MethodPost, "/v1/tokens/password-reset", h.createPasswordResetTokenHandler)

	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
