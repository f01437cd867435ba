package controller

import (
	"errors"
	"strconv"
	"time"

	"visaprep_backend/internal/service"
	"visaprep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	Tests *service.TestService
	Users *service.UserService
}

func NewTestController(tests *service.TestService, users *service.UserService) *TestController {
	return &TestController{Tests: tests, Users: users}
}

// @Summary Catalog of tests grouped by type with the caller's attempt stats
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/tests [get]
func (c *TestController) GetAvailableTests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	// The language preference is read from the database rather than the
	// token so a change takes effect before the token expires.
	user, err := c.Users.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, "tests.available", err)
		return
	}

	result, err := c.Tests.AvailableTests(ctx.Request.Context(), user.ID, user.LanguageCode)
	if err != nil {
		util.LogInternalError(ctx, "tests.available", err)
		return
	}

	util.Success(ctx, result)
}

// @Summary One test with its questions
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "test id"
// @Param include_answers query bool false "include correctness flags (study mode)"
// @Success 200 {object} util.Response
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	testID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}

	user, err := c.Users.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, "tests.get", err)
		return
	}

	includeAnswers := ctx.Query("include_answers") == "true"

	detail, err := c.Tests.TestForUser(ctx.Request.Context(), user, uint(testID), includeAnswers, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAccessDenied):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "tests.get", err)
		}
		return
	}

	util.Success(ctx, detail)
}

// @Summary Tests of one type
// @Tags tests
// @Produce json
// @Param type path string true "chapter, comprehensive or exam"
// @Success 200 {object} util.Response
// @Router /api/tests/type/{type} [get]
func (c *TestController) GetTestsByType(ctx *gin.Context) {
	testType := ctx.Param("type")

	tests, err := c.Tests.TestsByType(testType)
	if err != nil {
		if util.IsValidationError(err) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "tests.by_type", err)
		return
	}

	util.Success(ctx, gin.H{"tests": tests, "test_type": testType})
}

// @Summary Tests of one chapter
// @Tags tests
// @Produce json
// @Param id path int true "chapter id"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id}/tests [get]
func (c *TestController) GetTestsByChapter(ctx *gin.Context) {
	chapterID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid chapter id")
		return
	}

	tests, err := c.Tests.TestsByChapter(uint(chapterID))
	if err != nil {
		util.LogInternalError(ctx, "tests.by_chapter", err)
		return
	}

	util.Success(ctx, gin.H{"tests": tests, "chapter_id": chapterID})
}

// @Summary Free tests
// @Tags tests
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/tests/free [get]
func (c *TestController) GetFreeTests(ctx *gin.Context) {
	tests, err := c.Tests.FreeTests()
	if err != nil {
		util.LogInternalError(ctx, "tests.free", err)
		return
	}

	util.Success(ctx, gin.H{"tests": tests})
}

// @Summary Search tests
// @Tags tests
// @Produce json
// @Param q query string true "search text"
// @Param type query string false "test type filter"
// @Param chapter query int false "chapter filter"
// @Success 200 {object} util.Response
// @Router /api/tests/search [get]
func (c *TestController) SearchTests(ctx *gin.Context) {
	query := ctx.Query("q")
	testType := ctx.Query("type")

	var chapterID *uint
	if raw := ctx.Query("chapter"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid chapter")
			return
		}
		v := uint(id)
		chapterID = &v
	}

	// Search works without identity; translated text is only searched for
	// authenticated vi-language users.
	languageCode := "en"
	if claims := util.GetUserFromContext(ctx); claims != nil {
		languageCode = claims.LanguageCode
	}

	tests, err := c.Tests.SearchTests(query, testType, chapterID, languageCode)
	if err != nil {
		if util.IsValidationError(err) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "tests.search", err)
		return
	}

	util.Success(ctx, gin.H{
		"tests":         tests,
		"search_query":  query,
		"results_count": len(tests),
	})
}
