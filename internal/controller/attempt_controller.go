package controller

import (
	"errors"
	"strconv"
	"time"

	"visaprep_backend/internal/service"
	"visaprep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Attempts    *service.AttemptService
	History     *service.HistoryService
	Leaderboard *service.LeaderboardService
}

func NewAttemptController(attempts *service.AttemptService, history *service.HistoryService, leaderboard *service.LeaderboardService) *AttemptController {
	return &AttemptController{Attempts: attempts, History: history, Leaderboard: leaderboard}
}

type startAttemptRequest struct {
	TestID uint `json:"test_id" binding:"required"`
}

type submitAttemptRequest struct {
	AttemptID uint                       `json:"attempt_id" binding:"required"`
	Answers   []service.AnswerSubmission `json:"answers" binding:"required"`
	TimeTaken *int                       `json:"time_taken"`
}

// @Summary Start a test attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body startAttemptRequest true "test to start"
// @Success 201 {object} util.Response
// @Router /api/attempts/start [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, test, err := c.Attempts.Start(claims.UserID, req.TestID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound), errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, util.ErrTestNotFound.Error())
		case errors.Is(err, util.ErrAccessDenied):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "attempt.start", err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"attempt_id": attempt.ID,
		"test":       test,
		"started_at": attempt.StartedAt,
	})
}

// @Summary Retake a test
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body startAttemptRequest true "test to retake"
// @Success 201 {object} util.Response
// @Router /api/attempts/retake [post]
func (c *AttemptController) RetakeTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, test, err := c.Attempts.Retake(claims.UserID, req.TestID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound), errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, util.ErrTestNotFound.Error())
		case errors.Is(err, util.ErrRetakeLimitReached):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "attempt.retake", err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"attempt_id": attempt.ID,
		"test":       test,
		"started_at": attempt.StartedAt,
	})
}

// @Summary Submit answers for an attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body submitAttemptRequest true "submission"
// @Success 200 {object} util.Response
// @Router /api/attempts/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Attempts.Submit(claims.UserID, req.AttemptID, req.Answers, req.TimeTaken, time.Now())
	if err != nil {
		switch {
		case util.IsValidationError(err):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAttemptAlreadyCompleted):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "attempt.submit", err)
		}
		return
	}

	util.Success(ctx, gin.H{"result": result})
}

// @Summary Completed-attempt history of the current user
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "per page" default(20)
// @Success 200 {object} util.Response
// @Router /api/attempts/history [get]
func (c *AttemptController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := paginationParams(ctx)

	rows, total, err := c.History.ListCompleted(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, "attempt.history", err)
		return
	}

	util.Success(ctx, util.Paginate(rows, total, page, limit))
}

// @Summary Per-question breakdown of one attempt
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AttemptController) GetAttemptDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	detail, err := c.History.Detail(uint(attemptID), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "attempt.detail", err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary Leaderboard over completed attempts
// @Tags attempts
// @Produce json
// @Param test_id query int false "restrict to one test"
// @Param limit query int false "rows (5-50)" default(10)
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *AttemptController) GetLeaderboard(ctx *gin.Context) {
	var testID *uint
	if raw := ctx.Query("test_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid test_id")
			return
		}
		v := uint(id)
		testID = &v
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	limit = service.ClampLeaderboardLimit(limit)

	rows, err := c.Leaderboard.Rank(testID, limit)
	if err != nil {
		util.LogInternalError(ctx, "leaderboard.rank", err)
		return
	}

	util.Success(ctx, rows)
}

func paginationParams(ctx *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
