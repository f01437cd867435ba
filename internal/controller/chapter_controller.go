package controller

import (
	"errors"
	"strconv"

	"visaprep_backend/internal/service"
	"visaprep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChapterController struct {
	Service *service.ChapterService
}

func NewChapterController(svc *service.ChapterService) *ChapterController {
	return &ChapterController{Service: svc}
}

// @Summary Chapters with per-chapter test counts
// @Tags chapters
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/chapters [get]
func (c *ChapterController) ListChapters(ctx *gin.Context) {
	chapters, err := c.Service.List()
	if err != nil {
		util.LogInternalError(ctx, "chapters.list", err)
		return
	}

	util.Success(ctx, gin.H{"chapters": chapters})
}

// @Summary One chapter with its tests
// @Tags chapters
// @Produce json
// @Param id path int true "chapter id"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id} [get]
func (c *ChapterController) GetChapter(ctx *gin.Context) {
	chapterID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid chapter id")
		return
	}

	detail, err := c.Service.Detail(uint(chapterID))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "chapters.get", err)
		return
	}

	util.Success(ctx, detail)
}
