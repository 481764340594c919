package handler

import (
	"net/http"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logger"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/logic"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"github.com/gin-gonic/gin"
)

// ContestHandler 竞赛处理器
type ContestHandler struct {
	contestLogic *logic.ContestLogic
}

// NewContestHandler 创建竞赛处理器
func NewContestHandler(contestLogic *logic.ContestLogic) *ContestHandler {
	return &ContestHandler{contestLogic: contestLogic}
}

// CreateContest 创建竞赛
func (h *ContestHandler) CreateContest(c *gin.Context) {
	var contest model.ContestModel
	if err := c.ShouldBindJSON(&contest); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	if err := h.contestLogic.CreateContest(c.Request.Context(), &contest); err != nil {
		logger.Error("Failed to create contest %s: %v", contest.ContestName, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "竞赛创建成功", contest)
}

// GetContests 获取全部竞赛
func (h *ContestHandler) GetContests(c *gin.Context) {
	contests, err := h.contestLogic.GetContests(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list contests: %v", err)
		ErrorResponseFromErr(c, err)
		return
	}

	c.JSON(http.StatusOK, contests)
}

// GetContestsByCreator 按创建者邮箱获取竞赛
func (h *ContestHandler) GetContestsByCreator(c *gin.Context) {
	email := c.Query("email")

	contests, err := h.contestLogic.GetContestsByCreator(c.Request.Context(), email)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	c.JSON(http.StatusOK, contests)
}

// GetTopCreators 获取参与度最高的创建者
func (h *ContestHandler) GetTopCreators(c *gin.Context) {
	creators, err := h.contestLogic.GetTopCreators(c.Request.Context())
	if err != nil {
		logger.Error("Failed to aggregate top creators: %v", err)
		ErrorResponseFromErr(c, err)
		return
	}

	c.JSON(http.StatusOK, creators)
}

// SearchContests 按标签搜索竞赛
func (h *ContestHandler) SearchContests(c *gin.Context) {
	query := c.Query("query")

	contests, err := h.contestLogic.SearchContests(c.Request.Context(), query)
	if err != nil {
		ErrorResponseFromErr(c, err)
		return
	}

	c.JSON(http.StatusOK, contests)
}

// UpdateContest 更新竞赛
func (h *ContestHandler) UpdateContest(c *gin.Context) {
	id := c.Param("id")

	var params logic.ContestUpdateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效")
		return
	}

	if err := h.contestLogic.UpdateContest(c.Request.Context(), id, params); err != nil {
		logger.Error("Failed to update contest %s: %v", id, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "竞赛更新成功", nil)
}

// ConfirmContest 确认竞赛
func (h *ContestHandler) ConfirmContest(c *gin.Context) {
	id := c.Param("id")

	if err := h.contestLogic.ConfirmContest(c.Request.Context(), id); err != nil {
		logger.Error("Failed to confirm contest %s: %v", id, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "竞赛确认成功", nil)
}

// DeleteContest 删除竞赛
func (h *ContestHandler) DeleteContest(c *gin.Context) {
	id := c.Param("id")

	if err := h.contestLogic.DeleteContest(c.Request.Context(), id); err != nil {
		logger.Error("Failed to delete contest %s: %v", id, err)
		ErrorResponseFromErr(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "竞赛删除成功", nil)
}
