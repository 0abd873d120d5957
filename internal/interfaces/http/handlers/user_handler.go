package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtlebank/teenfin/internal/user"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// UserHandler serves the player record endpoints.
type UserHandler struct {
	users *user.Service
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	UserID string `json:"userId" binding:"required"`
	Job    string `json:"job"`
}

type sessionRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Nickname string `json:"nickname"`
	Job      string `json:"job"`
}

type portalMoveRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type jobByNameRequest struct {
	UserID string `json:"userId" binding:"required"`
	Job    string `json:"job" binding:"required"`
}

type jobUpdateRequest struct {
	Job string `json:"job" binding:"required"`
}

type goldUpdateRequest struct {
	GoldAmount int64 `json:"goldAmount" binding:"required"`
}

type rewardRequest struct {
	UserID     string `json:"userId" binding:"required"`
	GameType   string `json:"gameType"`
	Success    bool   `json:"success"`
	EarnedGold int64  `json:"earnedGold"`
}

// List returns every record.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create registers a record.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	created, err := h.users.Create(c.Request.Context(), req.UserID, req.Job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get resolves a record by numeric id, external id, or nickname.
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.users.GetFlexible(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpsertSession creates or refreshes a record on world-client login.
func (h *UserHandler) UpsertSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.users.UpsertSession(c.Request.Context(), req.UserID, req.Nickname, req.Job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PortalMove returns the reduced job and gold view.
func (h *UserHandler) PortalMove(c *gin.Context) {
	var req portalMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	summary, err := h.users.PortalMove(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateJobByName changes the job, resolving the user by external id or
// nickname.
func (h *UserHandler) UpdateJobByName(c *gin.Context) {
	var req jobByNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.users.UpdateJobByName(c.Request.Context(), req.UserID, req.Job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateJob changes the job of the record with the given numeric id.
func (h *UserHandler) UpdateJob(c *gin.Context) {
	id, ok := h.numericID(c)
	if !ok {
		return
	}
	var req jobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.users.UpdateJob(c.Request.Context(), id, req.Job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// AddGold adjusts gold by a signed amount.
func (h *UserHandler) AddGold(c *gin.Context) {
	id, ok := h.numericID(c)
	if !ok {
		return
	}
	var req goldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.users.AddGold(c.Request.Context(), id, req.GoldAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Reward credits mini-game gold subject to the job gate.
func (h *UserHandler) Reward(c *gin.Context) {
	var req rewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.users.ApplyReward(c.Request.Context(), req.UserID, req.GameType, req.Success, req.EarnedGold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) numericID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperrors.New(apperrors.ErrCodeBadRequest, "id must be numeric"))
		return 0, false
	}
	return id, true
}
