package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anragu/poolpal/internal/middleware"
	"github.com/anragu/poolpal/internal/service"
)

type friendHandlers struct {
	friends *service.FriendService
}

func (h *friendHandlers) me(c *gin.Context) {
	user, err := h.friends.GetProfile(c.Request.Context(), middleware.GetUID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *friendHandlers) list(c *gin.Context) {
	friends, err := h.friends.ListFriends(c.Request.Context(), middleware.GetUID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func (h *friendHandlers) sendRequest(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := h.friends.SendFriendRequest(c.Request.Context(), middleware.GetUID(c), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requested": target.UID})
}

func (h *friendHandlers) accept(c *gin.Context) {
	err := h.friends.AcceptFriendRequest(c.Request.Context(), middleware.GetUID(c), c.Param("uid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": c.Param("uid")})
}

func (h *friendHandlers) decline(c *gin.Context) {
	err := h.friends.DeclineFriendRequest(c.Request.Context(), middleware.GetUID(c), c.Param("uid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"declined": c.Param("uid")})
}
