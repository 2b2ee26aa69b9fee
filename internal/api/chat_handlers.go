package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anragu/poolpal/internal/middleware"
	"github.com/anragu/poolpal/internal/service"
)

type chatHandlers struct {
	chats *service.ChatService
}

func (h *chatHandlers) history(c *gin.Context) {
	chatID, snapshot, err := h.chats.History(c.Request.Context(), middleware.GetUID(c), c.Param("uid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"chat_id":  chatID,
		"chat":     snapshot.Chat,
		"messages": snapshot.Messages,
	})
}

func (h *chatHandlers) send(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chats.SendMessage(c.Request.Context(), middleware.GetUID(c), c.Param("uid"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
