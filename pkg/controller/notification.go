package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/harrier/pkg/usecase/notify"
)

func (s *Server) handleListNotifications(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	notifications, err := s.notifier.List(c.Request.Context(), notify.ListOptions{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":         len(notifications),
		"notifications": notifications,
	})
}
