package http

import (
	"net/http"

	"github.com/dkeye/Board/internal/app/orch"
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/gin-gonic/gin"
)

// infoHandler serves read-only views; nothing here changes session state.
type infoHandler struct {
	orch *orch.Orchestrator
}

func (h *infoHandler) index(c *gin.Context) {
	c.String(http.StatusOK, "Board real-time whiteboard server")
}

func (h *infoHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/rooms
func (h *infoHandler) rooms(c *gin.Context) {
	rooms := h.orch.Registry.Rooms()
	for i := range rooms {
		_, rooms[i].HasSnapshot = h.orch.Board.Get(rooms[i].ID)
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GET /api/rooms/:id/members
func (h *infoHandler) members(c *gin.Context) {
	room := domain.RoomID(c.Param("id"))
	members := h.orch.Registry.ListByRoom(room)
	if len(members) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room":    room,
		"members": core.Participants(members),
	})
}
