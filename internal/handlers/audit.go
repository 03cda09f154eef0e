package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const activityPageLimit = 200

// ListActivity — журнал действий, только для администратора.
func (h *Handlers) ListActivity(c *gin.Context) {
	data := gin.H{}

	logs, err := h.activity.Recent(c.Request.Context(), activityPageLimit)
	if err != nil {
		pageError(c, data, "activity", err)
	}
	data["logs"] = logs

	h.render(c, http.StatusOK, "activity.html", data)
}
