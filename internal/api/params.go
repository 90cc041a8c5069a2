package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID читает числовой :id из пути, при ошибке отвечает 400
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Некорректный идентификатор",
		})
		return 0, false
	}
	return id, true
}

// parsePagination читает page и pageSize из query-параметров
func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "25"))
	return page, pageSize
}
