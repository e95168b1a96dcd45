package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondOK 成功信封
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// respondError 失败信封；details 为空时省略
func respondError(c *gin.Context, status int, code, message, details string) {
	body := gin.H{"success": false, "error": message, "code": code}
	if details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}

// respondWithErr 类型化错误映射为信封
func respondWithErr(c *gin.Context, err error) {
	status, code, message, details := classify(err)
	respondError(c, status, code, message, details)
}
