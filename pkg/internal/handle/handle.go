// Package handle 提供请求处理器的实现，用于处理HTTP请求.
package handle

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// requestUser 提取可选的用户标识：Header 优先 -> query 参数.
// 制品归属是弱约束，为空表示匿名上传.
func requestUser(c *gin.Context) string {
	user := c.GetHeader("X-User-ID")
	if user == "" {
		user = c.Query("user_id")
	}

	return strings.TrimSpace(user)
}

// parseTags 解析逗号分隔的标签列表，忽略空项.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}
