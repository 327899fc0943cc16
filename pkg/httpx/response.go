package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK 成功响应
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Fail 失败响应，status同时作为HTTP状态码和业务码
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Code:    status,
		Message: message,
	})
}

// Abort 失败响应并中止后续处理
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Code:    status,
		Message: message,
	})
}

// WriteObject 根据err选择成功或参数错误响应
func WriteObject(c *gin.Context, message string, obj interface{}, err error) {
	if err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	OK(c, message, obj)
}
