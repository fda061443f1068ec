package response

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Body is the uniform JSON envelope: a status discriminator plus message,
// data or per-field errors as applicable. The HTTP status code carries the
// real semantics (401/404/422/...), the body carries the detail.
type Body struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func OK(c *gin.Context, code int, data any) {
	c.JSON(code, Body{Status: StatusSuccess, Data: data})
}

func Message(c *gin.Context, code int, msg string) {
	c.JSON(code, Body{Status: StatusSuccess, Message: msg})
}

func Fail(c *gin.Context, code int, msg string) {
	c.JSON(code, Body{Status: StatusError, Message: msg})
}

func FailFields(c *gin.Context, code int, msg string, fields map[string]string) {
	c.JSON(code, Body{Status: StatusError, Message: msg, Errors: fields})
}

func AbortFail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Body{Status: StatusError, Message: msg})
}
