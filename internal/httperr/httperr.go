package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// FromError traduz um BusinessError para a resposta HTTP correspondente.
// Persistence errors deliberately hide the underlying detail.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, "Requisição inválida: "+be.Code)
	case KindAuth:
		Unauthorized(c, be.Code, "Credenciais inválidas.")
	case KindInvalidState, KindConflict:
		Conflict(c, be.Code, "Operação não permitida no estado atual: "+be.Code)
	default:
		Internal(c, be.Code, "Erro interno.")
	}
}
