package response

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	Created             = 201
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// SuccessCreated 创建成功返回封装，data 为新建资源标识
func SuccessCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.Response{
		Code:    Created,
		Message: "created",
		Data:    data,
	})
}

// Fail 失败返回封装。业务码与 HTTP 状态码保持一致。
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(httpStatus(businessCode), dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

func httpStatus(code int) int {
	switch code {
	case BadRequest, Unauthorized, Forbidden, NotFound, Conflict, InternalServerError:
		return code
	default:
		return http.StatusOK
	}
}

// Error 处理错误：领域错误按目录映射，未识别的错误统一收敛为 UNEXPECTED_ERROR
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		first := ve[0]
		de := service.ErrInvalidRequestParameter(first.Field() + " " + first.Tag())
		logDomainError(c, de)
		Fail(c, de.Status, de.Error())
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		de := service.ErrInvalidRequestParameter("json: " + unmarshalTypeError.Field)
		logDomainError(c, de)
		Fail(c, de.Status, de.Error())
		return
	}

	var de *service.DomainError
	if !errors.As(err, &de) {
		// 原始错误只进日志，不透出给调用方
		de = service.ErrUnexpected(err)
	}

	logDomainError(c, de)
	Fail(c, de.Status, de.Error())
}

func logDomainError(c *gin.Context, de *service.DomainError) {
	ctx := c.Request.Context()
	if de.Severity == service.SeverityError {
		log.ErrorContext(ctx, de.LogMessage(), "code", de.Code)
	} else {
		log.WarnContext(ctx, de.LogMessage(), "code", de.Code)
	}
}
