package service

import (
	"fmt"
	"strings"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

// Severity 错误严重级别，决定边界层的日志级别
type Severity int

const (
	SeverityWarn Severity = iota
	SeverityError
)

// DomainError 领域错误，携带错误码、HTTP 状态码、用户提示模板与日志模板。
// 同一错误码的实例通过 errors.Is 判定相等。
type DomainError struct {
	Code     string
	Status   int
	Severity Severity
	userTmpl string
	logTmpl  string
	params   []any
	cause    error
}

// Error 返回代入参数后的用户提示
func (e *DomainError) Error() string {
	if len(e.params) == 0 {
		return e.userTmpl
	}
	return fmt.Sprintf(e.userTmpl, e.params...)
}

// LogMessage 返回代入参数后的日志内容（可附带原始诊断信息）
func (e *DomainError) LogMessage() string {
	msg := e.logTmpl
	if len(e.params) > 0 {
		msg = fmt.Sprintf(e.logTmpl, e.params...)
	}
	if e.cause != nil {
		msg = msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is 仅按错误码判定，便于测试与边界层分类
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func newDomainError(code string, status int, severity Severity, userTmpl, logTmpl string, params ...any) *DomainError {
	return &DomainError{
		Code:     code,
		Status:   status,
		Severity: severity,
		userTmpl: userTmpl,
		logTmpl:  logTmpl,
		params:   params,
	}
}

// 错误目录。带参数的错误由构造函数生成，无参数的以哨兵值导出。
var (
	ErrParameterEmpty = newDomainError("PARAMETER_EMPTY", BadRequest, SeverityWarn,
		"请求中没有任何需要变更的字段", "update payload contains no field")
	ErrFileNotUploaded = newDomainError("FILE_NOT_UPLOADED", InternalServerError, SeverityError,
		"文件上传失败", "object storage upload failed")
)

func ErrInvalidRequestParameter(detail string) *DomainError {
	return newDomainError("INVALID_REQUEST_PARAMETER", BadRequest, SeverityWarn,
		"请求参数不合法: %s", "request validation failed: %s", detail)
}

func ErrCategoryNotFound(name string) *DomainError {
	return newDomainError("CATEGORY_NOT_FOUND", NotFound, SeverityWarn,
		"分类(%s)不存在", "category %s not found", name)
}

func ErrCategoryNotCreated(name string) *DomainError {
	return newDomainError("CATEGORY_NOT_CREATED", InternalServerError, SeverityError,
		"分类(%s)创建失败", "failed to insert category %s", name)
}

func ErrCategoryWithChildren(children []string) *DomainError {
	joined := strings.Join(children, ", ")
	return newDomainError("CATEGORY_WITH_CHILDREN_CANNOT_BE_DELETED", NotFound, SeverityWarn,
		"存在子分类(%s)，无法删除", "category has children [%s], delete denied", joined)
}

func ErrCategoryInUse(name string, postCount int64) *DomainError {
	return newDomainError("CATEGORY_IN_USE", Conflict, SeverityWarn,
		"分类(%s)仍被 %d 篇文章引用，无法删除",
		"category %s referenced by %d post(s), delete denied", name, postCount)
}

func ErrTagNotFound(name string) *DomainError {
	return newDomainError("TAG_NOT_FOUND", NotFound, SeverityWarn,
		"标签(%s)不存在", "tag %s not found", name)
}

func ErrTagNotCreated(name string) *DomainError {
	return newDomainError("TAG_NOT_CREATED", InternalServerError, SeverityError,
		"标签(%s)创建失败", "failed to insert tag %s", name)
}

func ErrSeriesNotFound(name string) *DomainError {
	return newDomainError("SERIES_NOT_FOUND", NotFound, SeverityWarn,
		"系列(%s)不存在", "series %s not found", name)
}

func ErrSeriesNotCreated(name string) *DomainError {
	return newDomainError("SERIES_NOT_CREATED", InternalServerError, SeverityError,
		"系列(%s)创建失败", "failed to insert series %s", name)
}

func ErrAlreadyBelongToAnotherSeries(postNo int64, seriesName string) *DomainError {
	return newDomainError("ALREADY_BELONG_TO_ANOTHER_SERIES", Conflict, SeverityWarn,
		"文章(%d)已属于另一个系列(%s)",
		"post %d already belongs to series %s", postNo, seriesName)
}

func ErrPostNotFound(id any) *DomainError {
	return newDomainError("POST_NOT_FOUND", NotFound, SeverityWarn,
		"文章(%v)不存在", "post %v not found", id)
}

func ErrPostNotCreated(title string) *DomainError {
	return newDomainError("POST_NOT_CREATED", InternalServerError, SeverityError,
		"文章(%s)创建失败", "failed to insert post %s", title)
}

func ErrCommentNotFound(id string) *DomainError {
	return newDomainError("COMMENT_NOT_FOUND", NotFound, SeverityWarn,
		"评论(%s)不存在", "comment %s not found", id)
}

func ErrImageNotFound(title string) *DomainError {
	return newDomainError("IMAGE_NOT_FOUND", NotFound, SeverityWarn,
		"图片(%s)不存在", "image %s not found", title)
}

func ErrDuplicatedFileName(title string) *DomainError {
	return newDomainError("DUPLICATED_FILE_NAME", BadRequest, SeverityWarn,
		"已存在同名文件(%s)", "image title %s already exists", title)
}

func ErrFileCannotBeMoved(title string) *DomainError {
	return newDomainError("FILE_CANNOT_BE_MOVED", InternalServerError, SeverityError,
		"文件(%s)移动失败", "failed to move object %s between buckets", title)
}

func ErrInvalidCredential() *DomainError {
	return newDomainError("INVALID_CREDENTIAL", Unauthorized, SeverityWarn,
		"用户名或密码错误", "admin credential rejected")
}

func ErrTransactionFailed(cause error) *DomainError {
	e := newDomainError("TRANSACTION_FAILED", InternalServerError, SeverityError,
		"请求处理过程中发生错误", "transactional unit aborted")
	e.cause = cause
	return e
}

func ErrUnexpected(cause error) *DomainError {
	e := newDomainError("UNEXPECTED_ERROR", InternalServerError, SeverityError,
		"系统异常，请稍后重试", "unexpected error")
	e.cause = cause
	return e
}
