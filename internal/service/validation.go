package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateDTO 对绑定后的 DTO 做 validate 标签校验，失败时返回带首个失败项描述的领域错误。
func validateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			detail := fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]",
				firstError.Field(),
				firstError.Tag())
			return ErrInvalidRequestParameter(detail)
		}
		return ErrInvalidRequestParameter(err.Error())
	}
	return nil
}
