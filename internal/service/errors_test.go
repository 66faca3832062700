package service

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("同码实例 errors.Is 判等", func(t *testing.T) {
		if !errors.Is(ErrCategoryNotFound("a"), ErrCategoryNotFound("b")) {
			t.Error("same code should match regardless of params")
		}
		if errors.Is(ErrCategoryNotFound("a"), ErrTagNotFound("a")) {
			t.Error("different codes should not match")
		}
	})

	t.Run("用户提示代入参数", func(t *testing.T) {
		err := ErrCategoryInUse("工程", 3)
		if got, want := err.Error(), "分类(工程)仍被 3 篇文章引用，无法删除"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("日志内容附带原因", func(t *testing.T) {
		cause := io.ErrUnexpectedEOF
		err := ErrTransactionFailed(cause)
		if got, want := err.LogMessage(), "transactional unit aborted: unexpected EOF"; got != want {
			t.Errorf("LogMessage() = %q, want %q", got, want)
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Error("Unwrap should expose the cause chain")
		}
	})

	t.Run("状态码与级别", func(t *testing.T) {
		cases := []struct {
			err      *DomainError
			status   int
			severity Severity
		}{
			{ErrParameterEmpty, BadRequest, SeverityWarn},
			{ErrInvalidCredential(), Unauthorized, SeverityWarn},
			{ErrPostNotFound(int64(1)), NotFound, SeverityWarn},
			{ErrCategoryInUse("x", 1), Conflict, SeverityWarn},
			{ErrFileNotUploaded, InternalServerError, SeverityError},
		}
		for _, c := range cases {
			if c.err.Status != c.status {
				t.Errorf("%s: Status = %d, want %d", c.err.Code, c.err.Status, c.status)
			}
			if c.err.Severity != c.severity {
				t.Errorf("%s: Severity = %d, want %d", c.err.Code, c.err.Severity, c.severity)
			}
		}
	})
}

func TestRunInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("领域错误原样穿透", func(t *testing.T) {
		tx := &fakeTx{db: newFakeDB()}
		err := runInTx(ctx, tx, func(ctx context.Context) error {
			return ErrCategoryNotFound("工程")
		})
		if !errors.Is(err, ErrCategoryNotFound("")) {
			t.Fatalf("err = %v, want CATEGORY_NOT_FOUND 原样返回", err)
		}
	})

	t.Run("底层错误包装为事务失败", func(t *testing.T) {
		tx := &fakeTx{db: newFakeDB()}
		cause := io.ErrClosedPipe
		err := runInTx(ctx, tx, func(ctx context.Context) error {
			return cause
		})
		if !errors.Is(err, ErrTransactionFailed(nil)) {
			t.Fatalf("err = %v, want TRANSACTION_FAILED", err)
		}
		if !errors.Is(err, cause) {
			t.Error("wrapped error should keep the cause")
		}
	})

	t.Run("成功时无包装", func(t *testing.T) {
		tx := &fakeTx{db: newFakeDB()}
		if err := runInTx(ctx, tx, func(ctx context.Context) error { return nil }); err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
	})
}
