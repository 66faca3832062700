package service

import (
	"context"
	"errors"

	mongoPkg "Inkstone/internal/pkg/mongo"
)

// runInTx 在事务中执行 fn，并统一归类事务层错误：
// 业务错误原样返回，驱动层错误包装为事务失败。
func runInTx(ctx context.Context, tx mongoPkg.TxRunner, fn func(ctx context.Context) error) error {
	err := tx.Run(ctx, fn)
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return ErrTransactionFailed(err)
}
