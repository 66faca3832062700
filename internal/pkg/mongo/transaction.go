package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// maxTxAttempts 瞬时冲突下的有限重试次数
const maxTxAttempts = 3

// TxRunner 事务执行器：在一个会话中执行工作单元，成功提交、失败回滚。
// 错误的归类（领域错误透传、其余收敛为 TRANSACTION_FAILED）由调用侧完成。
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

type sessionTxRunner struct {
	client *mongo.Client
}

func NewTxRunner(db *mongo.Database) TxRunner {
	return &sessionTxRunner{client: db.Client()}
}

// Run 在一个 mongo 会话事务内执行 fn。fn 内的所有读写必须使用传入的 ctx，
// 驱动会将其路由到同一会话。fn 返回错误时事务回滚并原样上抛；
// 仅带 TransientTransactionError 标签的失败会有限重试。
func (s *sessionTxRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		sess, err := s.client.StartSession()
		if err != nil {
			return err
		}

		_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc)
		})
		sess.EndSession(ctx)

		if err == nil {
			return nil
		}
		lastErr = err

		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
			continue
		}
		// 非瞬时错误不重试
		return err
	}
	return lastErr
}
