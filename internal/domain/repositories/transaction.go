package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a group of repository writes atomically. Store
// change notifications for the group are delivered after commit.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
