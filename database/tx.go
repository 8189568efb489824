// Package database — abstração de query comum a conexão e transação.
package database

import (
	"context"
	"database/sql"
)

// TxQuerier é satisfeita tanto por *sql.DB quanto por *sql.Tx.
//
// Os repositories recebem essa interface em vez de *sql.DB: no uso normal
// passamos a conexão; se algum fluxo futuro precisar agrupar operações em
// transação, o mesmo repository funciona com um *sql.Tx sem mudança alguma
// (duck typing de Go — a interface casa por assinatura).
//
// O database/sql não define essa interface; é nossa.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
