package postgres

import (
	"database/sql"
)

// Queryer é o subconjunto de execução comum a *sql.DB e *sql.Tx: os
// repositórios enxergam a conexão só por esta interface.
type Queryer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
