package sql

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	mysqlDuplicateEntry     = 1062
	postgresUniqueViolation = "23505"
)

// isUniqueViolation 判断错误是否为唯一约束冲突
func isUniqueViolation(err error) bool {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == postgresUniqueViolation
	}

	return false
}
