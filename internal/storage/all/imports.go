// Package all wires every built-in run-report backend into the storage
// factory. Import it for side effects:
//
//	import _ "uniqcount/internal/storage/all"
//
// which makes the kinds "sqlite", "postgres", "mssql" and "mysql" available to
// storage.New.
package all

import (
	_ "uniqcount/internal/storage/mssql"
	_ "uniqcount/internal/storage/mysql"
	_ "uniqcount/internal/storage/postgres"
	_ "uniqcount/internal/storage/sqlite"
)
