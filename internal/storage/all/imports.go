// Package all registers every built-in storage backend with the storage
// factory. Import it for side effects:
//
//	import _ "github.com/namatanda/haki-data/internal/storage/all"
//
// after which storage.New accepts the kinds "sqlite", "postgres", "mssql"
// and "mysql".
package all

import (
	_ "github.com/namatanda/haki-data/internal/storage/mssql"
	_ "github.com/namatanda/haki-data/internal/storage/mysql"
	_ "github.com/namatanda/haki-data/internal/storage/postgres"
	_ "github.com/namatanda/haki-data/internal/storage/sqlite"
)
