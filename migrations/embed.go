// Package migrations carries the MySQL schema applied by the migrate command.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
