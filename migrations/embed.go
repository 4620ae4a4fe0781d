package migrations

import "embed"

// FS holds the versioned schema files shipped with the binary.
//
//go:embed *.sql
var FS embed.FS
