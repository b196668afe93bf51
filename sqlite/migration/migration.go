// Package migration embeds the schema scripts of the sqlite store.
package migration

import "embed"

// Scripts holds the numbered schema scripts, applied in lexical order.
//
//go:embed *.sql
var Scripts embed.FS
