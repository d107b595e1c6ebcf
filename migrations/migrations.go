// Package migrations embute os arquivos SQL do goose no binário.
package migrations

import "embed"

// FS contém os arquivos NNNNN_*.sql usados por cmd/migrate e pelos testes de integração.
//
//go:embed *.sql
var FS embed.FS
