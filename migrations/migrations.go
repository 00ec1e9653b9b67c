// Package migrations хранит SQL-миграции схемы и встраивает их в бинарник,
// чтобы сервер мог применить их при старте без внешних файлов.
package migrations

import "embed"

// FS содержит каталог postgres/ с файлами вида NNNNNN_name.{up,down}.sql.
//
//go:embed postgres/*.sql
var FS embed.FS

// Dir — путь внутри FS, который нужно передавать в iofs.New.
const Dir = "postgres"
