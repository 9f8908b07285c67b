package app

import (
	"fmt"
	"io"
	"strings"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandHelp はサブコマンド一覧を表示して終了することを示す。
	CommandHelp Command = "help"
)

// commands はusage表示順のサブコマンド一覧。
var commands = []struct {
	cmd     Command
	summary string
}{
	{CommandServe, "APIサーバーを起動する（省略時のデフォルト）"},
	{CommandMigrate, "未適用のマイグレーションを適用して終了する"},
	{CommandHealthcheck, "起動中サーバーの/healthを確認し、結果を終了コードで返す"},
	{CommandHelp, "このヘルプを表示する"},
}

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 大文字小文字は区別しない。"-h"と"--help"はCommandHelpとして扱う。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "-h" || name == "--help" {
		return CommandHelp
	}
	for _, c := range commands {
		if string(c.cmd) == name {
			return c.cmd
		}
	}
	return CommandServe
}

// WriteUsage はサブコマンド一覧をwに書き出す。
func WriteUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: breaktime [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.cmd, c.summary)
	}
}
