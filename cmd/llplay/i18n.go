// Package main provides localization for the llplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Low-latency H.264 stream player.": "低遅延H.264ストリームプレイヤー。",

		// Play command
		"Receive and display a low-latency H.264 stream.":                     "低遅延H.264ストリームを受信して表示します。",
		"Stream source (default: tcp://127.0.0.1:5000).":                      "ストリームの送信元（デフォルト: tcp://127.0.0.1:5000）。",
		"YAML configuration file.":                                            "YAML設定ファイル。",
		"Decode in software only, never try the GPU.":                         "ソフトウェアのみでデコードし、GPUを使用しません。",
		"Cap the presentation rate (0 = show every picture as it decodes).":   "表示レートの上限（0 = デコードされ次第すべて表示）。",
		"Wait for the next presentation slot instead of dropping early pictures.": "早い画像を破棄せず、次の表示タイミングまで待機します。",
		"Window title.":                                        "ウィンドウタイトル。",
		"Stream bytes to inspect for picture size at startup.": "起動時に画像サイズを調べるためのストリームバイト数。",
		"Enable debug output.":                                 "デバッグ出力を有効化。",
		"Directory for debug output.":                          "デバッグ出力のディレクトリ。",
		"Log level (debug, info, warn, error).":                "ログレベル（debug, info, warn, error）。",
		"Suppress all log output.":                             "すべてのログ出力を抑制。",

		// Version command
		"Show version information.": "バージョン情報を表示。",
		"llplay (Go) version %s":    "llplay (Go版) バージョン %s",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。終了しています...",
		"Connecting to %s...":           "%s に接続しています...",
		"Session report failed: %s":     "セッションレポートの書き込みに失敗しました: %s",
	})
}
