package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Engine selection (accel component)
		"Using hardware decoder %s":                                  "ハードウェアデコーダ %s を使用します",
		"Using software decoder %s":                                  "ソフトウェアデコーダ %s を使用します",
		"Hardware decoder unavailable, falling back to software: %s": "ハードウェアデコーダが利用できません。ソフトウェアにフォールバックします: %s",

		// Decode session
		"Engine saturated, unit discarded":    "エンジンが飽和しています。ユニットを破棄しました",
		"Engine rejected unit, skipping: %s":  "エンジンがユニットを拒否しました。スキップします: %s",
		"Decoder fault, output abandoned: %s": "デコーダ障害。出力を破棄しました: %s",

		// Realization
		"Device transfer failed, picture dropped: %s": "デバイス転送に失敗しました。ピクチャを破棄しました: %s",

		// Presentation
		"Stream renegotiated to %dx%d, rebuilding surfaces": "ストリームが %dx%d に再交渉されました。サーフェスを再構築します",
		"Conversion failed, picture dropped: %s":            "変換に失敗しました。ピクチャを破棄しました: %s",
		"Surface allocation failed: %s":                     "サーフェスの割り当てに失敗しました: %s",
		"Surface update failed: %s":                         "サーフェスの更新に失敗しました: %s",
		"Present failed: %s":                                "表示に失敗しました: %s",

		// Driver
		"Streaming %s %dx%d with %s":          "%s %dx%d を %s でストリーミング中",
		"Stop requested, shutting down":       "停止が要求されました。シャットダウンします",
		"Display requested stop":              "ディスプレイから停止が要求されました",
		"End of stream":                       "ストリームが終了しました",
		"Engine close failed: %s":             "エンジンのクローズに失敗しました: %s",
		"Source close failed: %s":             "ソースのクローズに失敗しました: %s",
		"Presented %d of %d decoded pictures": "%d 枚を表示しました（デコード %d 枚中）",

		// Ingest
		"Probing stream (up to %d bytes)": "ストリームを解析中（最大 %d バイト）",
		"Negotiated %s stream %dx%d":      "%s ストリーム %dx%d を交渉しました",
	})
}
