package logger

import (
	"testing"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

func TestLevelTint(t *testing.T) {
	cases := []struct {
		level ports.LogLevel
		want  string
	}{
		{ports.LevelDebug, ansiGray},
		{ports.LevelInfo, ""},
		{ports.LevelWarn, ansiYellow},
		{ports.LevelError, ansiRed},
	}
	for _, tc := range cases {
		if got := levelTint(tc.level); got != tc.want {
			t.Errorf("levelTint(%v) = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestWithComponentIsIndependent(t *testing.T) {
	base := NewConsole(ports.LevelWarn)
	scoped := base.WithComponent("decode").(*ConsoleLogger)

	if scoped.component != "decode" {
		t.Errorf("component = %q, want decode", scoped.component)
	}
	if base.component != "" {
		t.Error("WithComponent must not mutate the parent logger")
	}
	if scoped.level != ports.LevelWarn {
		t.Error("scoped logger must keep the parent level")
	}
}
