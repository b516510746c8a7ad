package supervisor

import (
	"strings"
	"testing"

	"github.com/tang-vu/devboot/internal/errors"
)

func TestBuildScriptJoinsCommands(t *testing.T) {
	spec := CommandSpec{
		Dir:      "/home/dev/api",
		Commands: []string{"npm install", "npm run dev"},
	}

	got := buildScript(spec)
	want := "cd '/home/dev/api' && npm install && npm run dev"
	if got != want {
		t.Errorf("buildScript() = %q, want %q", got, want)
	}
}

func TestBuildScriptNormalizesBackslashes(t *testing.T) {
	spec := CommandSpec{
		Dir:      `C:\Users\dev\api`,
		Commands: []string{"python app.py"},
	}

	got := buildScript(spec)
	if !strings.HasPrefix(got, "cd 'C:/Users/dev/api'") {
		t.Errorf("buildScript() = %q, want forward-slash directory", got)
	}
}

func TestBuildScriptSingleCommand(t *testing.T) {
	got := buildScript(CommandSpec{Dir: "/tmp", Commands: []string{"true"}})
	if got != "cd '/tmp' && true" {
		t.Errorf("buildScript() = %q", got)
	}
}

func TestNewLauncherFindsShell(t *testing.T) {
	l := NewLauncher()
	if l.shellErr != nil {
		t.Fatalf("shell discovery error: %v", l.shellErr)
	}
	if l.Shell() == "" {
		t.Fatal("expected a non-empty shell path")
	}
}

func TestLaunchFailsWithoutShell(t *testing.T) {
	l := &Launcher{shellErr: errors.ErrShellNotFound}
	if _, err := l.Launch(CommandSpec{Dir: "/tmp", Commands: []string{"true"}}); !errors.Is(err, errors.ErrShellNotFound) {
		t.Errorf("Launch() error = %v, want ErrShellNotFound", err)
	}
}
