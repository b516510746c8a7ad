//go:build unix

package supervisor

import (
	"os/exec"
	"testing"

	"github.com/tang-vu/devboot/internal/errors"
)

func TestFindShellHonorsShellEnv(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skipf("no sh on PATH: %v", err)
	}
	t.Setenv("SHELL", sh)

	got, err := findShell()
	if err != nil {
		t.Fatalf("findShell() error: %v", err)
	}
	if got != sh {
		t.Errorf("findShell() = %q, want $SHELL value %q", got, sh)
	}
}

func TestFindShellExhaustion(t *testing.T) {
	t.Setenv("SHELL", "")
	t.Setenv("PATH", t.TempDir())

	if _, err := findShell(); !errors.Is(err, errors.ErrShellNotFound) {
		t.Errorf("findShell() error = %v, want ErrShellNotFound", err)
	}
}
