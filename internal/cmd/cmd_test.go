package cmd

import (
	"strings"
	"testing"

	"github.com/tang-vu/devboot/internal/project"
)

func testStore(t *testing.T) *project.Store {
	t.Helper()
	store, err := project.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return store
}

func TestResolveTargetsByName(t *testing.T) {
	store := testStore(t)

	api, err := store.Add(project.Project{Name: "api", Path: "/tmp", Commands: []string{"true"}})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	targets, err := resolveTargets(store, []string{"api"})
	if err != nil {
		t.Fatalf("resolveTargets() error: %v", err)
	}
	if len(targets) != 1 || targets[0].ID != api.ID {
		t.Errorf("resolveTargets() = %+v", targets)
	}
}

func TestResolveTargetsUnknown(t *testing.T) {
	store := testStore(t)

	if _, err := resolveTargets(store, []string{"ghost"}); err == nil {
		t.Error("resolveTargets() accepted an unknown project")
	}
}

func TestResolveTargetsDefaultsToAutoStart(t *testing.T) {
	store := testStore(t)

	auto, err := store.Add(project.Project{Name: "auto", Path: "/tmp", Commands: []string{"true"}, AutoStart: true})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := store.Add(project.Project{Name: "manual", Path: "/tmp", Commands: []string{"true"}}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	targets, err := resolveTargets(store, nil)
	if err != nil {
		t.Fatalf("resolveTargets() error: %v", err)
	}
	if len(targets) != 1 || targets[0].ID != auto.ID {
		t.Errorf("resolveTargets() = %+v", targets)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID(long) = %q", got)
	}
	if got := shortID("ab"); got != "ab" {
		t.Errorf("shortID(short) = %q", got)
	}
}

func TestFormatProjectFlags(t *testing.T) {
	p := project.Project{
		ID:             "0123456789abcdef",
		Name:           "api",
		Path:           "/tmp/api",
		Commands:       []string{"a", "b"},
		AutoStart:      true,
		RestartOnCrash: true,
		Enabled:        true,
	}

	line := formatProject(p)
	for _, want := range []string{"01234567", "api", "/tmp/api", "2 commands", "[autostart]", "[restart-on-crash]"} {
		if !strings.Contains(line, want) {
			t.Errorf("formatProject() = %q, missing %q", line, want)
		}
	}
	if strings.Contains(line, "[disabled]") {
		t.Errorf("formatProject() = %q, unexpected disabled flag", line)
	}
}
