package registry

import (
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterCreateList(t *testing.T) {
	Register("zz-stub", func() Game { return &stubGame{id: "zz-stub"} })

	if !Exists("zz-stub") {
		t.Fatal("registered game should exist")
	}

	g, err := Create("zz-stub")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz-stub" {
		t.Errorf("ID() = %q, expected zz-stub", g.ID())
	}

	found := false
	list := List()
	for i, info := range list {
		if i > 0 && list[i-1].ID > info.ID {
			t.Errorf("List not sorted: %q before %q", list[i-1].ID, info.ID)
		}
		if info.ID == "zz-stub" {
			found = true
			if info.Title != "Stub zz-stub" {
				t.Errorf("title = %q, expected %q", info.Title, "Stub zz-stub")
			}
		}
	}
	if !found {
		t.Error("List() missing registered game")
	}
}

func TestTryRegisterDuplicate(t *testing.T) {
	f := func() Game { return &stubGame{id: "zz-dup"} }
	if err := TryRegister("zz-dup", f); err != nil {
		t.Fatalf("first TryRegister: %v", err)
	}
	if err := TryRegister("zz-dup", f); err == nil {
		t.Error("duplicate TryRegister should fail")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("zz-dup", f)
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("does-not-exist"); err == nil {
		t.Error("Create of unknown ID should fail")
	}
}
