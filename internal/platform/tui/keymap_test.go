package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKeyMoves(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runeKey("w"), core.ActionUp},
		{runeKey("k"), core.ActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown},
		{runeKey("s"), core.ActionDown},
		{runeKey("j"), core.ActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runeKey("a"), core.ActionLeft},
		{runeKey("h"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{runeKey("d"), core.ActionRight},
		{runeKey("l"), core.ActionRight},
		{runeKey("p"), core.ActionPause},
		{runeKey("r"), core.ActionRestart},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{runeKey("x"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			got, quit := km.MapKey(tt.msg)
			assert.Equal(t, tt.want, got)
			assert.False(t, quit)
		})
	}
}

func TestMapKeyQuit(t *testing.T) {
	km := NewKeyMapper()
	for _, msg := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		action, quit := km.MapKey(msg)
		assert.True(t, quit, msg.String())
		assert.Equal(t, core.ActionQuit, action)
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	assert.False(t, km.MapKeyToFrame(runeKey("h"), &frame))
	assert.True(t, frame.Has(core.ActionLeft))

	assert.False(t, km.MapKeyToFrame(runeKey("x"), &frame))
	assert.True(t, km.MapKeyToFrame(runeKey("q"), &frame))
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	assert.Equal(t, MenuActionUp, km.MapKeyToMenuAction(runeKey("k")))
	assert.Equal(t, MenuActionDown, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyDown}))
	assert.Equal(t, MenuActionSelect, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, MenuActionBack, km.MapKeyToMenuAction(runeKey("b")))
	assert.Equal(t, MenuActionScoreboard, km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, MenuActionQuit, km.MapKeyToMenuAction(runeKey("q")))
	assert.Equal(t, MenuActionNone, km.MapKeyToMenuAction(runeKey("z")))
}
