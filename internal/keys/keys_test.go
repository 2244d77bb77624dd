package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestForm_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"NextField uses tab and down", Form.NextField, []string{"tab", "down"}},
		{"PrevField uses shift+tab and up", Form.PrevField, []string{"shift+tab", "up"}},
		{"Submit uses enter", Form.Submit, []string{"enter"}},
		{"ToggleRole uses ctrl+r", Form.ToggleRole, []string{"ctrl+r"}},
		{"Login uses ctrl+l", Form.Login, []string{"ctrl+l"}},
		{"Logs uses ctrl+x", Form.Logs, []string{"ctrl+x"}},
		{"Quit uses ctrl+c only", Form.Quit, []string{"ctrl+c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

// Letters are typed into inputs, so no form binding may claim a bare rune.
func TestForm_NoPrintableBindings(t *testing.T) {
	for _, row := range Form.FullHelp() {
		for _, b := range row {
			for _, k := range b.Keys() {
				require.Greater(t, len(k), 1, "binding %q would swallow typed text", k)
			}
		}
	}
}

func TestLanding_KeyAssignments(t *testing.T) {
	require.Equal(t, []string{"esc"}, Landing.Back.Keys())
	require.Equal(t, []string{"q", "ctrl+c"}, Landing.Quit.Keys())
	require.Equal(t, "back to sign up", Landing.Back.Help().Desc)
}

func TestHelpIncludesAllBindings(t *testing.T) {
	var n int
	for _, row := range Form.FullHelp() {
		n += len(row)
	}
	require.Equal(t, 7, n)
	require.Len(t, Landing.FullHelp()[0], 3)
}
