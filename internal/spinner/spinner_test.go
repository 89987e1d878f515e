package spinner

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "Starting VM", width: 20, want: "Starting VM"},
		{name: "cut", in: "Exporting VM index 12", width: 10, want: "Exporti..."},
		{name: "too narrow", in: "anything", width: 3, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.width))
		})
	}
}

func TestModel_Update(t *testing.T) {
	t.Run("done quits and clears", func(t *testing.T) {
		m := newModel("Cloning VM", 80, time.Now())

		next, cmd := m.Update(doneMsg{})

		assert.NotNil(t, cmd)
		assert.Empty(t, next.(model).View())
		assert.False(t, next.(model).interrupted)
	})

	t.Run("ctrl+c interrupts", func(t *testing.T) {
		m := newModel("Cloning VM", 80, time.Now())

		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		assert.True(t, next.(model).interrupted)
	})

	t.Run("view shows title and elapsed", func(t *testing.T) {
		m := newModel("Starting VM index 0", 80, time.Now().Add(-3*time.Second))

		assert.Contains(t, m.View(), "Starting VM index 0 (3s)")
	})

	t.Run("resize", func(t *testing.T) {
		m := newModel("x", 80, time.Now())

		next, _ := m.Update(tea.WindowSizeMsg{Width: 40})

		assert.Equal(t, 40, next.(model).width)
	})
}
