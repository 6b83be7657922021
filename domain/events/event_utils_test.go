package events_test

import (
	"testing"

	"github.com/lazharichir/holdem/domain/events"
	"github.com/stretchr/testify/assert"
)

type lobbyNotice struct{ Text string }

func (lobbyNotice) Name() string { return "LOBBY_NOTICE" }

type tableNumber struct{ TableID int }

func (tableNumber) Name() string { return "TABLE_NUMBER" }

func TestTableOf(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
		want  string
	}{
		{"value", events.ActionApplied{TableID: "t1"}, "t1"},
		{"pointer", &events.HandEnded{TableID: "t2"}, "t2"},
		{"empty table", events.HandStarted{HandID: "h1"}, ""},
		{"no field", lobbyNotice{Text: "hi"}, ""},
		{"field of the wrong type", tableNumber{TableID: 4}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := events.TableOf(tt.event)
			if tt.want == "" {
				assert.ErrorIs(t, err, events.ErrNoTable)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
