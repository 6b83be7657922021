package pots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		contribs []Contribution
		want     []Pot
	}{
		{
			name: "short all-in creates a side pot",
			contribs: []Contribution{
				{PlayerID: "A", Amount: 100, AllIn: true},
				{PlayerID: "B", Amount: 100},
				{PlayerID: "C", Amount: 300},
			},
			want: []Pot{
				{Amount: 300, Eligible: []string{"A", "B", "C"}},
				{Amount: 200, Eligible: []string{"B", "C"}},
			},
		},
		{
			name: "equal contributions make a single pot",
			contribs: []Contribution{
				{PlayerID: "A", Amount: 50},
				{PlayerID: "B", Amount: 50},
				{PlayerID: "C", Amount: 50},
			},
			want: []Pot{
				{Amount: 150, Eligible: []string{"A", "B", "C"}},
			},
		},
		{
			name: "folded money is dead but never eligible",
			contribs: []Contribution{
				{PlayerID: "A", Amount: 20, Folded: true},
				{PlayerID: "B", Amount: 60},
				{PlayerID: "C", Amount: 60},
			},
			want: []Pot{
				{Amount: 140, Eligible: []string{"B", "C"}},
			},
		},
		{
			name: "several all-in levels",
			contribs: []Contribution{
				{PlayerID: "A", Amount: 25, AllIn: true},
				{PlayerID: "B", Amount: 75, AllIn: true},
				{PlayerID: "C", Amount: 150},
				{PlayerID: "D", Amount: 150},
				{PlayerID: "E", Amount: 10, Folded: true},
			},
			want: []Pot{
				{Amount: 110, Eligible: []string{"A", "B", "C", "D"}},
				{Amount: 150, Eligible: []string{"B", "C", "D"}},
				{Amount: 150, Eligible: []string{"C", "D"}},
			},
		},
		{
			name: "folded overage above the top all-in joins the last pot",
			contribs: []Contribution{
				{PlayerID: "A", Amount: 40, AllIn: true},
				{PlayerID: "B", Amount: 40, AllIn: true},
				{PlayerID: "C", Amount: 90, Folded: true},
			},
			want: []Pot{
				{Amount: 170, Eligible: []string{"A", "B"}},
			},
		},
		{
			name: "all-in covering the table",
			contribs: []Contribution{
				{PlayerID: "A", Amount: 200, AllIn: true},
				{PlayerID: "B", Amount: 80, AllIn: true},
			},
			want: []Pot{
				{Amount: 160, Eligible: []string{"A", "B"}},
				{Amount: 120, Eligible: []string{"A"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.contribs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_NoContributions(t *testing.T) {
	got := Build([]Contribution{{PlayerID: "A"}, {PlayerID: "B", Folded: true}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestBuild_TotalsAlwaysMatch(t *testing.T) {
	cases := [][]Contribution{
		{{PlayerID: "A", Amount: 3, AllIn: true}, {PlayerID: "B", Amount: 7, Folded: true}, {PlayerID: "C", Amount: 11}},
		{{PlayerID: "A", Amount: 1, Folded: true}, {PlayerID: "B", Amount: 2, Folded: true}, {PlayerID: "C", Amount: 2}},
		{{PlayerID: "A", Amount: 9, AllIn: true}, {PlayerID: "B", Amount: 4, AllIn: true}, {PlayerID: "C", Amount: 9, AllIn: true}},
		{{PlayerID: "A", Amount: 5, Folded: true}, {PlayerID: "B", Amount: 5, Folded: true}},
	}

	for _, contribs := range cases {
		want := 0
		for _, c := range contribs {
			want += c.Amount
		}
		got := Build(contribs)
		require.Equal(t, want, Total(got))
		for _, p := range got {
			for _, c := range contribs {
				if c.Folded {
					assert.False(t, p.IsEligible(c.PlayerID))
				}
			}
		}
	}
}
