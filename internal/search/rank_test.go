package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	title, name, body string
}

func (r record) SearchFields() Fields {
	return Fields{Title: r.title, Name: r.name, Body: r.body}
}

func names(hits []Hit[record]) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Item.name
	}
	return out
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"how_to", "customize", "md"}, Tokenize("How_To/Customize.md"))
	assert.Equal(t, []string{"int", "slider", "2"}, Tokenize("  Int-Slider 2 "))
	assert.Empty(t, Tokenize("  ...  "))
}

func TestRank_EmptyQuery(t *testing.T) {
	items := []record{{title: "A", name: "a.md", body: "About A."}}

	assert.Empty(t, Rank(items, "", 10))
	assert.Empty(t, Rank(items, "   ", 10))
	assert.Empty(t, Rank(items, "?!", 10))
}

func TestRank_TwoPages(t *testing.T) {
	items := []record{
		{title: "B", name: "b.md", body: "About B and A."},
		{title: "A", name: "a.md", body: "About A."},
	}

	hits := Rank(items, "A", 10)
	require.Len(t, hits, 2)
	assert.Equal(t, "a.md", hits[0].Item.name)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestRank_Weights(t *testing.T) {
	tests := []struct {
		name  string
		rec   record
		query string
		want  int
	}{
		{
			name:  "exact and whole word in title",
			rec:   record{title: "Button"},
			query: "button",
			want:  exactTitle + wordTitle,
		},
		{
			name:  "partial in name only",
			rec:   record{name: "buttons.md"},
			query: "button",
			want:  exactName + partialName,
		},
		{
			name:  "whole word in body",
			rec:   record{body: "A slider widget"},
			query: "slider",
			want:  exactBody + wordBody,
		},
		{
			name:  "two tokens in title in order",
			rec:   record{title: "Int Slider"},
			query: "int slider",
			want:  exactTitle + 2*wordTitle + 2*multiTokenBonus + orderTitle,
		},
		{
			name:  "two tokens in title reversed",
			rec:   record{title: "Slider Int"},
			query: "int slider",
			want:  2*wordTitle + 2*multiTokenBonus,
		},
		{
			name:  "order falls back to name",
			rec:   record{title: "slider int", name: "int_x slider int slider"},
			query: "int slider",
			want:  2*wordTitle + 2*wordName + 2*multiTokenBonus + exactName + orderName,
		},
		{
			name:  "repeated token counted once",
			rec:   record{title: "Card"},
			query: "card card",
			want:  wordTitle,
		},
		{
			name:  "no match",
			rec:   record{title: "Card", name: "card.md", body: "A card."},
			query: "tabs",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.rec.SearchFields(), tt.query))
		})
	}
}

func TestRank_ExactTitleBeatsPartial(t *testing.T) {
	items := []record{
		{title: "Sliders overview", name: "x.md"},
		{title: "Slider", name: "y.md"},
	}

	hits := Rank(items, "slider", 10)
	require.Len(t, hits, 2)
	assert.Equal(t, "y.md", hits[0].Item.name)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestRank_StableAndLimited(t *testing.T) {
	items := []record{
		{title: "Alpha", name: "1"},
		{title: "Alpha", name: "2"},
		{title: "Alpha", name: "3"},
		{title: "Beta", name: "4"},
	}

	first := Rank(items, "alpha", 2)
	second := Rank(items, "alpha", 2)
	assert.Equal(t, []string{"1", "2"}, names(first))
	assert.Equal(t, first, second)

	assert.Len(t, Rank(items, "alpha", 0), 3, "non-positive limit uses the default")
}

func TestRank_DefaultLimit(t *testing.T) {
	var items []record
	for i := 0; i < 15; i++ {
		items = append(items, record{title: "Widget"})
	}
	assert.Len(t, Rank(items, "widget", -1), DefaultLimit)
}

func TestRankSimple(t *testing.T) {
	items := []record{
		{title: "ButtonIcon", name: "panel_material_ui.widgets.ButtonIcon", body: "An icon button."},
		{title: "Button", name: "panel_material_ui.widgets.Button", body: "A button."},
		{title: "Card", name: "panel_material_ui.layout.Card", body: "Card with a button."},
		{title: "Tabs", name: "panel_material_ui.layout.Tabs", body: ""},
	}

	hits := RankSimple(items, "Button", 10)
	require.Len(t, hits, 3)
	assert.Equal(t, "panel_material_ui.widgets.Button", hits[0].Item.name)
	assert.Equal(t, 100, hits[0].Score)
	assert.Equal(t, 80, hits[1].Score)
	assert.Equal(t, 40, hits[2].Score)

	hits = RankSimple(items, "layout", 10)
	require.Len(t, hits, 2)
	assert.Equal(t, 60, hits[0].Score)

	assert.Empty(t, RankSimple(items, " ", 10))
}
