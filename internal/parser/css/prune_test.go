package css_test

import (
	"testing"

	"bennypowers.dev/decomment/internal/parser/css"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrune(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		removed int
	}{
		{name: "none", source: ".a { color: red; }", removed: 0},
		{name: "top level", source: "/* a */ .a { color: red; } /* b */", removed: 2},
		{name: "in block", source: ".a { /* a */ color: red; /* b */ }", removed: 2},
		{name: "in value", source: ".a { color: red /* a */ !important; }", removed: 1},
		{name: "in selector list", source: ".a, /* a */ .b { color: red; }", removed: 1},
		{name: "in media", source: "@media print { /* a */ .a { /* b */ color: red; } }", removed: 2},
		{name: "in keyframes", source: "@keyframes k { /* a */ from { /* b */ top: 0; } }", removed: 2},
		{name: "in import", source: `@import /* a */ url("x.css");`, removed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := parse(t, tt.source)
			require.Equal(t, tt.removed, css.CountComments(sheet), "comments found before pruning")

			assert.Equal(t, tt.removed, css.Prune(sheet))
			assert.Equal(t, 0, css.CountComments(sheet), "no comment may survive at any depth")
			assert.Equal(t, 0, css.Prune(sheet), "pruning twice removes nothing")
		})
	}
}

func TestPruneKeepsOrder(t *testing.T) {
	sheet := &css.Stylesheet{Rules: []css.Node{
		&css.Comment{Value: "/* 1 */"},
		&css.Raw{Parts: []css.Node{&css.Text{Value: "@charset \"utf-8\";"}}},
		&css.Comment{Value: "/* 2 */"},
		&css.Rule{
			Selectors:    []css.Node{&css.Selector{Parts: []css.Node{&css.Text{Value: ".x"}}}},
			Declarations: []css.Node{&css.Comment{Value: "/* 3 */"}},
		},
	}}

	assert.Equal(t, 3, css.Prune(sheet))
	require.Len(t, sheet.Rules, 2)
	assert.Equal(t, css.KindRaw, sheet.Rules[0].Kind())
	assert.Equal(t, css.KindRule, sheet.Rules[1].Kind())
	assert.Empty(t, sheet.Rules[1].(*css.Rule).Declarations)
}
