package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherDispatchesFirstFullMatch(t *testing.T) {
	var hits []string
	m := NewMatcher(
		P("key_value", `(?P<key>\w+)=(?P<value>\w+)`, func(g map[string]string) error {
			hits = append(hits, "key_value:"+g["key"]+"="+g["value"])
			return nil
		}),
		P("comment", `.*`, func(g map[string]string) error {
			hits = append(hits, "comment")
			return nil
		}),
	)

	require.NoError(t, m.Match("FOO=bar"))
	require.NoError(t, m.Match("just some text"))

	assert.Equal(t, []string{"key_value:FOO=bar", "comment"}, hits)
}

func TestMatcherNoMatch(t *testing.T) {
	m := NewMatcher(
		P("digits", `\d+`, func(map[string]string) error { return nil }),
	)
	err := m.Match("not a digit")
	require.Error(t, err)
	var noMatch *ErrNoPatternMatched
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "not a digit", noMatch.Line)
}

func TestMatcherRequiresFullMatch(t *testing.T) {
	var matched bool
	m := NewMatcher(
		P("exact", `abc`, func(map[string]string) error {
			matched = true
			return nil
		}),
	)
	err := m.Match("xabcx")
	require.Error(t, err)
	assert.False(t, matched)
}

func TestMatcherPropagatesHandlerError(t *testing.T) {
	sentinel := assert.AnError
	m := NewMatcher(
		P("always", `.*`, func(map[string]string) error { return sentinel }),
	)
	err := m.Match("anything")
	assert.ErrorIs(t, err, sentinel)
}
