package symbols

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonSource = `import os


def add_one(x):
    return x + 1


class Greeter(object):
    """Says hello."""

    def __init__(self, name):
        self.name = name

    async def greet(
        self,
        loud: bool = False,
    ) -> str:
        def shout(s):
            return s.upper()
        text = """
def not_a_function():
"""
        return shout(text) if loud else text


def documented():
    '''Already done.'''
    # trailing comment
    return 1

def one_liner(): return 2
`

func TestPython_Symbols(t *testing.T) {
	got, err := Python{}.Symbols(context.Background(), Document{LanguageID: "python", Text: pythonSource})
	require.NoError(t, err)
	require.Len(t, got, 4)

	add := got[0]
	assert.Equal(t, "add_one", add.Name)
	assert.Equal(t, Function, add.Kind)
	assert.Equal(t, Range{StartLine: 3, EndLine: 4}, add.Range)
	assert.False(t, add.Documented)

	greeter := got[1]
	assert.Equal(t, "Greeter", greeter.Name)
	assert.Equal(t, Class, greeter.Kind)
	assert.Equal(t, Range{StartLine: 7, EndLine: 22}, greeter.Range)
	assert.True(t, greeter.Documented)
	require.Len(t, greeter.Children, 2)

	init := greeter.Children[0]
	assert.Equal(t, "__init__", init.Name)
	assert.Equal(t, Method, init.Kind)
	assert.Equal(t, Range{StartLine: 10, EndLine: 11}, init.Range)

	greet := greeter.Children[1]
	assert.Equal(t, "greet", greet.Name)
	assert.Equal(t, Method, greet.Kind)
	assert.Equal(t, Range{StartLine: 13, EndLine: 22}, greet.Range)
	require.Len(t, greet.Children, 1)
	assert.Equal(t, "shout", greet.Children[0].Name)
	assert.Equal(t, Function, greet.Children[0].Kind)

	documented := got[2]
	assert.Equal(t, "documented", documented.Name)
	assert.True(t, documented.Documented)
	assert.Equal(t, Range{StartLine: 25, EndLine: 28}, documented.Range)

	oneLiner := got[3]
	assert.Equal(t, "one_liner", oneLiner.Name)
	assert.Equal(t, Range{StartLine: 30, EndLine: 30}, oneLiner.Range)
	assert.False(t, oneLiner.Documented)
}

func TestPython_TextInFeedsFormatter(t *testing.T) {
	doc := Document{LanguageID: "python", Text: pythonSource}
	got, err := Python{}.Symbols(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "def add_one(x):\n    return x + 1", doc.TextIn(got[0].Range))
}

func TestPython_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Python{}.Symbols(ctx, Document{Text: pythonSource})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMaskPython(t *testing.T) {
	masked, continued := maskPython("x = 'a#b'  # note\ny = \"\"\"\nz\n\"\"\"\n")
	assert.Equal(t, "x = '   '        \ny = \"\"\"\n \n\"\"\"\n", masked)
	assert.Equal(t, map[int]bool{2: true, 3: true}, continued)
}
