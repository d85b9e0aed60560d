package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsampsh/pashmak-core/lexer"
)

func TestParseBasicCommands(t *testing.T) {
	src := "show \"hello\"\nlet $x = 1\n"
	cmds, err := lexer.Parse(src, "main.pm")
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	assert.Equal(t, "show", cmds[0].Head)
	assert.Equal(t, "\"hello\"", cmds[0].ArgsText)
	assert.Equal(t, 1, cmds[0].LineNumber)

	assert.Equal(t, "let", cmds[1].Head)
	assert.Equal(t, "$x = 1", cmds[1].ArgsText)
	assert.Equal(t, 2, cmds[1].LineNumber)
}

func TestParseStripsComments(t *testing.T) {
	src := "show \"a\" # a trailing comment\n# whole-line comment\nshow \"b\"\n"
	cmds, err := lexer.Parse(src, "f.pm")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "\"a\"", cmds[0].ArgsText)
	assert.Equal(t, "\"b\"", cmds[1].ArgsText)
}

func TestParseHonorsCommentInsideString(t *testing.T) {
	src := "show \"not # a comment\"\n"
	cmds, err := lexer.Parse(src, "f.pm")
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "\"not # a comment\"", cmds[0].ArgsText)
}

func TestParseContinuesAcrossOpenBracket(t *testing.T) {
	src := "call foo(1,\n2,\n3)\nnextline\n"
	cmds, err := lexer.Parse(src, "f.pm")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "call", cmds[0].Head)
	assert.Contains(t, cmds[0].SourceText, "foo(1,\n2,\n3)")
	assert.Equal(t, "nextline", cmds[1].Head)
}

func TestParseUnterminatedStringErrors(t *testing.T) {
	_, err := lexer.Parse("show \"unterminated", "f.pm")
	require.Error(t, err)
}

func TestParseUnterminatedBracketErrors(t *testing.T) {
	_, err := lexer.Parse("call foo(1, 2", "f.pm")
	require.Error(t, err)
}

func TestParseBlankLinesProduceNoCommand(t *testing.T) {
	cmds, err := lexer.Parse("\n\n   \n", "f.pm")
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestSplitArgsHonorsQuotesAndBrackets(t *testing.T) {
	args := lexer.SplitArgs(`"a b" c(d, e) f`)
	assert.Equal(t, []string{`"a b"`, "c(d, e)", "f"}, args)
}

func TestParseStringRoundTrips(t *testing.T) {
	text := `foo + "bar baz" + qux`
	segs := lexer.ParseString(text)

	var rebuilt string
	for _, s := range segs {
		rebuilt += s.Text
	}
	assert.Equal(t, text, rebuilt)

	require.Len(t, segs, 3)
	assert.False(t, segs[0].IsString)
	assert.True(t, segs[1].IsString)
	assert.Equal(t, `"bar baz"`, segs[1].Text)
	assert.False(t, segs[2].IsString)
}

func TestParseStringEscapedQuoteStaysInsideSegment(t *testing.T) {
	text := `"a \"b\" c"`
	segs := lexer.ParseString(text)
	require.Len(t, segs, 1)
	assert.True(t, segs[0].IsString)
	assert.Equal(t, text, segs[0].Text)
}
