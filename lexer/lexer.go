// ==============================================================================================
// FILE: lexer/lexer.go
// ==============================================================================================
// PACKAGE: lexer
// PURPOSE: Splits Pashmak source text into a flat list of Commands (one per
//          logical line, joining continuations while a string or bracket is
//          still open), and exposes a string-aware segmenter that splits
//          text into string-literal and code spans. Mirrors the
//          rune-at-a-time scanning style of
//          amoghasbhardwaj-Eloquence/lexer/lexer.go, generalized from a
//          single-token lexer to a line/command lexer.
// ==============================================================================================

package lexer

import (
	"strings"

	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/token"
)

// Literals re-exports token.Literals so callers that only import lexer (as
// the original's lexer.literals/lexer.parse_string pairing suggests) don't
// need a second import for the same boundary-character set.
var Literals = token.Literals

// Command is one parsed logical line, the unit the dispatcher executes.
// Parse sets every field except Index; frame.Prescan later rewrites a
// `section` command's Head to `pass`. Index is not assigned anywhere and
// stays 0.
type Command struct {
	FilePath   string
	LineNumber int
	SourceText string
	Head       string
	ArgsText   string
	ArgsList   []string
	Index      int
}

// Segment is one chunk of a ParseString split: either a string-literal span
// (quotes included, verbatim) or a code span to be scanned for barewords.
type Segment struct {
	IsString bool
	Text     string
}

// Parse splits source into Commands. filePath is attached to every Command
// and to any SyntaxError raised for unterminated strings/brackets.
func Parse(source, filePath string) ([]*Command, error) {
	raws, err := splitLogical(source, filePath)
	if err != nil {
		return nil, err
	}
	cmds := make([]*Command, 0, len(raws))
	for _, r := range raws {
		head, argsText := splitHeadArgs(r.text)
		cmds = append(cmds, &Command{
			FilePath:   filePath,
			LineNumber: r.line,
			SourceText: r.text,
			Head:       head,
			ArgsText:   argsText,
			ArgsList:   SplitArgs(argsText),
		})
	}
	return cmds, nil
}

type rawCommand struct {
	text string
	line int
}

// splitLogical walks source rune by rune, joining lines while a quote or a
// bracket run is still open, stripping '#' comments outside strings.
func splitLogical(source, filePath string) ([]rawCommand, error) {
	runes := []rune(source)
	n := len(runes)
	i := 0
	line := 1
	var cmds []rawCommand

	for i < n {
		startLine := line
		var sb strings.Builder
		var stack []rune
		var quote rune

		for i < n {
			ch := runes[i]

			if quote != 0 {
				sb.WriteRune(ch)
				if ch == '\\' && i+1 < n {
					i++
					sb.WriteRune(runes[i])
					i++
					continue
				}
				if ch == quote {
					quote = 0
				}
				if ch == '\n' {
					line++
				}
				i++
				continue
			}

			if ch == '#' {
				for i < n && runes[i] != '\n' {
					i++
				}
				continue
			}

			if ch == '\'' || ch == '"' {
				quote = ch
				sb.WriteRune(ch)
				i++
				continue
			}

			if ch == '(' || ch == '[' || ch == '{' {
				stack = append(stack, ch)
				sb.WriteRune(ch)
				i++
				continue
			}
			if ch == ')' || ch == ']' || ch == '}' {
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				sb.WriteRune(ch)
				i++
				continue
			}

			if ch == '\n' {
				i++
				line++
				if len(stack) == 0 {
					break
				}
				sb.WriteRune('\n')
				continue
			}

			sb.WriteRune(ch)
			i++
		}

		if quote != 0 {
			return nil, pashmakerr.New(pashmakerr.SyntaxError, "unterminated string literal").At(filePath, startLine)
		}
		if len(stack) != 0 {
			return nil, pashmakerr.New(pashmakerr.SyntaxError, "unterminated bracket").At(filePath, startLine)
		}

		text := strings.TrimSpace(sb.String())
		if text != "" {
			cmds = append(cmds, rawCommand{text: text, line: startLine})
		}
	}

	return cmds, nil
}

// splitHeadArgs splits a command's text into its head token and the
// remainder verbatim, honoring quotes so a quoted head isn't split early.
func splitHeadArgs(text string) (head, argsText string) {
	runes := []rune(text)
	n := len(runes)
	i := 0
	for i < n {
		ch := runes[i]
		if ch == '\'' || ch == '"' {
			q := ch
			i++
			for i < n {
				if runes[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				if runes[i] == q {
					i++
					break
				}
				i++
			}
			continue
		}
		if ch == ' ' || ch == '\t' {
			break
		}
		i++
	}
	head = string(runes[:i])
	for i < n && (runes[i] == ' ' || runes[i] == '\t') {
		i++
	}
	argsText = string(runes[i:])
	return head, argsText
}

// SplitArgs shallow-splits text on whitespace, honoring string literals and
// balanced ()/[]/{} so a bracketed or quoted argument isn't split inside.
func SplitArgs(text string) []string {
	runes := []rune(text)
	n := len(runes)
	var args []string
	var cur strings.Builder
	var stack []rune
	var quote rune

	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < n; i++ {
		ch := runes[i]
		if quote != 0 {
			cur.WriteRune(ch)
			if ch == '\\' && i+1 < n {
				i++
				cur.WriteRune(runes[i])
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch {
		case ch == '\'' || ch == '"':
			quote = ch
			cur.WriteRune(ch)
		case ch == '(' || ch == '[' || ch == '{':
			stack = append(stack, ch)
			cur.WriteRune(ch)
		case ch == ')' || ch == ']' || ch == '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			cur.WriteRune(ch)
		case len(stack) == 0 && (ch == ' ' || ch == '\t'):
			flush()
		default:
			cur.WriteRune(ch)
		}
	}
	flush()
	return args
}

// ParseString splits text into alternating string/code segments so a caller
// can walk only the code segments, leaving string-literal contents
// untouched. The expression parser does not use it; exprparser tokenizes
// string literals itself.
func ParseString(text string) []Segment {
	runes := []rune(text)
	n := len(runes)
	var segs []Segment
	var code strings.Builder

	i := 0
	for i < n {
		ch := runes[i]
		if ch == '\'' || ch == '"' {
			if code.Len() > 0 {
				segs = append(segs, Segment{IsString: false, Text: code.String()})
				code.Reset()
			}
			q := ch
			var sb strings.Builder
			sb.WriteRune(ch)
			i++
			for i < n {
				c := runes[i]
				sb.WriteRune(c)
				if c == '\\' && i+1 < n {
					i++
					sb.WriteRune(runes[i])
					i++
					continue
				}
				i++
				if c == q {
					break
				}
			}
			segs = append(segs, Segment{IsString: true, Text: sb.String()})
			continue
		}
		code.WriteRune(ch)
		i++
	}
	if code.Len() > 0 {
		segs = append(segs, Segment{IsString: false, Text: code.String()})
	}
	return segs
}
