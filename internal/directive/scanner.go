package directive

import (
	"regexp"
	"strings"

	"github.com/fastcop/fastcop/internal/ast"
	"github.com/fastcop/fastcop/internal/cop"
	"github.com/fastcop/fastcop/internal/source"
)

// directivePattern matches `fastcop:(disable|enable|todo) <cop-list>[ -- comment]`
// against a comment's text (the parser hands comments over with their
// leading '#' already stripped). The directive must open the comment, up
// to leading whitespace; the keyword is case-insensitive and whitespace
// around ':' and between tokens is tolerant.
var directivePattern = regexp.MustCompile(
	`(?i)^\s*` + DirectiveName + `\s*:\s*(disable|enable|todo)\s+([^\n]*)`)

// Scan extracts every directive comment from tree and resolves it into a
// Table. reg supplies the closed set of known departments used to expand
// department tokens and to flag unqualified-unknown ones.
func Scan(file *source.File, tree *ast.Tree, reg *cop.Registry) *Table {
	t := &Table{}
	open := make(map[string]Region) // cop name -> in-progress block region

	departments := make(map[string]struct{})
	for _, d := range reg.Departments() {
		departments[d] = struct{}{}
	}

	for _, c := range tree.Comments {
		m := directivePattern.FindStringSubmatch(c.Text)
		if m == nil {
			continue
		}

		line := file.OffsetToPosition(c.Location.StartOffset).Line
		kind := parseKind(m[1])
		tokenPart, comment := splitComment(m[2])
		tokens := splitTokens(tokenPart)
		if len(tokens) == 0 {
			continue
		}

		cops := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			switch {
			case strings.EqualFold(tok, AllCops):
				cops = append(cops, AllCops)
			case strings.Contains(tok, "/"):
				cops = append(cops, tok)
			case isKnownDepartment(tok, departments):
				for _, c := range reg.ByDepartment(tok) {
					cops = append(cops, c.Name())
				}
			default:
				t.UnknownTokens = append(t.UnknownTokens, UnknownToken{Line: line, Token: tok})
				cops = append(cops, tok)
			}
		}

		bareComment := isBareCommentLine(file, line)

		switch kind {
		case KindDisable, KindTodo:
			todo := kind == KindTodo
			if bareComment {
				for _, copName := range cops {
					open[copName] = Region{Cop: copName, Start: line + 1, Todo: todo, DirectiveLine: line, Comment: comment}
				}
			} else {
				for _, copName := range cops {
					t.Regions = append(t.Regions, Region{
						Cop: copName, Start: line, End: line, Todo: todo, DirectiveLine: line, Comment: comment,
					})
				}
			}
		case KindEnable:
			for _, copName := range cops {
				if copName == AllCops {
					for k, r := range open {
						r.End = line - 1
						t.Regions = append(t.Regions, r)
						delete(open, k)
					}
					continue
				}
				if r, ok := open[copName]; ok {
					r.End = line - 1
					t.Regions = append(t.Regions, r)
					delete(open, copName)
				} else {
					t.RedundantEnables = append(t.RedundantEnables, RedundantEnable{Line: line, Cop: copName})
				}
			}
		}
	}

	lastLine := file.LineCount()
	for _, r := range open {
		r.End = lastLine
		t.Regions = append(t.Regions, r)
	}

	return t
}

func parseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "enable":
		return KindEnable
	case "todo":
		return KindTodo
	default:
		return KindDisable
	}
}

// splitComment separates the cop-list portion from a trailing ` -- comment`.
func splitComment(s string) (tokens, comment string) {
	if i := strings.Index(s, "--"); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+2:])
	}
	return strings.TrimSpace(s), ""
}

func splitTokens(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isKnownDepartment(tok string, departments map[string]struct{}) bool {
	_, ok := departments[tok]
	return ok
}

// isBareCommentLine reports whether line's only non-whitespace content is
// the directive comment itself — i.e. a "disable on a line by itself"
// as opposed to a trailing same-line disable.
func isBareCommentLine(file *source.File, line int) bool {
	text := file.LineString(line)
	i := strings.IndexByte(text, '#')
	if i < 0 {
		return false
	}
	return strings.TrimSpace(text[:i]) == ""
}
