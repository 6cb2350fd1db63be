// Package page reads the problem context out of a coding-problem page:
// the problem statement from the page metadata and the user's code from the
// editor markup.
package page

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ProblemStatement returns the problem statement carried by doc.
// For an HTML page that is the content of <meta name="description">, falling
// back to og:description. Anything else, including text that merely contains
// angle brackets, is returned trimmed.
func ProblemStatement(doc string) string {
	if !hasTag(doc, atom.Html, atom.Head, atom.Meta) {
		return strings.TrimSpace(doc)
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}

	var description, og string
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Meta {
			return true
		}
		switch {
		case strings.EqualFold(attr(n, "name"), "description") && description == "":
			description = attr(n, "content")
		case strings.EqualFold(attr(n, "property"), "og:description") && og == "":
			og = attr(n, "content")
		}
		return true
	})

	if description != "" {
		return strings.TrimSpace(description)
	}
	return strings.TrimSpace(og)
}

var topPx = regexp.MustCompile(`top:\s*(-?\d+(?:\.\d+)?)px`)

type editorLine struct {
	top  float64
	text string
}

// ExtractCode turns code editor markup into source text.
// Every element whose class list contains "view-line" is one line of code;
// lines are ordered by their absolute "top" offset when every line has one,
// since the editor does not keep DOM order in sync with line order.
// Input without such lines, which includes plain source code, is returned
// unchanged.
func ExtractCode(markup string) string {
	if code, ok := editorLines(markup); ok {
		return code
	}
	return markup
}

// ExtractPageCode is ExtractCode for input known to be markup: without editor
// lines it yields the text content instead of the raw markup.
func ExtractPageCode(markup string) string {
	if code, ok := editorLines(markup); ok {
		return code
	}
	nodes, err := parseFragment(markup)
	if err != nil {
		return markup
	}
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(textContent(n))
	}
	return sb.String()
}

func parseFragment(markup string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
}

// editorLines reports ok=false when markup holds no view-line element.
func editorLines(markup string) (string, bool) {
	if !strings.Contains(markup, "view-line") {
		return "", false
	}

	nodes, err := parseFragment(markup)
	if err != nil {
		return "", false
	}

	var lines []editorLine
	positioned := true
	for _, n := range nodes {
		walk(n, func(n *html.Node) bool {
			if n.Type != html.ElementNode || !hasClass(n, "view-line") {
				return true
			}
			line := editorLine{text: textContent(n)}
			if m := topPx.FindStringSubmatch(attr(n, "style")); m != nil {
				line.top, _ = strconv.ParseFloat(m[1], 64)
			} else {
				positioned = false
			}
			lines = append(lines, line)
			return false
		})
	}

	if len(lines) == 0 {
		return "", false
	}

	if positioned {
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].top < lines[j].top })
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l.text, " ")
	}
	return strings.Join(out, "\n"), true
}

// hasTag reports whether doc opens one of the given elements.
func hasTag(doc string, tags ...atom.Atom) bool {
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			for _, t := range tags {
				if a == t {
					return true
				}
			}
		}
	}
}

// walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return false
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	// Editors render indentation with non-breaking spaces.
	return strings.ReplaceAll(sb.String(), "\u00a0", " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
