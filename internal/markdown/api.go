package markdown

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

var (
	apiOpenRe  = regexp.MustCompile(`^\s*<api\s+name="([^"]*)"\s*>\s*$`)
	apiCloseRe = regexp.MustCompile(`^\s*</api>\s*$`)
)

// block is either a run of plain Markdown or an <api> section.
type block struct {
	text []byte
	api  *apiSection
}

type apiSection struct {
	name    string
	kind    string
	params  []string
	returns string
	body    []block
}

// displayName decorates callables with their parameter names.
func (a *apiSection) displayName() string {
	switch a.kind {
	case "method", "function", "constructor":
		names := make([]string, 0, len(a.params))
		for _, p := range a.params {
			if f := strings.Fields(p); len(f) > 0 {
				names = append(names, strings.Trim(f[0], "[]"))
			}
		}
		return a.name + "(" + strings.Join(names, ", ") + ")"
	default:
		return a.name
	}
}

// parseAPIDoc splits module documentation into Markdown runs and nested
// <api name="..."> sections. Inside a section, @-tags are lifted out:
// the first tag names the section kind, @param/@prop lines become the
// parameter list and @returns the return description. Indented lines right
// after a tag continue it. Sections left open at the end of input are closed.
func parseAPIDoc(src []byte) []block {
	type frame struct {
		sec     *apiSection
		pending bytes.Buffer
		// last points at the tag a continuation line extends.
		last *string
	}
	root := &frame{sec: &apiSection{}}
	stack := []*frame{root}

	flush := func(f *frame) {
		if f.pending.Len() == 0 {
			return
		}
		text := make([]byte, f.pending.Len())
		copy(text, f.pending.Bytes())
		f.sec.body = append(f.sec.body, block{text: text})
		f.pending.Reset()
	}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		top := stack[len(stack)-1]

		if m := apiOpenRe.FindStringSubmatch(line); m != nil {
			flush(top)
			top.last = nil
			stack = append(stack, &frame{sec: &apiSection{name: m[1]}})
			continue
		}
		if apiCloseRe.MatchString(line) && len(stack) > 1 {
			flush(top)
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.sec.body = append(parent.sec.body, block{api: top.sec})
			continue
		}

		if len(stack) > 1 {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "@") {
				tag, rest, _ := strings.Cut(trimmed[1:], " ")
				rest = strings.TrimSpace(rest)
				switch tag {
				case "param", "argument", "prop":
					top.sec.params = append(top.sec.params, rest)
					top.last = &top.sec.params[len(top.sec.params)-1]
				case "returns", "return":
					top.sec.returns = rest
					top.last = &top.sec.returns
				default:
					if top.sec.kind == "" {
						top.sec.kind = tag
					}
					top.last = nil
				}
				continue
			}
			if top.last != nil && trimmed != "" && line != trimmed {
				*top.last = strings.TrimSpace(*top.last + " " + trimmed)
				continue
			}
			top.last = nil
		}

		top.pending.WriteString(line)
		top.pending.WriteByte('\n')
	}

	// Close anything left open.
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		flush(top)
		stack = stack[:len(stack)-1]
		parent := stack[len(stack)-1]
		parent.sec.body = append(parent.sec.body, block{api: top.sec})
	}
	flush(root)
	return root.sec.body
}
