package layout

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/panelmap/pkg/diagram"
)

// pointsPerInch converts between Graphviz inches and diagram pixels.
const pointsPerInch = 72.0

// ToDOT converts a diagram to Graphviz DOT. Nodes are named n0..nN by
// their index so arbitrary ids never need quoting; boxes are fixed to the
// estimated sizes and left unlabeled.
func ToDOT(d diagram.Diagram, dir diagram.Direction, opts Options) string {
	opts = opts.withDefaults()
	idx := d.Index()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeSep))
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for i, n := range d.Nodes {
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i, inches(n.Width), inches(n.Height))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", idx[e.Source], idx[e.Target])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

// parsePlain reads node centers from Graphviz "plain" output and converts
// them to diagram pixels with y growing downwards. Keys are the synthetic
// node names used by ToDOT.
func parsePlain(out []byte) (map[string]diagram.Point, error) {
	var (
		height  float64
		scale   = 1.0
		sawHead bool
		centers = make(map[string]diagram.Point)
	)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := splitPlain(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			s, err1 := strconv.ParseFloat(fields[1], 64)
			h, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			scale, height, sawHead = s, h, true
		case "node":
			if !sawHead {
				return nil, fmt.Errorf("node before graph line")
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			x, err1 := strconv.ParseFloat(fields[2], 64)
			y, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			centers[fields[1]] = diagram.Point{
				X: x * scale * pointsPerInch,
				Y: (height - y) * scale * pointsPerInch,
			}
		case "stop":
			return centers, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return centers, nil
}

// splitPlain splits a plain-format line on spaces, keeping double-quoted
// fields (with backslash escapes) together and unquoted.
func splitPlain(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}
