package layout

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/panelmap/pkg/diagram"
)

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), diagram.LeftToRight, DefaultOptions())

	for _, want := range []string{
		"rankdir=LR;",
		"ranksep=4.1667;",
		"nodesep=2.0833;",
		"n0 [width=3.0556, height=1.2222];",
		"n0 -> n1;",
		"n0 -> n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestParsePlain(t *testing.T) {
	out := []byte(`graph 1 10 5
node n0 2 3 3.0556 1.2222 "" solid box black lightgrey
node n1 7.5 1 2.7778 1.2222 "" solid box black lightgrey
edge n0 n1 2 2 3 7.5 1 solid black
stop
`)
	got, err := parsePlain(out)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]diagram.Point{
		"n0": {X: 144, Y: 144},
		"n1": {X: 540, Y: 288},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parsePlain = %v, want %v", got, want)
	}
}

func TestParsePlainErrors(t *testing.T) {
	for _, in := range []string{
		"node n0 1 1 1 1\n",
		"graph 1 10 y\n",
		"graph 1 10 5\nnode n0 a b\n",
	} {
		if _, err := parsePlain([]byte(in)); err == nil {
			t.Errorf("parsePlain(%q) succeeded", in)
		}
	}
}

func TestSplitPlain(t *testing.T) {
	got := splitPlain(`node "a b" 1 "say \"hi\"" ""`)
	want := []string{"node", "a b", "1", `say "hi"`, ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitPlain = %q, want %q", got, want)
	}
}
