package testutil

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
)

// NewTestRegistry returns a registry with the two test item types "a" and
// "b". Both render as <span class="TYPE">TYPE/PAYLOAD</span>.
func NewTestRegistry(t *testing.T) *itemtype.Registry {
	t.Helper()
	r := itemtype.NewRegistry()
	for _, id := range []string{"a", "b"} {
		if err := r.Register(itemtype.FuncType{TypeID: id, Fn: renderTestItem}); err != nil {
			t.Fatalf("registering test type %q: %v", id, err)
		}
	}
	return r
}

func renderTestItem(_ context.Context, item *domain.Node) (string, error) {
	return fmt.Sprintf(`<span class="%s">%s/%d</span>`, item.ItemType, item.ItemType, item.PayloadID), nil
}

// Int64 returns a pointer to v, for nullable layout attributes.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// BuildComplexLayout fills the layout's empty root with
//
//	C1(C11[a1,b4], C12[C2(C21[a2,a5], C22[b3])])
//	C3(C31[a6,a9], C32[b7,b10], C33[b8,b11,a1-copy])
//	a12, b7-copy
//
// b8 carries foo=bar and C31 carries a=12, b=test.
func BuildComplexLayout(t *testing.T, types *itemtype.Registry, l *domain.Layout) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("building complex layout: %v", err)
		}
	}
	column := func(h *domain.Node, id string) *domain.Node {
		t.Helper()
		c, err := h.AppendColumn(id)
		must(err)
		return c
	}
	a := func(payload int64) *domain.Node { return types.Create("a", payload, nil) }
	b := func(payload int64) *domain.Node { return types.Create("b", payload, nil) }

	top := l.TopLevel()
	c1 := domain.NewHorizontal("C1")
	must(top.Append(c1))
	c11 := column(c1, "C11")
	c12 := column(c1, "C12")
	c2 := domain.NewHorizontal("C2")
	must(c12.Append(c2))
	c21 := column(c2, "C21")
	c22 := column(c2, "C22")
	c3 := domain.NewHorizontal("C3")
	must(top.Append(c3))
	c31 := column(c3, "C31")
	c32 := column(c3, "C32")
	c33 := column(c3, "C33")

	a1 := a(1)
	b7 := b(7)
	b8 := b(8)
	b8.Options = domain.Options{"foo": "bar"}
	c31.Options = domain.Options{"a": 12, "b": "test"}

	must(c11.Append(a1))
	must(c11.Append(b(4)))
	must(c21.Append(a(2)))
	must(c21.Append(a(5)))
	must(c22.Append(b(3)))
	must(c31.Append(a(6)))
	must(c31.Append(a(9)))
	must(c32.Append(b7))
	must(c32.Append(b(10)))
	must(c33.Append(b8))
	must(c33.Append(b(11)))
	must(c33.Append(a1.Clone()))
	must(top.Append(a(12)))
	must(top.Append(b7.Clone()))
}

// ComplexLayoutOutline is the outline markup of BuildComplexLayout for the
// layout with the given id.
func ComplexLayoutOutline(layoutID int64) string {
	return fmt.Sprintf(`
<vertical id="container:vbox/%d">
    <horizontal id="container:hbox/C1">
        <column id="container:vbox/C11">
            <item id="leaf:a/1"/>
            <item id="leaf:b/4"/>
        </column>
        <column id="container:vbox/C12">
            <horizontal id="container:hbox/C2">
                <column id="container:vbox/C21">
                    <item id="leaf:a/2" />
                    <item id="leaf:a/5" />
                </column>
                <column id="container:vbox/C22">
                    <item id="leaf:b/3" />
                </column>
            </horizontal>
        </column>
    </horizontal>
    <horizontal id="container:hbox/C3">
        <column id="container:vbox/C31">
            <item id="leaf:a/6" />
            <item id="leaf:a/9" />
        </column>
        <column id="container:vbox/C32">
            <item id="leaf:b/7" />
            <item id="leaf:b/10" />
        </column>
        <column id="container:vbox/C33">
            <item id="leaf:b/8" />
            <item id="leaf:b/11" />
            <item id="leaf:a/1" />
        </column>
    </horizontal>
    <item id="leaf:a/12" />
    <item id="leaf:b/7" />
</vertical>`, layoutID)
}

// TrimmedLayoutOutline is ComplexLayoutOutline after removing C3, a1, C22
// and a12.
func TrimmedLayoutOutline(layoutID int64) string {
	return fmt.Sprintf(`
<vertical id="container:vbox/%d">
    <horizontal id="container:hbox/C1">
        <column id="container:vbox/C11">
            <item id="leaf:b/4"/>
        </column>
        <column id="container:vbox/C12">
            <horizontal id="container:hbox/C2">
                <column id="container:vbox/C21">
                    <item id="leaf:a/2" />
                    <item id="leaf:a/5" />
                </column>
            </horizontal>
        </column>
    </horizontal>
    <item id="leaf:b/7" />
</vertical>`, layoutID)
}

var (
	betweenTags = regexp.MustCompile(`>\s+<`)
	selfClosing = regexp.MustCompile(`\s+/>`)
)

// NormalizeOutline drops insignificant whitespace so two outlines compare
// equal when they describe the same tree.
func NormalizeOutline(s string) string {
	s = strings.TrimSpace(s)
	s = betweenTags.ReplaceAllString(s, "><")
	return selfClosing.ReplaceAllString(s, "/>")
}
