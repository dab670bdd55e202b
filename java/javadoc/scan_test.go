package javadoc

import (
	"reflect"
	"testing"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Node
	}{
		{"text", "Simple text.", []Node{Text("Simple text.")}},
		{
			"code with braces",
			"Use {@code class Foo { int x; }} here.",
			[]Node{Text("Use "), Code("class Foo { int x; }"), Text(" here.")},
		},
		{
			"link with label",
			"See {@link java.util.List the List}.",
			[]Node{Text("See "), Link{Tag: "link", Ref: "java.util.List", Label: []Node{Text("the List")}}, Text(".")},
		},
		{
			"link with parameter list",
			"{@linkplain Shape#scale(int, double)}",
			[]Node{Link{Tag: "linkplain", Ref: "Shape#scale(int, double)"}},
		},
		{"value", "{@value #MAX}", []Node{Link{Tag: "value", Ref: "#MAX"}}},
		{"inherit", "{@inheritDoc}", []Node{InheritDoc{}}},
		{
			"summary",
			"{@summary Short {@code x}.} Rest",
			[]Node{Summary{Text("Short "), Code("x"), Text(".")}, Text(" Rest")},
		},
		{"unknown tag", "{@index word}", []Node{InlineTag{Name: "index", Content: "word"}}},
		{"not a tag", "{@ x}", []Node{Text("{@"), Text(" x}")}},
		{
			"html",
			`a<p>b</P><a href="x>y">c`,
			[]Node{Text("a"), Element{Name: "p"}, Text("b"), Element{Name: "p", Closing: true}, Element{Name: "a"}, Text("c")},
		},
		{"less than", "a < b", []Node{Text("a < b")}},
		{"entities", "a &lt; b &amp c", []Node{Text("a "), Entity("lt"), Text(" b &amp c")}},
		{"numeric entity", "&#160;", []Node{Entity("#160")}},
		{"block tag line", "first\n@notATag here", []Node{Text("first\n@notATag here")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseText(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseText(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderEntitiesAndCodeBlocks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a&nbsp;b &mdash; c &bogus;", "a b — c &bogus;"},
		{"<pre>{@code\nint x;\nint y;\n}</pre>", "```java\nint x;\nint y;\n```"},
		{"<ul><li>one<li>two</ul>", "- one\n- two"},
		{"<b>bold</b> and <i>it</i>", "**bold** and _it_"},
	}
	for _, tt := range tests {
		if got := Markdown(tt.in, nil); got != tt.want {
			t.Errorf("Markdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := PlainText("<b>x</b> {@code y} {@link Foo#bar(int)}"); got != "x y bar" {
		t.Errorf("PlainText() = %q, want %q", got, "x y bar")
	}
}

func TestShortReference(t *testing.T) {
	tests := map[string]string{
		"java.util.List#add(E)": "add",
		"#size":                 "size",
		"java.util.List":        "List",
		"List":                  "List",
	}
	for in, want := range tests {
		if got := ShortReference(in); got != want {
			t.Errorf("ShortReference(%q) = %q, want %q", in, got, want)
		}
	}
}
