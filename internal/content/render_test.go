package content

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderBuiltins(t *testing.T) {
	d := NewDispatcher(NewDefaultRegistry())
	cases := []struct {
		name string
		b    Block
		want View
	}{
		{
			name: "pdf",
			b:    Block{ID: 1, Tag: TagPDF, Payload: Payload{"name": "notes.pdf", "pages": "1-3"}},
			want: View{Kind: ViewDocument, Tag: TagPDF, BlockID: 1, Title: "PDF: notes.pdf", Fields: []ViewField{{"File", "notes.pdf"}, {"Pages", "1-3"}}},
		},
		{
			name: "code",
			b:    Block{ID: 2, Tag: TagCode, Payload: Payload{"code": "def f(): pass", "language": "python", "title": "Functions"}},
			want: View{Kind: ViewCode, Tag: TagCode, BlockID: 2, Title: "Functions", Body: "def f(): pass", Language: "python"},
		},
		{
			name: "link",
			b:    Block{ID: 3, Tag: TagLink, Payload: Payload{"url": "https://go.dev", "title": "Go"}},
			want: View{Kind: ViewLink, Tag: TagLink, BlockID: 3, Title: "Link: Go", URL: "https://go.dev"},
		},
		{
			name: "image search",
			b:    Block{ID: 4, Tag: TagImageSearch, Payload: Payload{"url": "https://img/a.jpg", "query": "atom", "source": "Google Images"}},
			want: View{Kind: ViewImage, Tag: TagImageSearch, BlockID: 4, Title: "Image: Google Images", URL: "https://img/a.jpg", Captions: []string{"Search: atom"}},
		},
		{
			name: "uploaded image falls back to preview",
			b:    Block{ID: 5, Tag: TagImageUpload, Payload: Payload{"name": "x.png", "preview": "/tmp/x.png"}},
			want: View{Kind: ViewImage, Tag: TagImageUpload, BlockID: 5, Title: "Image: Uploaded", URL: "/tmp/x.png"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, d.Render(tc.b)); diff != "" {
				t.Fatalf("render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderWidgets(t *testing.T) {
	d := NewDispatcher(NewDefaultRegistry())
	calc := d.Render(Block{Tag: TagCalculator})
	if len(calc.Grid) != 4 || strings.Join(calc.Grid[3], "") != "0.=+" {
		t.Fatalf("calculator grid = %v", calc.Grid)
	}
	cal := d.Render(Block{Tag: TagCalendar})
	if len(cal.Grid) != 6 || cal.Grid[0][0] != "Sun" {
		t.Fatalf("calendar header = %v", cal.Grid)
	}
	if cal.Grid[5][2] != "31" || cal.Grid[5][3] != "" {
		t.Fatalf("calendar last week = %v", cal.Grid[5])
	}
}

func TestRenderUnknownTagIsGeneric(t *testing.T) {
	d := NewDispatcher(NewDefaultRegistry())
	v := d.Render(Block{ID: 9, Tag: "hologram", Payload: Payload{"depth": 3}})
	if v.Kind != ViewGeneric || v.Title != "hologram Content" {
		t.Fatalf("view = %+v", v)
	}
	if !strings.Contains(v.Body, `"depth": 3`) {
		t.Fatalf("body = %q", v.Body)
	}
}

func TestRenderIsTotal(t *testing.T) {
	r := NewDefaultRegistry()
	build := func(Values, *Artifact) Payload { return Payload{} }
	_ = r.Register(Descriptor{Tag: "panics", Capture: CaptureSpec{Build: build}, Render: func(Block) View { panic("boom") }})
	_ = r.Register(Descriptor{Tag: "bare", Capture: CaptureSpec{Build: build}})
	d := NewDispatcher(r)

	blocks := []Block{
		{Tag: "panics"},
		{Tag: "bare", Payload: Payload{"a": "b"}},
		{Tag: "", Payload: nil},
		{Tag: TagPDF, Payload: nil},
		{Tag: TagCode, Payload: Payload{"code": 42}},
		{Tag: "weird", Payload: Payload{"ch": make(chan int)}},
	}
	for _, tag := range r.Tags() {
		blocks = append(blocks, Block{Tag: tag})
	}
	for _, b := range blocks {
		v := d.Render(b)
		if v.Kind == "" || v.Tag != b.Tag {
			t.Fatalf("render(%q) = %+v", b.Tag, v)
		}
	}
	if v := d.Render(Block{Tag: "panics"}); v.Kind != ViewGeneric {
		t.Fatalf("panicking renderer should fall back, got %s", v.Kind)
	}
	if v := d.Render(Block{Tag: "weird", Payload: Payload{"ch": make(chan int)}}); !strings.Contains(v.Body, "ch: <chan int>") {
		t.Fatalf("unencodable payload body = %q", v.Body)
	}
	var nilDispatcher *Dispatcher
	if v := nilDispatcher.Render(Block{Tag: TagPDF}); v.Kind != ViewGeneric {
		t.Fatalf("nil dispatcher should render generic")
	}
}
