package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	TagPDF          Tag = "pdf"
	TagDoc          Tag = "doc"
	TagImageUpload  Tag = "image-upload"
	TagImageSearch  Tag = "image-search"
	TagImageAI      Tag = "image-ai"
	TagScreenshot   Tag = "screenshot"
	TagVideoYouTube Tag = "video-youtube"
	TagVideoUpload  Tag = "video-upload"
	TagAudio        Tag = "audio"
	TagCode         Tag = "code"
	TagCalculator   Tag = "calculator"
	TagCalendar     Tag = "calendar"
	TagLink         Tag = "link"
	TagWebsite      Tag = "website"
)

const (
	CategoryDocuments   = "Documents"
	CategoryImages      = "Images"
	CategoryMedia       = "Media"
	CategoryInteractive = "Interactive"
	CategoryLinks       = "Links & References"
)

var (
	ImageStyles   = []string{"diagram", "illustration", "infographic", "flowchart"}
	CodeLanguages = []string{"python", "javascript", "typescript", "go", "java", "cpp", "html", "css", "sql"}
)

// Builtins returns the built-in content types in menu order.
func Builtins() []Descriptor {
	return []Descriptor{
		{
			Tag:         TagPDF,
			Name:        "PDF Pages",
			Description: "Import specific pages from PDFs",
			Category:    CategoryDocuments,
			Fields: []Field{
				{Name: "file", Label: "PDF file", Kind: FieldFile, Required: true},
				{Name: "pages", Label: "Pages (e.g. 1-3, 5)", Kind: FieldText},
			},
			Capture: CaptureSpec{Build: func(v Values, _ *Artifact) Payload {
				f, _ := v.File("file")
				return Payload{"file": f, "name": f.Name, "pages": orDefault(v.Text("pages"), "all")}
			}},
			Render: renderPDF,
		},
		{
			Tag:         TagDoc,
			Name:        "Document",
			Description: "Add Word docs, text files",
			Category:    CategoryDocuments,
			Fields: []Field{
				{Name: "file", Label: "Document", Kind: FieldFile, Required: true},
			},
			Capture: CaptureSpec{Build: func(v Values, _ *Artifact) Payload {
				f, _ := v.File("file")
				return Payload{"file": f, "name": f.Name, "type": f.MIME}
			}},
			Render: renderDoc,
		},
		{
			Tag:         TagImageUpload,
			Name:        "Upload Image",
			Description: "Add your own images",
			Category:    CategoryImages,
			Fields: []Field{
				{Name: "file", Label: "Image file", Kind: FieldFile, Required: true},
			},
			Capture: CaptureSpec{Build: func(v Values, _ *Artifact) Payload {
				f, _ := v.File("file")
				return Payload{"file": f, "name": f.Name, "preview": f.Path}
			}},
			Render: renderImage,
		},
		{
			Tag:         TagImageSearch,
			Name:        "Google Images",
			Description: "Search and add images",
			Category:    CategoryImages,
			Fields: []Field{
				{Name: "query", Label: "Search for", Kind: FieldText, Required: true},
				{Name: "url", Label: "Chosen result", Kind: FieldURL},
			},
			Capture: CaptureSpec{
				Generation: GenerateImageSearch,
				Inputs:     []string{"query"},
				// A chosen url only counts when it is one of the search results.
				Build: func(v Values, art *Artifact) Payload {
					url := art.URL
					if chosen := v.Text("url"); chosen != "" && art.has(chosen) {
						url = chosen
					}
					return Payload{"url": url, "query": strings.TrimSpace(v.Text("query")), "source": "Google Images"}
				},
			},
			Render: renderImage,
		},
		{
			Tag:         TagImageAI,
			Name:        "AI Generated",
			Description: "Create custom visuals",
			Category:    CategoryImages,
			Fields: []Field{
				{Name: "prompt", Label: "Describe the image", Kind: FieldText, Required: true},
				{Name: "style", Label: "Style", Kind: FieldChoice, Required: true, Default: "diagram", Choices: ImageStyles},
			},
			Capture: CaptureSpec{
				Generation: GenerateImage,
				Inputs:     []string{"prompt", "style"},
				Build: func(v Values, art *Artifact) Payload {
					return Payload{"url": art.URL, "prompt": strings.TrimSpace(v.Text("prompt")), "style": v.Text("style"), "source": "AI Generated"}
				},
			},
			Render: renderImage,
		},
		{
			Tag:         TagScreenshot,
			Name:        "Screenshot",
			Description: "Capture screen content",
			Category:    CategoryImages,
			Capture: CaptureSpec{
				Generation: GenerateScreenshot,
				Build: func(_ Values, art *Artifact) Payload {
					return Payload{"url": art.URL, "source": "Screenshot", "timestamp": art.At.UTC().Format(time.RFC3339)}
				},
			},
			Render: renderImage,
		},
		{
			Tag:         TagVideoYouTube,
			Name:        "YouTube Video",
			Description: "Embed educational videos",
			Category:    CategoryMedia,
			Fields: []Field{
				{Name: "url", Label: "YouTube URL", Kind: FieldURL, Required: true},
			},
			Capture: CaptureSpec{Build: func(v Values, _ *Artifact) Payload {
				return Payload{"url": strings.TrimSpace(v.Text("url")), "source": "YouTube", "title": "YouTube Video"}
			}},
			Render: renderVideo,
		},
		{
			Tag:         TagVideoUpload,
			Name:        "Upload Video",
			Description: "Add your own videos",
			Category:    CategoryMedia,
			Fields: []Field{
				{Name: "file", Label: "Video file", Kind: FieldFile, Required: true},
			},
			Capture: CaptureSpec{Build: func(v Values, _ *Artifact) Payload {
				f, _ := v.File("file")
				return Payload{"file": f, "name": f.Name, "source": "Upload"}
			}},
			Render: renderVideo,
		},
		{
			Tag:         TagAudio,
			Name:        "Audio Recording",
			Description: "Record or upload audio",
			Category:    CategoryMedia,
			Fields: []Field{
				{Name: "file", Label: "Audio file", Kind: FieldFile, Required: true},
				{Name: "duration", Label: "Duration (seconds)", Kind: FieldNumber},
			},
			Capture: CaptureSpec{Build: func(v Values, _ *Artifact) Payload {
				f, _ := v.File("file")
				secs, _ := v.Number("duration")
				return Payload{"file": f, "name": f.Name, "duration": secs, "source": "Recording"}
			}},
			Render: renderAudio,
		},
		{
			Tag:         TagCode,
			Name:        "Code Editor",
			Description: "Add executable code blocks",
			Category:    CategoryInteractive,
			Fields: []Field{
				{Name: "code", Label: "Code", Kind: FieldText, Required: true, Multiline: true},
				{Name: "language", Label: "Language", Kind: FieldChoice, Required: true, Default: "python", Choices: CodeLanguages},
				{Name: "title", Label: "Title", Kind: FieldText},
			},
			Capture: CaptureSpec{Build: func(v Values, _ *Artifact) Payload {
				lang := v.Text("language")
				return Payload{
					"code":     v.Text("code"),
					"language": lang,
					"title":    orDefault(v.Text("title"), lang+" code"),
					"source":   "Code Editor",
				}
			}},
			Render: renderCode,
		},
		{
			Tag:         TagCalculator,
			Name:        "Calculator",
			Description: "Interactive math tool",
			Category:    CategoryInteractive,
			Capture: CaptureSpec{Build: func(Values, *Artifact) Payload {
				return Payload{"type": "calculator", "title": "Interactive Calculator", "source": "Calculator Widget"}
			}},
			Render: renderCalculator,
		},
		{
			Tag:         TagCalendar,
			Name:        "Calendar",
			Description: "Schedule and deadlines",
			Category:    CategoryInteractive,
			Capture: CaptureSpec{Build: func(Values, *Artifact) Payload {
				return Payload{"type": "calendar", "title": "Study Calendar", "source": "Calendar Widget"}
			}},
			Render: renderCalendar,
		},
		{
			Tag:         TagLink,
			Name:        "Web Link",
			Description: "Add external resources",
			Category:    CategoryLinks,
			Fields: []Field{
				{Name: "url", Label: "URL", Kind: FieldURL, Required: true},
				{Name: "title", Label: "Title", Kind: FieldText},
			},
			Capture: CaptureSpec{Build: linkBuild("Web Link")},
			Render:  renderLink("Link"),
		},
		{
			Tag:         TagWebsite,
			Name:        "Website Embed",
			Description: "Embed interactive sites",
			Category:    CategoryLinks,
			Fields: []Field{
				{Name: "url", Label: "URL", Kind: FieldURL, Required: true},
				{Name: "title", Label: "Title", Kind: FieldText},
			},
			Capture: CaptureSpec{Build: linkBuild("Website Embed")},
			Render:  renderLink("Website"),
		},
	}
}

func linkBuild(source string) BuildFunc {
	return func(v Values, _ *Artifact) Payload {
		url := strings.TrimSpace(v.Text("url"))
		return Payload{"url": url, "title": orDefault(v.Text("title"), url), "source": source}
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func renderPDF(b Block) View {
	return View{
		Kind:  ViewDocument,
		Title: "PDF: " + b.Payload.String("name"),
		Fields: []ViewField{
			{Label: "File", Value: b.Payload.String("name")},
			{Label: "Pages", Value: b.Payload.String("pages")},
		},
	}
}

func renderDoc(b Block) View {
	v := View{
		Kind:   ViewDocument,
		Title:  "Document: " + b.Payload.String("name"),
		Fields: []ViewField{{Label: "File", Value: b.Payload.String("name")}},
	}
	if t := b.Payload.String("type"); t != "" {
		v.Fields = append(v.Fields, ViewField{Label: "Type", Value: t})
	}
	return v
}

func renderImage(b Block) View {
	p := b.Payload
	v := View{
		Kind:  ViewImage,
		Title: "Image: " + orDefault(p.String("source"), "Uploaded"),
		URL:   orDefault(p.String("url"), p.String("preview")),
	}
	if q := p.String("query"); q != "" {
		v.Captions = append(v.Captions, "Search: "+q)
	}
	if pr := p.String("prompt"); pr != "" {
		v.Captions = append(v.Captions, "Prompt: "+pr)
	}
	if st := p.String("style"); st != "" {
		v.Captions = append(v.Captions, "Style: "+st)
	}
	return v
}

func renderVideo(b Block) View {
	p := b.Payload
	if url := p.String("url"); url != "" {
		return View{
			Kind:   ViewVideo,
			Title:  orDefault(p.String("title"), "Video"),
			URL:    url,
			Fields: []ViewField{{Label: "URL", Value: url}},
		}
	}
	return View{
		Kind:   ViewVideo,
		Title:  "Video: " + p.String("name"),
		Fields: []ViewField{{Label: "File", Value: p.String("name")}},
	}
}

func renderAudio(b Block) View {
	v := View{
		Kind:   ViewAudio,
		Title:  "Audio: " + b.Payload.String("name"),
		Fields: []ViewField{{Label: "File", Value: b.Payload.String("name")}},
	}
	if secs, ok := b.Payload["duration"].(float64); ok && secs > 0 {
		v.Fields = append(v.Fields, ViewField{Label: "Duration", Value: formatSeconds(secs)})
	}
	return v
}

func formatSeconds(secs float64) string {
	d := time.Duration(secs * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func renderCode(b Block) View {
	return View{
		Kind:     ViewCode,
		Title:    orDefault(b.Payload.String("title"), "Code"),
		Body:     b.Payload.String("code"),
		Language: b.Payload.String("language"),
	}
}

func renderLink(prefix string) RenderFunc {
	return func(b Block) View {
		url := b.Payload.String("url")
		return View{
			Kind:  ViewLink,
			Title: prefix + ": " + orDefault(b.Payload.String("title"), url),
			URL:   url,
		}
	}
}

var calculatorKeys = [][]string{
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", "=", "+"},
}

func renderCalculator(Block) View {
	grid := make([][]string, len(calculatorKeys))
	for i, row := range calculatorKeys {
		grid[i] = append([]string(nil), row...)
	}
	return View{Kind: ViewWidget, Title: "Interactive Calculator", Grid: grid}
}

// renderCalendar lays out a 5-week grid: days 1..31 followed by blanks.
func renderCalendar(Block) View {
	grid := [][]string{{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}}
	for week := 0; week < 5; week++ {
		row := make([]string, 7)
		for d := 0; d < 7; d++ {
			if n := week*7 + d; n < 31 {
				row[d] = strconv.Itoa(n + 1)
			}
		}
		grid = append(grid, row)
	}
	return View{Kind: ViewWidget, Title: "Study Calendar", Grid: grid}
}
