package tui

import (
	"sort"
	"strings"

	"github.com/jask/notefeed/internal/content"
)

type pickerItem struct {
	Tag     content.Tag
	Label   string
	Section string
	Meta    string
	Search  string
}

type pickerAction int

const (
	pickerActionNone pickerAction = iota
	pickerActionMoved
	pickerActionSelected
	pickerActionCancelled
)

type pickerResult struct {
	Action pickerAction
	Item   pickerItem
}

// typePicker is the add-content menu: a fuzzy filter over registered content
// types, grouped by category in registration order.
type typePicker struct {
	items    []pickerItem
	filtered []pickerItem
	query    string
	cursor   int
}

func newTypePicker(reg *content.Registry) *typePicker {
	var items []pickerItem
	for _, d := range reg.Descriptors() {
		section := d.Category
		if section == "" {
			section = "Other"
		}
		items = append(items, pickerItem{
			Tag:     d.Tag,
			Label:   d.Name,
			Section: section,
			Meta:    d.Description,
			Search:  d.Name + " " + string(d.Tag),
		})
	}
	p := &typePicker{}
	p.setItems(items)
	return p
}

func (p *typePicker) Query() string { return p.query }

func (p *typePicker) Items() []pickerItem {
	return append([]pickerItem(nil), p.filtered...)
}

func (p *typePicker) setItems(items []pickerItem) {
	p.items = append([]pickerItem(nil), items...)
	p.rebuildFiltered()
}

func (p *typePicker) SetQuery(q string) {
	p.query = q
	p.rebuildFiltered()
}

func (p *typePicker) CurrentItem() (pickerItem, bool) {
	if len(p.filtered) == 0 {
		return pickerItem{}, false
	}
	idx := min(max(p.cursor, 0), len(p.filtered)-1)
	return p.filtered[idx], true
}

// HandleKey treats printable keys as filter input, so only arrows move.
func (p *typePicker) HandleKey(keyName string) pickerResult {
	switch keyName {
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
			return pickerResult{Action: pickerActionMoved}
		}
	case "down", "ctrl+n", "tab":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
			return pickerResult{Action: pickerActionMoved}
		}
	case "enter":
		if item, ok := p.CurrentItem(); ok {
			return pickerResult{Action: pickerActionSelected, Item: item}
		}
	case "esc":
		return pickerResult{Action: pickerActionCancelled}
	case "backspace":
		if len(p.query) > 0 {
			p.SetQuery(p.query[:len(p.query)-1])
		}
	default:
		if isPrintableASCIIKey(keyName) {
			p.SetQuery(p.query + keyName)
		}
	}
	return pickerResult{Action: pickerActionNone}
}

func (p *typePicker) sectionOrder() []string {
	seen := make(map[string]bool, len(p.items))
	out := make([]string, 0, len(p.items))
	for _, item := range p.items {
		if seen[item.Section] {
			continue
		}
		seen[item.Section] = true
		out = append(out, item.Section)
	}
	return out
}

type scoredPickerItem struct {
	item  pickerItem
	score int
	index int
}

func (p *typePicker) rebuildFiltered() {
	q := strings.TrimSpace(p.query)
	bySection := make(map[string][]scoredPickerItem)
	for idx, item := range p.items {
		search := strings.TrimSpace(item.Search)
		if search == "" {
			search = item.Label
		}
		matched, score := fuzzyMatchScore(search, q)
		if !matched {
			continue
		}
		bySection[item.Section] = append(bySection[item.Section], scoredPickerItem{item: item, score: score, index: idx})
	}

	out := make([]pickerItem, 0, len(p.items))
	for _, section := range p.sectionOrder() {
		scored := bySection[section]
		sort.Slice(scored, func(i, j int) bool {
			if scored[i].score != scored[j].score {
				return scored[i].score > scored[j].score
			}
			return scored[i].index < scored[j].index
		})
		for _, row := range scored {
			out = append(out, row.item)
		}
	}
	p.filtered = out

	if p.cursor > len(p.filtered)-1 {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// fuzzyMatchScore matches query as an in-order subsequence of label. Prefix
// and contiguous runs score higher.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		j := strings.IndexByte(labelLower[searchFrom:], queryLower[i])
		if j < 0 {
			return false, 0
		}
		matchIdx = append(matchIdx, searchFrom+j)
		searchFrom += j + 1
	}

	score := len(queryLower)
	if matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}
