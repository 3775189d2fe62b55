package huggingface

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// ModelRecord is one hub listing entry. Fields keep their raw JSON so that
// absent, null and empty values render differently.
type ModelRecord struct {
	ID          json.RawMessage `json:"id"`
	Description json.RawMessage `json:"description"`
}

// ModelList renders hub listings as a titled Markdown bullet list.
type ModelList struct {
	Title   string
	Records []ModelRecord
}

func (ModelList) shape() {}

func (l ModelList) Render() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(l.Title)
	b.WriteString("\n\n")
	for _, r := range l.Records {
		fmt.Fprintf(&b, "- **%s**: %s\n", displayValue(r.ID, ""), previewDescription(r.Description))
	}
	return b.String()
}

// previewDescription truncates to the first hundred characters and appends "...".
// A missing description renders as "No description..."; an empty one renders as nothing.
func previewDescription(raw json.RawMessage) string {
	desc := displayValue(raw, "No description")
	if desc == "" {
		return ""
	}
	return truncateRunes(desc, DescriptionPreviewCharCount) + "..."
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// DecodeModelList reads a JSON array of hub model records.
func DecodeModelList(title string, body []byte) Shape {
	var records []ModelRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return Opaque{Raw: body}
	}
	return ModelList{Title: title, Records: records}
}

// ModelInfo is a hub model record rendered as a detailed Markdown document.
type ModelInfo struct {
	ID        string
	Author    string
	Downloads string
	Likes     string
	Tags      []string
	HasCard   bool
	CardText  string
}

func (ModelInfo) shape() {}

func (m ModelInfo) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.ID)
	fmt.Fprintf(&b, "**Author:** %s\n", m.Author)
	fmt.Fprintf(&b, "**Downloads:** %s\n", m.Downloads)
	fmt.Fprintf(&b, "**Likes:** %s\n\n", m.Likes)
	if m.HasCard {
		fmt.Fprintf(&b, "**Model Card:**\n%s\n\n", m.CardText)
	}
	fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(m.Tags, ", "))
	return b.String()
}

// DecodeModelInfo reads a single hub model record.
func DecodeModelInfo(body []byte) Shape {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return Opaque{Raw: body}
	}
	id, ok := obj["id"]
	if !ok {
		return Opaque{Raw: body}
	}

	info := ModelInfo{
		ID:        displayValue(id, ""),
		Author:    displayValue(obj["author"], "Unknown"),
		Downloads: displayValue(obj["downloads"], "Unknown"),
		Likes:     displayValue(obj["likes"], "Unknown"),
	}

	var tags []json.RawMessage
	if err := json.Unmarshal(obj["tags"], &tags); err == nil {
		for _, tag := range tags {
			info.Tags = append(info.Tags, displayValue(tag, ""))
		}
	}

	var card map[string]json.RawMessage
	if raw := bytes.TrimSpace(obj["cardData"]); len(raw) > 0 && json.Unmarshal(raw, &card) == nil && len(card) > 0 {
		info.HasCard = true
		info.CardText = displayValue(card["text"], "No model card")
	}
	return info
}

// Capitalize upper-cases the first character and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
