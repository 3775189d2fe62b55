package huggingface

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Shape is a decoded upstream payload. Every recognised shape renders to the text a
// tool returns; anything unrecognised decodes to Opaque.
type Shape interface {
	Render() string
	shape()
}

// Opaque is a payload of unexpected shape, rendered as compact JSON or raw text.
type Opaque struct {
	Raw []byte
}

func (Opaque) shape() {}

func (o Opaque) Render() string {
	if !json.Valid(o.Raw) {
		return string(o.Raw)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, o.Raw); err != nil {
		return string(o.Raw)
	}
	return buf.String()
}

// GeneratedText is a single generated string (generation, summary, translation).
type GeneratedText struct {
	Text string
}

func (GeneratedText) shape() {}

func (g GeneratedText) Render() string { return g.Text }

// Classification is one label/score pair.
type Classification struct {
	Label string
	Score float64
}

// Classifications renders as a Markdown bullet list with four-decimal scores.
type Classifications struct {
	Items []Classification
}

func (Classifications) shape() {}

func (c Classifications) Render() string {
	var b strings.Builder
	b.WriteString("# Image Classification Results\n\n")
	for _, item := range c.Items {
		fmt.Fprintf(&b, "- **%s**: %.4f\n", item.Label, item.Score)
	}
	return b.String()
}

// Answer is an extractive question-answering result. Score keeps the upstream rendering.
type Answer struct {
	Answer string
	Score  string
}

func (Answer) shape() {}

func (a Answer) Render() string {
	return fmt.Sprintf("Answer: %s\nScore: %s", a.Answer, a.Score)
}

// DecodeTextGeneration reads [{"generated_text": "..."}] or a bare ["..."].
func DecodeTextGeneration(body []byte) Shape {
	return decodeFirstText(body, "generated_text", true)
}

// DecodeFieldText reads [{"<field>": "..."}], the summarization and translation shape.
// Anything else, a bare ["..."] included, is opaque.
func DecodeFieldText(body []byte, field string) Shape {
	return decodeFirstText(body, field, false)
}

func decodeFirstText(body []byte, field string, allowBare bool) Shape {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil || len(list) == 0 {
		return Opaque{Raw: body}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(list[0], &obj); err == nil {
		var text string
		if raw, ok := obj[field]; ok && json.Unmarshal(raw, &text) == nil {
			return GeneratedText{Text: text}
		}
		return Opaque{Raw: body}
	}

	var text string
	if allowBare && json.Unmarshal(list[0], &text) == nil {
		return GeneratedText{Text: text}
	}
	return Opaque{Raw: body}
}

// DecodeClassifications reads [{"label": ..., "score": ...}]. Items missing a label or a
// numeric score are skipped.
func DecodeClassifications(body []byte) Shape {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil {
		return Opaque{Raw: body}
	}

	items := make([]Classification, 0, len(list))
	for _, raw := range list {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			continue
		}
		label, ok := obj["label"]
		if !ok {
			continue
		}
		rawScore := bytes.TrimSpace(obj["score"])
		if len(rawScore) == 0 || bytes.Equal(rawScore, []byte("null")) {
			continue
		}
		var score float64
		if err := json.Unmarshal(rawScore, &score); err != nil {
			continue
		}
		items = append(items, Classification{Label: displayValue(label, ""), Score: score})
	}
	return Classifications{Items: items}
}

// DecodeAnswer reads {"answer": ..., "score": ...}.
func DecodeAnswer(body []byte) Shape {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return Opaque{Raw: body}
	}
	answer, ok := obj["answer"]
	if !ok {
		return Opaque{Raw: body}
	}
	return Answer{
		Answer: displayValue(answer, ""),
		Score:  displayValue(obj["score"], "N/A"),
	}
}

// displayValue renders a JSON value for Markdown: strings unquoted, other values as
// compact JSON, absent or null as fallback.
func displayValue(raw json.RawMessage, fallback string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fallback
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return Opaque{Raw: trimmed}.Render()
}
