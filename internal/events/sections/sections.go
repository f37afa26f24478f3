// Package sections encodes an event's narrative body. The stored
// description field is a tagged union: either legacy plain text or a
// JSON array of {heading, content} blocks, distinguished by a leading
// '[' marker. This package is the only code that interprets the
// field; everything else passes the encoded text around opaquely.
package sections

import (
	"encoding/json"
	"strings"
)

// LegacyHeading is the heading given to plain-text descriptions when
// they are presented as structured content.
const LegacyHeading = "Overview"

type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Description is the decoded form of the stored field: exactly one of
// plain text or an ordered section list.
type Description struct {
	plain      string
	sections   []Section
	structured bool
}

// Plain wraps a legacy plain-text description.
func Plain(text string) Description {
	return Description{plain: text}
}

// Structured wraps an ordered section list.
func Structured(secs []Section) Description {
	if secs == nil {
		secs = []Section{}
	}
	return Description{sections: secs, structured: true}
}

func (d Description) IsStructured() bool {
	return d.structured
}

// PlainText returns the raw text and true when the description is the
// legacy plain form.
func (d Description) PlainText() (string, bool) {
	if d.structured {
		return "", false
	}
	return d.plain, true
}

// Sections presents the description as structured content. Plain text
// is wrapped as a single legacy section.
func (d Description) Sections() []Section {
	if d.structured {
		return d.sections
	}
	return []Section{{Heading: LegacyHeading, Content: d.plain}}
}

// Decode interprets a stored description field. Text that is empty or
// does not look like a JSON array is treated as legacy plain text, and
// so is anything that fails to parse. Decode never returns an error.
func Decode(text string) Description {
	if !strings.HasPrefix(text, "[") {
		return Plain(text)
	}

	var secs []Section
	if err := json.Unmarshal([]byte(text), &secs); err != nil {
		return Plain(text)
	}
	return Structured(secs)
}

// Encode serializes the description back into the stored field form.
func (d Description) Encode() string {
	if !d.structured {
		return d.plain
	}
	return encodeSections(d.sections)
}

func encodeSections(secs []Section) string {
	if secs == nil {
		secs = []Section{}
	}
	out, err := json.Marshal(secs)
	if err != nil {
		// Section values are plain strings; marshaling cannot fail.
		return "[]"
	}
	return string(out)
}

// The editing operations below each decode, mutate, and immediately
// re-encode so the draft always holds the canonical encoded form.
// Any edit promotes legacy plain text to the structured form.

// Append adds an empty section to the end.
func Append(text string) string {
	secs := Decode(text).Sections()
	secs = append(secs, Section{})
	return encodeSections(secs)
}

// Remove drops the section at index. Out-of-range indexes re-encode
// without change.
func Remove(text string, index int) string {
	secs := Decode(text).Sections()
	if index >= 0 && index < len(secs) {
		secs = append(secs[:index], secs[index+1:]...)
	}
	return encodeSections(secs)
}

// SetHeading updates the heading of the section at index.
func SetHeading(text string, index int, heading string) string {
	secs := Decode(text).Sections()
	if index >= 0 && index < len(secs) {
		secs[index].Heading = heading
	}
	return encodeSections(secs)
}

// SetContent updates the content of the section at index.
func SetContent(text string, index int, content string) string {
	secs := Decode(text).Sections()
	if index >= 0 && index < len(secs) {
		secs[index].Content = content
	}
	return encodeSections(secs)
}
