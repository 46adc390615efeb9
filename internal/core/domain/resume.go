package domain

import "time"

// RawTextSampleLimit is the number of runes of source text kept with a stored résumé.
const RawTextSampleLimit = 1000

// StoredResume is a parsed résumé as persisted by the record store.
type StoredResume struct {
	ID            string         `json:"id"`
	Filename      string         `json:"filename"`
	UploadedAt    time.Time      `json:"upload_date"`
	Parsed        map[string]any `json:"parsed_data"`
	RawTextSample string         `json:"raw_text_sample"`
}

// RawTextSample truncates text to RawTextSampleLimit runes, appending "..."
// when anything was cut.
func RawTextSample(text string) string {
	r := []rune(text)
	if len(r) <= RawTextSampleLimit {
		return text
	}
	return string(r[:RawTextSampleLimit]) + "..."
}

// Category returns the classified category of the résumé, or "" when
// classification failed or is absent.
func (s StoredResume) Category() string {
	c, ok := s.Parsed[string(SchemaClassification)].(map[string]any)
	if !ok {
		return ""
	}
	cat, _ := c["category"].(string)
	return cat
}

// CandidateName returns the extracted full name, or "".
func (s StoredResume) CandidateName() string {
	p, ok := s.Parsed[string(SchemaPersonalDetails)].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := p["Full_Name"].(string)
	return name
}
