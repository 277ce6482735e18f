package certificates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"certificate-generator/certificate-api/pkg/pdf"
)

// Style selects one of the certificate layouts
type Style string

const (
	StyleAdvanced Style = "advanced"
	StyleMinimal  Style = "minimal"
	StyleSimple   Style = "simple"
)

// Styles returns the supported styles in display order
func Styles() []Style {
	return []Style{StyleAdvanced, StyleMinimal, StyleSimple}
}

// Valid reports whether s is a supported style
func (s Style) Valid() bool {
	switch s {
	case StyleAdvanced, StyleMinimal, StyleSimple:
		return true
	}
	return false
}

// TemplateType selects the wording and colors of a certificate
type TemplateType string

const (
	TemplateVolunteer     TemplateType = "volunteer"
	TemplateAchievement   TemplateType = "achievement"
	TemplateParticipation TemplateType = "participation"
)

// TemplateTypes returns the supported template types in display order
func TemplateTypes() []TemplateType {
	return []TemplateType{TemplateVolunteer, TemplateAchievement, TemplateParticipation}
}

// Valid reports whether t is a supported template type
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateVolunteer, TemplateAchievement, TemplateParticipation:
		return true
	}
	return false
}

// Hours is the service duration. It decodes from a JSON number or string;
// a numeric zero decodes as empty and therefore counts as missing.
type Hours string

// UnmarshalJSON accepts numbers, strings and null
func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*h = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = Hours(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a number or string")
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid duration %s: %w", n, err)
	}
	if f == 0 {
		*h = ""
		return nil
	}
	*h = Hours(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// String returns the display form
func (h Hours) String() string {
	return string(h)
}

// CertificateRequest carries the user supplied certificate fields
type CertificateRequest struct {
	Name         string       `json:"name"`
	Duration     Hours        `json:"duration"`
	Organization string       `json:"organization,omitempty"`
	Project      string       `json:"project,omitempty"`
	TemplateType TemplateType `json:"template_type,omitempty"`
	Style        Style        `json:"style,omitempty"`
}

// Validate checks required fields in declaration order
func (r *CertificateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name"}
	}
	if strings.TrimSpace(string(r.Duration)) == "" {
		return &ValidationError{Field: "duration"}
	}
	return nil
}

// TemplateDefinition holds the static strings and colors of a template
type TemplateDefinition struct {
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	BorderColor     pdf.Color `json:"border_color"`
	AccentColor     pdf.Color `json:"accent_color"`
	TextColor       pdf.Color `json:"text_color"`
	BackgroundColor pdf.Color `json:"background_color"`
}

// RenderedCertificate describes a generated file
type RenderedCertificate struct {
	Filename      string       `json:"filename"`
	ObjectName    string       `json:"-"`
	CertificateID string       `json:"certificate_id"`
	Style         Style        `json:"style"`
	TemplateType  TemplateType `json:"template_type"`
	Size          int64        `json:"size"`
	CreatedAt     time.Time    `json:"created_at"`
}

// GenerateResponse is returned by the generate endpoint
type GenerateResponse struct {
	Success       bool         `json:"success"`
	Filename      string       `json:"filename"`
	Message       string       `json:"message"`
	CertificateID string       `json:"certificate_id"`
	Style         Style        `json:"style"`
	TemplateType  TemplateType `json:"template_type"`
}

// TemplateCatalog is returned by the templates endpoint
type TemplateCatalog struct {
	Templates       []TemplateType                                `json:"templates"`
	TemplateDetails map[TemplateType]TemplateDefinition           `json:"template_details"`
	Styles          []Style                                       `json:"styles"`
	StyleDetails    map[Style]map[TemplateType]TemplateDefinition `json:"style_details"`
	DefaultStyle    Style                                         `json:"default_style"`
	DefaultTemplate TemplateType                                  `json:"default_template"`
}
