package certificates

import (
	"html/template"

	"certificate-generator/certificate-api/pkg/pdf"
)

type blockKind int

const (
	blockSpacer blockKind = iota
	blockText
	blockRule
)

// colorRole picks one of the template definition's colors at render time
type colorRole int

const (
	roleText colorRole = iota
	roleBorder
	roleAccent
)

func (r colorRole) resolve(def TemplateDefinition) pdf.Color {
	switch r {
	case roleBorder:
		return def.BorderColor
	case roleAccent:
		return def.AccentColor
	default:
		return def.TextColor
	}
}

// block is one vertical element of a layout. Text blocks hold an html/template
// so user fields are escaped before the markup is tokenized.
type block struct {
	kind       blockKind
	height     float64 // spacer height, or rule line width
	width      float64 // rule length
	markup     *template.Template
	fontSize   float64
	leading    float64
	spaceAfter float64
	bold       bool
	align      string
	color      colorRole
}

// frameGeometry places a page frame; its color comes from the
// template's border color
type frameGeometry struct {
	inset      float64
	gap        float64
	outerWidth float64
	innerWidth float64
}

// Layout describes how one style arranges a certificate
type Layout struct {
	Style      Style
	FilePrefix string
	// FillBackground paints the page in the template background color.
	FillBackground bool
	// DefaultOrganization substitutes the configured organization when the
	// request has none.
	DefaultOrganization bool
	frame               *frameGeometry
	blocks              []block
}

func spacerBlock(h float64) block {
	return block{kind: blockSpacer, height: h}
}

func textBlock(name, markup string, size float64, opts ...func(*block)) block {
	b := block{
		kind:     blockText,
		markup:   template.Must(template.New(name).Parse(markup)),
		fontSize: size,
		align:    "C",
		color:    roleText,
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func ruleBlock(width, lineWidth, spaceAfter float64) block {
	return block{kind: blockRule, width: width, height: lineWidth, spaceAfter: spaceAfter}
}

func withBold(b *block) { b.bold = true }

func withBorderColor(b *block) { b.color = roleBorder }

func withLeading(l float64) func(*block) {
	return func(b *block) { b.leading = l }
}

func withSpaceAfter(s float64) func(*block) {
	return func(b *block) { b.spaceAfter = s }
}

const (
	simpleBody = `This is to certify that <b>{{.Name}}</b> has successfully completed {{.Duration}} hours of volunteer service.` +
		`{{if .Organization}}<br>Organization: {{.Organization}}{{end}}` +
		`{{if .Project}}<br>Project: {{.Project}}{{end}}` +
		`<br><br>Date: {{.Date}}<br>Certificate ID: {{.CertificateID}}`

	advancedBody = `This is to certify that <b>{{.Name}}</b> has successfully completed <b>{{.Duration}} hours</b> of dedicated volunteer service.` +
		`{{if .Organization}}<br><br>Organization: <b>{{.Organization}}</b>{{end}}` +
		`{{if .Project}}<br>Project: <b>{{.Project}}</b>{{end}}`

	minimalBody = `This certifies that <b>{{.Name}}</b> has completed {{.Duration}} hours of volunteer service.` +
		`{{if .Organization}}<br><br>Organization: {{.Organization}}{{end}}` +
		`<br><br>Date: {{.Date}}`
)

func simpleLayout() Layout {
	return Layout{
		Style:          StyleSimple,
		FilePrefix:     "",
		FillBackground: true,
		blocks: []block{
			textBlock("title", `{{.Title}}`, 24, withBold, withSpaceAfter(30)),
			textBlock("subtitle", `{{.Subtitle}}`, 18, withBold, withSpaceAfter(20)),
			spacerBlock(40),
			textBlock("body", simpleBody, 14, withSpaceAfter(15)),
		},
	}
}

func advancedLayout() Layout {
	return Layout{
		Style:               StyleAdvanced,
		FilePrefix:          "advanced_",
		DefaultOrganization: true,
		frame:               &frameGeometry{inset: 20, gap: 6, outerWidth: 3, innerWidth: 1},
		blocks: []block{
			spacerBlock(50),
			textBlock("title", `{{.Title}}`, 28, withBold, withBorderColor, withSpaceAfter(30)),
			textBlock("subtitle", `{{.Subtitle}}`, 16, withBorderColor),
			spacerBlock(40),
			textBlock("body", advancedBody, 14, withLeading(20), withSpaceAfter(20)),
			spacerBlock(60),
			textBlock("date", `Date: {{.Date}}`, 12, withSpaceAfter(10)),
			textBlock("id", `Certificate ID: {{.CertificateID}}`, 12, withSpaceAfter(10)),
			spacerBlock(40),
			ruleBlock(180, 0.75, 6),
			textBlock("signature", `Authorized Signature`, 12),
		},
	}
}

func minimalLayout() Layout {
	return Layout{
		Style:      StyleMinimal,
		FilePrefix: "minimal_",
		blocks: []block{
			spacerBlock(100),
			textBlock("title", `{{.Title}}`, 28, withSpaceAfter(30)),
			spacerBlock(50),
			textBlock("body", minimalBody, 14, withLeading(20), withSpaceAfter(15)),
		},
	}
}

// Layouts returns the built-in layout for every style
func Layouts() map[Style]Layout {
	return map[Style]Layout{
		StyleSimple:   simpleLayout(),
		StyleAdvanced: advancedLayout(),
		StyleMinimal:  minimalLayout(),
	}
}
