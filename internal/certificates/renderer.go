package certificates

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"certificate-generator/certificate-api/pkg/pdf"
	"certificate-generator/certificate-api/pkg/storage"
)

const (
	// DateLayout formats the date stamp, e.g. "March 05, 2025"
	DateLayout = "January 02, 2006"

	// StoragePrefix is prepended to object names in API responses
	StoragePrefix = "certificates/"

	maxNameAttempts = 5
)

// RendererConfig holds document level rendering settings
type RendererConfig struct {
	PageSize            string
	Compress            bool
	Author              string
	DefaultOrganization string
}

// Renderer fills a layout with request data, draws it and stores the result
type Renderer struct {
	layouts  map[Style]Layout
	registry *Registry
	store    storage.Store
	config   RendererConfig
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewRenderer creates a renderer over the built-in layouts
func NewRenderer(registry *Registry, store storage.Store, config RendererConfig, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PageSize == "" {
		config.PageSize = "A4"
	}
	return &Renderer{
		layouts:  Layouts(),
		registry: registry,
		store:    store,
		config:   config,
		logger:   logger,
		now:      time.Now,
		newID:    randomHex8,
	}
}

// randomHex8 returns 8 lowercase hex characters from a random UUID
func randomHex8() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}

// certificateData is the value every markup template executes against
type certificateData struct {
	Title         string
	Subtitle      string
	Name          string
	Duration      string
	Organization  string
	Project       string
	Date          string
	CertificateID string
}

// Element is one laid out piece of a composed certificate
type Element struct {
	Kind       string // spacer, text, rule
	Height     float64
	Paragraph  pdf.Paragraph
	RuleWidth  float64
	RuleColor  pdf.Color
	SpaceAfter float64
}

// Composition is a certificate with all text resolved, ready to draw
type Composition struct {
	Style         Style
	TemplateType  TemplateType
	Definition    TemplateDefinition
	CertificateID string
	Date          string
	FilePrefix    string
	Frame         *pdf.Frame
	Background    *pdf.Color
	Elements      []Element
}

// Text returns the unstyled text of every text element, one per line
func (c *Composition) Text() string {
	var parts []string
	for _, e := range c.Elements {
		if e.Kind == "text" {
			parts = append(parts, pdf.PlainText(e.Paragraph.Runs))
		}
	}
	return strings.Join(parts, "\n")
}

// Compose resolves the layout for style against the request. It does no I/O.
func (r *Renderer) Compose(req *CertificateRequest, style Style, templateType TemplateType) (*Composition, error) {
	layout, ok := r.layouts[style]
	if !ok {
		return nil, fmt.Errorf("no layout for style %q", style)
	}
	templateType, def := r.registry.Lookup(style, string(templateType))

	data := certificateData{
		Title:         def.Title,
		Subtitle:      def.Subtitle,
		Name:          strings.TrimSpace(req.Name),
		Duration:      req.Duration.String(),
		Organization:  strings.TrimSpace(req.Organization),
		Project:       strings.TrimSpace(req.Project),
		Date:          r.now().Format(DateLayout),
		CertificateID: strings.ToUpper(r.newID()),
	}
	if data.Organization == "" && layout.DefaultOrganization {
		data.Organization = r.config.DefaultOrganization
	}

	c := &Composition{
		Style:         style,
		TemplateType:  templateType,
		Definition:    def,
		CertificateID: data.CertificateID,
		Date:          data.Date,
		FilePrefix:    layout.FilePrefix,
	}
	if layout.FillBackground {
		bg := def.BackgroundColor
		c.Background = &bg
	}
	if f := layout.frame; f != nil {
		c.Frame = &pdf.Frame{
			Color:      def.BorderColor,
			Inset:      f.inset,
			Gap:        f.gap,
			OuterWidth: f.outerWidth,
			InnerWidth: f.innerWidth,
		}
	}

	for _, b := range layout.blocks {
		switch b.kind {
		case blockSpacer:
			c.Elements = append(c.Elements, Element{Kind: "spacer", Height: b.height})
		case blockRule:
			c.Elements = append(c.Elements, Element{
				Kind:       "rule",
				Height:     b.height,
				RuleWidth:  b.width,
				RuleColor:  def.TextColor,
				SpaceAfter: b.spaceAfter,
			})
		case blockText:
			var buf bytes.Buffer
			if err := b.markup.Execute(&buf, data); err != nil {
				return nil, fmt.Errorf("failed to execute %s markup: %w", b.markup.Name(), err)
			}
			runs := pdf.ParseMarkup(buf.String())
			if b.bold {
				for i := range runs {
					runs[i].Bold = true
				}
			}
			c.Elements = append(c.Elements, Element{
				Kind: "text",
				Paragraph: pdf.Paragraph{
					Runs:       runs,
					FontSize:   b.fontSize,
					Leading:    b.leading,
					Color:      b.color.resolve(def),
					Align:      b.align,
					SpaceAfter: b.spaceAfter,
				},
			})
		}
	}
	return c, nil
}

// Draw renders a composition to PDF bytes entirely in memory
func (r *Renderer) Draw(c *Composition) ([]byte, error) {
	options := pdf.DefaultOptions()
	options.PageSize = r.config.PageSize
	options.Compress = r.config.Compress
	options.Author = r.config.Author
	options.Creator = r.config.Author
	options.Title = c.Definition.Title
	options.Subject = c.CertificateID

	doc := pdf.NewDocument(options)
	if c.Background != nil {
		doc.Fill(*c.Background)
	}
	if c.Frame != nil {
		doc.DrawFrame(*c.Frame)
	}
	for _, e := range c.Elements {
		switch e.Kind {
		case "spacer":
			doc.Spacer(e.Height)
		case "rule":
			doc.HorizontalRule(e.RuleWidth, e.Height, e.RuleColor)
			doc.Spacer(e.SpaceAfter)
		case "text":
			doc.WriteParagraph(e.Paragraph)
		}
	}
	return doc.OutputToBytes()
}

// Render composes, draws and stores a certificate. Nothing is stored unless
// the whole document rendered.
func (r *Renderer) Render(ctx context.Context, req *CertificateRequest, style Style, templateType TemplateType) (*RenderedCertificate, error) {
	c, err := r.Compose(req, style, templateType)
	if err != nil {
		return nil, &RenderError{Style: style, Err: err}
	}
	data, err := r.Draw(c)
	if err != nil {
		return nil, &RenderError{Style: style, Err: err}
	}

	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		name := c.FilePrefix + "certificate_" + r.newID() + ".pdf"
		err := r.store.Save(ctx, name, data, "application/pdf")
		if errors.Is(err, storage.ErrExists) {
			r.logger.Warn("certificate name collision, retrying",
				zap.String("name", name),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, &RenderError{Style: style, Err: fmt.Errorf("failed to store certificate: %w", err)}
		}

		return &RenderedCertificate{
			Filename:      StoragePrefix + name,
			ObjectName:    name,
			CertificateID: c.CertificateID,
			Style:         c.Style,
			TemplateType:  c.TemplateType,
			Size:          int64(len(data)),
			CreatedAt:     r.now(),
		}, nil
	}
	return nil, &RenderError{Style: style, Err: fmt.Errorf("no unused certificate name after %d attempts", maxNameAttempts)}
}
