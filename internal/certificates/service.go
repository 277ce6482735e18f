package certificates

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"certificate-generator/certificate-api/pkg/storage"
)

// filenamePattern matches every name the renderer produces
var filenamePattern = regexp.MustCompile(`^([a-z]+_)?certificate_[0-9a-f]{8}\.pdf$`)

// IsCertificateName reports whether name is a stored certificate object name
func IsCertificateName(name string) bool {
	return filenamePattern.MatchString(name)
}

// Service is the certificate use-case boundary used by the HTTP handlers
type Service interface {
	Generate(ctx context.Context, req *CertificateRequest) (*RenderedCertificate, error)
	Open(ctx context.Context, filename string) (*storage.Object, error)
	Catalog() *TemplateCatalog
}

// Defaults holds the style and template used when a request omits them
type Defaults struct {
	Style    Style
	Template TemplateType
}

type certificateService struct {
	renderer *Renderer
	registry *Registry
	store    storage.Store
	defaults Defaults
	logger   *zap.Logger
}

// NewService creates the certificate service
func NewService(renderer *Renderer, registry *Registry, store storage.Store, defaults Defaults, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !defaults.Style.Valid() {
		defaults.Style = StyleAdvanced
	}
	if !defaults.Template.Valid() {
		defaults.Template = TemplateVolunteer
	}
	return &certificateService{
		renderer: renderer,
		registry: registry,
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

func (s *certificateService) Generate(ctx context.Context, req *CertificateRequest) (*RenderedCertificate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	style := s.resolveStyle(req.Style)
	templateType := req.TemplateType
	if templateType == "" {
		templateType = s.defaults.Template
	}

	cert, err := s.renderer.Render(ctx, req, style, templateType)
	if err != nil {
		s.logger.Error("certificate generation failed",
			zap.String("style", string(style)),
			zap.String("template_type", string(templateType)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("certificate generated",
		zap.String("filename", cert.Filename),
		zap.String("certificate_id", cert.CertificateID),
		zap.String("style", string(cert.Style)),
		zap.String("template_type", string(cert.TemplateType)),
		zap.Int64("size", cert.Size),
	)
	return cert, nil
}

func (s *certificateService) resolveStyle(style Style) Style {
	if style == "" {
		return s.defaults.Style
	}
	if !style.Valid() {
		s.logger.Warn("unknown certificate style, using default",
			zap.String("style", string(style)),
			zap.String("default", string(s.defaults.Style)),
		)
		return s.defaults.Style
	}
	return style
}

// Open looks up a generated certificate by the name returned from Generate,
// with or without the storage prefix
func (s *certificateService) Open(ctx context.Context, filename string) (*storage.Object, error) {
	name := strings.TrimPrefix(strings.TrimPrefix(filename, "/"), StoragePrefix)
	if !filenamePattern.MatchString(name) {
		return nil, ErrNotFound
	}

	obj, err := s.store.Open(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open certificate %s: %w", name, err)
	}
	return obj, nil
}

func (s *certificateService) Catalog() *TemplateCatalog {
	styleDetails := make(map[Style]map[TemplateType]TemplateDefinition, len(Styles()))
	for _, style := range Styles() {
		styleDetails[style] = s.registry.Table(style)
	}
	return &TemplateCatalog{
		Templates:       s.registry.Keys(),
		TemplateDetails: s.registry.Table(StyleSimple),
		Styles:          Styles(),
		StyleDetails:    styleDetails,
		DefaultStyle:    s.defaults.Style,
		DefaultTemplate: s.defaults.Template,
	}
}
