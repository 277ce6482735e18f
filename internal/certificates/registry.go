package certificates

import (
	"go.uber.org/zap"

	"certificate-generator/certificate-api/pkg/pdf"
)

// Registry maps template types to their display strings and colors, one
// table per style. It is read-only after construction.
type Registry struct {
	tables map[Style]map[TemplateType]TemplateDefinition
	logger *zap.Logger
}

// NewRegistry builds the built-in template tables
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		tables: map[Style]map[TemplateType]TemplateDefinition{
			StyleSimple:   simpleTemplates(),
			StyleAdvanced: advancedTemplates(),
			StyleMinimal:  minimalTemplates(),
		},
		logger: logger,
	}
}

func simpleTemplates() map[TemplateType]TemplateDefinition {
	return map[TemplateType]TemplateDefinition{
		TemplateVolunteer: {
			Title:           "Certificate of Appreciation",
			Subtitle:        "Volunteer Service",
			BorderColor:     pdf.DarkBlue,
			AccentColor:     pdf.DarkBlue,
			TextColor:       pdf.Black,
			BackgroundColor: pdf.LightBlue,
		},
		TemplateAchievement: {
			Title:           "Certificate of Achievement",
			Subtitle:        "Outstanding Performance",
			BorderColor:     pdf.DarkGoldenrod,
			AccentColor:     pdf.DarkGoldenrod,
			TextColor:       pdf.Black,
			BackgroundColor: pdf.LightYellow,
		},
		TemplateParticipation: {
			Title:           "Certificate of Participation",
			Subtitle:        "Event Participation",
			BorderColor:     pdf.DarkGreen,
			AccentColor:     pdf.DarkGreen,
			TextColor:       pdf.Black,
			BackgroundColor: pdf.LightGreen,
		},
	}
}

func advancedTemplates() map[TemplateType]TemplateDefinition {
	def := func(title, subtitle string) TemplateDefinition {
		return TemplateDefinition{
			Title:           title,
			Subtitle:        subtitle,
			BorderColor:     pdf.DarkBlue,
			AccentColor:     pdf.LightBlue,
			TextColor:       pdf.Black,
			BackgroundColor: pdf.White,
		}
	}
	return map[TemplateType]TemplateDefinition{
		TemplateVolunteer:     def("CERTIFICATE OF APPRECIATION", "Volunteer Service Recognition"),
		TemplateAchievement:   def("CERTIFICATE OF ACHIEVEMENT", "Outstanding Performance Award"),
		TemplateParticipation: def("CERTIFICATE OF PARTICIPATION", "Event Participation Recognition"),
	}
}

func minimalTemplates() map[TemplateType]TemplateDefinition {
	def := TemplateDefinition{
		Title:           "Certificate of Completion",
		BorderColor:     pdf.Black,
		AccentColor:     pdf.Grey,
		TextColor:       pdf.Black,
		BackgroundColor: pdf.White,
	}
	return map[TemplateType]TemplateDefinition{
		TemplateVolunteer:     def,
		TemplateAchievement:   def,
		TemplateParticipation: def,
	}
}

// Keys returns the template types in display order
func (r *Registry) Keys() []TemplateType {
	return TemplateTypes()
}

// Lookup resolves key within the style's table. Unknown keys and styles fall
// back to volunteer and the simple table; it never fails.
func (r *Registry) Lookup(style Style, key string) (TemplateType, TemplateDefinition) {
	table, ok := r.tables[style]
	if !ok {
		r.logger.Debug("unknown style in template lookup, using simple table", zap.String("style", string(style)))
		table = r.tables[StyleSimple]
	}

	t := TemplateType(key)
	if def, ok := table[t]; ok {
		return t, def
	}
	r.logger.Debug("unknown template type, falling back to volunteer", zap.String("template_type", key))
	return TemplateVolunteer, table[TemplateVolunteer]
}

// Table returns a copy of one style's definitions
func (r *Registry) Table(style Style) map[TemplateType]TemplateDefinition {
	src := r.tables[style]
	out := make(map[TemplateType]TemplateDefinition, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
