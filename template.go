package weldmark

// RequiredField tags a content category a template expects a photo to carry.
// The flags are descriptive metadata for capture tooling and checklists; the
// review state machine does not enforce them.
type RequiredField string

const (
	FieldAnnotations     RequiredField = "annotations"
	FieldMetadata        RequiredField = "metadata"
	FieldMeasurements    RequiredField = "measurements"
	FieldDefectMarking   RequiredField = "defect_marking"
	FieldReferencePoints RequiredField = "reference_points"
	FieldTimestamp       RequiredField = "timestamp"
	FieldLocation        RequiredField = "location"
)

// PhotoTemplate names what a QC photo should depict and which content
// categories it is expected to carry. Templates are immutable values drawn
// from a closed catalog and are compared by name.
type PhotoTemplate struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	RequiredFields []RequiredField `json:"requiredFields,omitempty"`
}

// IsFieldRequired reports whether the template expects the given field.
func (t PhotoTemplate) IsFieldRequired(field RequiredField) bool {
	for _, f := range t.RequiredFields {
		if f == field {
			return true
		}
	}
	return false
}

// The template catalog. Required-field sets are fixed per template;
// new shapes are introduced here, not at runtime.
var (
	TemplateTopViewOfJoint = PhotoTemplate{
		Name:        "TOP_VIEW_OF_JOINT",
		Description: "Top-down view of the welded joint",
		RequiredFields: []RequiredField{
			FieldAnnotations, FieldMeasurements, FieldReferencePoints, FieldTimestamp,
		},
	}

	TemplateSideViewOfWeld = PhotoTemplate{
		Name:        "SIDE_VIEW_OF_WELD",
		Description: "Side profile of the weld seam",
		RequiredFields: []RequiredField{
			FieldAnnotations, FieldMeasurements, FieldTimestamp,
		},
	}

	TemplateCloseUpOfWeld = PhotoTemplate{
		Name:        "CLOSE_UP_OF_WELD",
		Description: "Close-up of the weld surface for defect inspection",
		RequiredFields: []RequiredField{
			FieldMetadata, FieldDefectMarking, FieldTimestamp,
		},
	}

	TemplateOverviewOfAssembly = PhotoTemplate{
		Name:        "OVERVIEW_OF_ASSEMBLY",
		Description: "Wide shot of the complete assembly",
		RequiredFields: []RequiredField{
			FieldTimestamp, FieldLocation,
		},
	}

	TemplateSurfacePreparation = PhotoTemplate{
		Name:        "SURFACE_PREPARATION",
		Description: "Surface condition before welding",
		RequiredFields: []RequiredField{
			FieldMetadata, FieldTimestamp,
		},
	}

	TemplateCustom = PhotoTemplate{
		Name:        "CUSTOM",
		Description: "Free-form documentation photo",
	}
)

// TemplateCatalog lists every template in the closed catalog.
var TemplateCatalog = []PhotoTemplate{
	TemplateTopViewOfJoint,
	TemplateSideViewOfWeld,
	TemplateCloseUpOfWeld,
	TemplateOverviewOfAssembly,
	TemplateSurfacePreparation,
	TemplateCustom,
}

// TemplateByName looks up a catalog template by its unique name.
// Returns ENOTFOUND if no catalog entry matches.
func TemplateByName(name string) (PhotoTemplate, error) {
	for _, t := range TemplateCatalog {
		if t.Name == name {
			return t, nil
		}
	}
	return PhotoTemplate{}, NotFound("Template %q not found", name)
}

// TemplateOf constructs an ad-hoc template outside the catalog with no
// required fields. Both name and description must be non-blank.
func TemplateOf(name, description string) (PhotoTemplate, error) {
	if name == "" {
		return PhotoTemplate{}, Invalid("Template name is required")
	}
	if description == "" {
		return PhotoTemplate{}, Invalid("Template description is required")
	}
	return PhotoTemplate{Name: name, Description: description}, nil
}
