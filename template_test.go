package weldmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCatalog(t *testing.T) {
	// Names are unique across the closed catalog.
	seen := map[string]bool{}
	for _, tmpl := range TemplateCatalog {
		assert.NotEmpty(t, tmpl.Name)
		assert.NotEmpty(t, tmpl.Description)
		assert.False(t, seen[tmpl.Name], "duplicate template name %s", tmpl.Name)
		seen[tmpl.Name] = true
	}
}

func TestTemplate_IsFieldRequired(t *testing.T) {
	assert.True(t, TemplateTopViewOfJoint.IsFieldRequired(FieldMeasurements))
	assert.True(t, TemplateCloseUpOfWeld.IsFieldRequired(FieldDefectMarking))
	assert.False(t, TemplateCloseUpOfWeld.IsFieldRequired(FieldLocation))

	// The custom template requires nothing.
	for _, f := range []RequiredField{
		FieldAnnotations, FieldMetadata, FieldMeasurements,
		FieldDefectMarking, FieldReferencePoints, FieldTimestamp, FieldLocation,
	} {
		assert.False(t, TemplateCustom.IsFieldRequired(f))
	}
}

func TestTemplateByName(t *testing.T) {
	tmpl, err := TemplateByName("SIDE_VIEW_OF_WELD")
	require.NoError(t, err)
	assert.Equal(t, TemplateSideViewOfWeld, tmpl)

	_, err = TemplateByName("BOTTOM_VIEW")
	assert.Equal(t, ENOTFOUND, ErrorCode(err))
}

func TestTemplateOf(t *testing.T) {
	tmpl, err := TemplateOf("REWORK_AREA", "Rework area before grinding")
	require.NoError(t, err)
	assert.Empty(t, tmpl.RequiredFields)

	_, err = TemplateOf("", "desc")
	assert.Equal(t, EINVALID, ErrorCode(err))

	_, err = TemplateOf("NAME", "")
	assert.Equal(t, EINVALID, ErrorCode(err))
}
