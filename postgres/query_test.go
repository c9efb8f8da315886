package postgres

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/weldmark"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// assertPlaceholdersMatchArgs checks that a query references exactly the
// placeholders $1 through $n for an n-element argument list. Postgres refuses
// to prepare a statement whose $n sequence has gaps, so a query that skips a
// placeholder fails at runtime even though it looks plausible in the source.
func assertPlaceholdersMatchArgs(t *testing.T, query string, args []any) {
	t.Helper()

	seen := make(map[int]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(query, -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		seen[n] = true
	}

	for i := 1; i <= len(args); i++ {
		assert.True(t, seen[i], "placeholder $%d is never referenced", i)
	}
	for n := range seen {
		assert.LessOrEqual(t, n, len(args), "placeholder $%d has no argument", n)
	}
}

func TestPhotoUpdateQuery_PlaceholdersMatchArgs(t *testing.T) {
	template, err := weldmark.TemplateOf("weld-joint", "Weld joint close-up")
	require.NoError(t, err)

	doc, err := weldmark.NewPhotoDocument(template, "photos/test", uuid.New(), time.Now())
	require.NoError(t, err)
	assertPlaceholdersMatchArgs(t, photoUpdateQuery, photoDocumentUpdateArgs(doc))

	dpi := 150
	meta, err := weldmark.NewPhotoMetadata(1920, 1080, 2<<20, "JPEG", "sRGB", &dpi)
	require.NoError(t, err)
	doc.SetMetadata(meta)
	assertPlaceholdersMatchArgs(t, photoUpdateQuery, photoDocumentUpdateArgs(doc))
}

func TestReportUpdateQuery_PlaceholdersMatchArgs(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)

	assertPlaceholdersMatchArgs(t, reportUpdateQuery, reportUpdateArgs(report, report.Version))
}
