package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/importer"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/alexanderramin/gridlayout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blueprintYAML = `
layout:
  node_id: 4
  region: sidebar
nodes:
  - ref: row
    kind: hbox
  - {ref: left, parent_ref: row, kind: column, options: {md: 9}}
  - {ref: right, parent_ref: row, kind: column}
  - {ref: hello, parent_ref: left, kind: item, type: a, payload: 1}
  - {ref: bye, kind: item, type: b, payload: 2, options: {css: small}}
`

var containerIDs = regexp.MustCompile(`container:(hbox|vbox)/[^"]+`)

// anonymize drops container storage ids from an outline.
func anonymize(outline string) string {
	return containerIDs.ReplaceAllString(outline, "container:$1/*")
}

func TestBlueprintService_ImportFile(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	svc := NewBlueprintService(testutil.NewTestUoW(s.database), s.layouts, s.types, s.observer)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(blueprintYAML), 0o600))

	l, err := svc.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, l.ID, s.observer.last().Fields["layout_id"])

	stored, err := s.layouts.Load(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), *stored.NodeID)
	assert.Equal(t, "sidebar", *stored.Region)
	assert.Nil(t, stored.SiteID)

	out := s.outline(t, l.ID)
	assert.Contains(t, out, `<item id="leaf:a/1"/>`)
	assert.Contains(t, out, `<item id="leaf:b/2"/>`)

	row := stored.TopLevel().At(0)
	require.Equal(t, domain.KindHorizontal, row.Kind)
	assert.Equal(t, 9, row.At(0).Options.Int("md", 0))
	assert.Equal(t, "small", stored.TopLevel().At(1).Options.Get("css", nil))

	_, err = svc.ImportFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBlueprintService_ImportRejectsInvalid(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	svc := NewBlueprintService(testutil.NewTestUoW(s.database), s.layouts, s.types)

	bp, err := importer.ParseBlueprint([]byte(blueprintYAML))
	require.NoError(t, err)
	bp.Nodes[3].Type = "uninstalled"
	bp.Nodes[2].ParentRef = ""

	_, err = svc.Import(ctx, bp)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "2 errors")
	assert.Contains(t, err.Error(), `unknown item type "uninstalled"`)

	ids, err := s.layouts.ListWithConditions(ctx, map[string]any{"node_id": int64(4)})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBlueprintService_ImportRollsBack(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	boom := errors.New("disk full")
	failing := &testutil.FailingStatementUoW{DB: s.database, Statement: "DELETE FROM layout_data", Err: boom}
	svc := NewBlueprintService(failing, s.layouts, s.types)

	bp, err := importer.ParseBlueprint([]byte(blueprintYAML))
	require.NoError(t, err)
	_, err = svc.Import(ctx, bp)
	require.ErrorIs(t, err, boom)

	ids, err := s.layouts.ListWithConditions(ctx, map[string]any{"node_id": int64(4)})
	require.NoError(t, err)
	assert.Empty(t, ids, "layout row rolled back with its nodes")
}

func TestBlueprintService_ExportRoundTrip(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	svc := NewBlueprintService(testutil.NewTestUoW(s.database), s.layouts, s.types)
	src := s.complexLayout(t, domain.Attributes{SiteID: testutil.Int64(8)})

	bp, err := svc.Export(ctx, src.ID)
	require.NoError(t, err)
	copied, err := svc.Import(ctx, bp)
	require.NoError(t, err)
	require.NotEqual(t, src.ID, copied.ID)

	assert.Equal(t, anonymize(s.outline(t, src.ID)), anonymize(s.outline(t, copied.ID)))
	assert.Contains(t, s.outline(t, copied.ID), `<item id="leaf:b/11"/>`)

	_, err = svc.Export(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
