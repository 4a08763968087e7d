package state

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
)

func twoSheetWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "KW"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "seo"))
	_, err := f.NewSheet("Brands")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Brands", "A1", "KW"))
	require.NoError(t, f.SetCellValue("Brands", "A2", "acme"))
	require.NoError(t, f.SetCellValue("Brands", "A3", "globex"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestWorkspaceLoadKeepsPreviousOnFailure(t *testing.T) {
	ws := NewWorkspace(analysis.NewImporter(nil))
	ctx := context.Background()
	assert.Nil(t, ws.Current())

	res, err := ws.Load(ctx, "kw.csv", []byte("KW,Volumn\nseo,10K"), "")
	require.NoError(t, err)
	assert.Same(t, res, ws.Current())

	_, err = ws.Load(ctx, "empty.csv", []byte("   "), "")
	assert.ErrorIs(t, err, analysis.ErrNoHeaderFound)
	assert.Same(t, res, ws.Current())

	ws.Clear()
	assert.Nil(t, ws.Current())
}

func TestWorkspaceSwitchSheet(t *testing.T) {
	ws := NewWorkspace(analysis.NewImporter(nil))
	ctx := context.Background()

	_, err := ws.SwitchSheet(ctx, "Sheet1")
	assert.ErrorIs(t, err, ErrNothingLoaded)

	res, err := ws.Load(ctx, "book.xlsx", twoSheetWorkbook(t), "")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", res.CurrentSheet)
	assert.Equal(t, 1, res.Table.NumRows())

	res, err = ws.SwitchSheet(ctx, "Brands")
	require.NoError(t, err)
	assert.Equal(t, "Brands", res.CurrentSheet)
	assert.Equal(t, 2, res.Table.NumRows())
	assert.Equal(t, "book.xlsx", ws.Current().FileName)

	_, err = ws.SwitchSheet(ctx, "Nope")
	assert.ErrorIs(t, err, analysis.ErrSheetNotFound)
	assert.Equal(t, "Brands", ws.Current().CurrentSheet)
}

func TestWorkspaceSwitchSheetOnText(t *testing.T) {
	ws := NewWorkspace(analysis.NewImporter(nil))
	ctx := context.Background()

	_, err := ws.Load(ctx, "kw.csv", []byte("KW\nseo"), "")
	require.NoError(t, err)

	res, err := ws.SwitchSheet(ctx, "kw")
	require.NoError(t, err)
	assert.Equal(t, "kw", res.CurrentSheet)

	_, err = ws.SwitchSheet(ctx, "other")
	assert.ErrorIs(t, err, analysis.ErrSheetNotFound)
}

func TestWorkspaceConcurrentReaders(t *testing.T) {
	ws := NewWorkspace(analysis.NewImporter(nil))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = ws.Load(ctx, "kw.csv", []byte("KW\nseo"), "")
		}()
		go func() {
			defer wg.Done()
			if cur := ws.Current(); cur != nil {
				_ = cur.Table.NumRows()
			}
		}()
	}
	wg.Wait()
	require.NotNil(t, ws.Current())
}
