package renderscript

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGerber = "%FSLAX23Y23*%\n%MOIN*%\n%ADD10C,0.050*%\nD10*\nX1000Y1000D03*\nM02*"
const testDrill = "M48\nINCH,LZ\nT01C0.0350\n%\nT01\nX10000Y20000\nM30"

func TestDriverRendersAndComposesDeliverable(t *testing.T) {
	data := []byte(`{
		"steps": {
			"copper": {"action": "render-gerber", "file_regex": "\\.gtl$", "color": "#C87533"},
			"holes": {"action": "render-drill", "file_regex": "\\.drl$"},
			"board": {"action": "compose", "deliverable": true, "sources": [{"name": "copper"}, {"name": "holes", "operator": "xor"}]}
		}
	}`)
	script, err := Load(data)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	gtl, _ := zw.Create("board.gtl")
	gtl.Write([]byte(testGerber))
	drl, _ := zw.Create("board.drl")
	drl.Write([]byte(testDrill))
	require.NoError(t, zw.Close())

	pool := NewSources()
	require.NoError(t, pool.AddArchive("board.zip", buf.Bytes()))

	driver := NewDriver(script, pool, 1000, false, nil)
	results, err := driver.RenderAll()
	require.NoError(t, err)
	require.Contains(t, results, "board")
	assert.NotNil(t, results["board"])
}

func TestSourcesFindMatchesArchiveMember(t *testing.T) {
	pool := NewSources()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, _ := zw.Create("panel/top.gtl")
	w.Write([]byte(testGerber))
	zw.Close()

	require.NoError(t, pool.AddArchive("panel.zip", buf.Bytes()))
	matches, err := pool.Find(`top\.gtl$`)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "panel.zip:panel/top.gtl", matches[0].Name)
}
