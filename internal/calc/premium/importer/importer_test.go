package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Jibcrane/internal/calc/crane"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func sample(t *testing.T) *bytes.Buffer {
	return workbook(t,
		[]interface{}{"label", "mass_tip", "t_wall", "grade", "Combination"},
		[]interface{}{"light", 10, "", "", ""},
		[]interface{}{"thin", 50, "1,8", "STK500", "ULS"},
		[]interface{}{"", "", "", "", ""},
		[]interface{}{"typo", "fifty", "", "", ""},
	)
}

func TestParseSheet(t *testing.T) {
	f, err := excelize.OpenReader(sample(t))
	require.NoError(t, err)
	defer f.Close()

	rows, err := ParseSheet(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "light", rows[0].Label)
	require.NotNil(t, rows[0].Input.MassTip)
	assert.Equal(t, 10.0, *rows[0].Input.MassTip)
	assert.Nil(t, rows[0].Input.TWall)

	assert.Equal(t, 1.8, *rows[1].Input.TWall)
	assert.Equal(t, "STK500", rows[1].Input.Grade)
	assert.Equal(t, "uls", rows[1].Input.Combination)

	assert.Equal(t, 5, rows[2].Line)
	assert.ErrorContains(t, rows[2].Err, "mass_tip")
}

func TestParseSheet_UnknownColumn(t *testing.T) {
	f, err := excelize.OpenReader(workbook(t, []interface{}{"mass"}, []interface{}{1}))
	require.NoError(t, err)
	defer f.Close()
	_, err = ParseSheet(f)
	assert.ErrorContains(t, err, "mass")
}

func TestRunAndWorkbook(t *testing.T) {
	f, err := excelize.OpenReader(sample(t))
	require.NoError(t, err)
	rows, err := ParseSheet(f)
	require.NoError(t, err)

	res, err := Run(context.Background(), crane.NewHandler(crane.New(), nil, nil), rows)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 1, res.Failed)
	assert.Less(t, res.Results[0].TipDZ, 0.0)
	assert.Equal(t, 355.0, res.Results[1].Yield)
	assert.NotEmpty(t, res.Results[2].Error)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, res))
	out, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer out.Close()
	got, err := out.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "line", got[0][0])
	assert.Equal(t, "thin", got[2][1])
}

func TestHandler(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cranes.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sample(t).Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	h := &Handler{Runner: crane.NewHandler(crane.New(), nil, nil)}
	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Crane(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Count)

	rec = httptest.NewRecorder()
	h.Crane(rec, httptest.NewRequest(http.MethodPost, "/api/import", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
