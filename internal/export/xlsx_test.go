package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/userTI10/Dashboard-admissao/internal/export"
	"github.com/userTI10/Dashboard-admissao/internal/process"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWorkbook_Rows(t *testing.T) {
	records := []process.FlatRecord{
		{SolicitationID: "SOL-1", Title: "Analista", Requester: "Acme", VacancyType: "CLT", CompanyName: "Acme Ltda", VacancyCount: 2},
		{SolicitationID: "SOL-2", Title: "Dev", Requester: "Beta", VacancyType: "PJ", CompanyName: "Beta SA", VacancyCount: 5},
	}

	data, err := export.Workbook(records, "Abertos")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Abertos"}, f.GetSheetList())

	rows, err := f.GetRows("Abertos")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Solicitação", "Título", "Solicitante", "Tipo de Vaga", "Razão Social", "Vagas"}, rows[0])
	assert.Equal(t, []string{"SOL-1", "Analista", "Acme", "CLT", "Acme Ltda", "2"}, rows[1])
	assert.Equal(t, []string{"SOL-2", "Dev", "Beta", "PJ", "Beta SA", "5"}, rows[2])
}

func TestWorkbook_VacancyIsNumeric(t *testing.T) {
	data, err := export.Workbook([]process.FlatRecord{{SolicitationID: "1", VacancyCount: 7}}, "Cancelados")
	require.NoError(t, err)

	f := openWorkbook(t, data)
	cellType, err := f.GetCellType("Cancelados", "F2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)

	value, err := f.GetCellValue("Cancelados", "F2")
	require.NoError(t, err)
	assert.Equal(t, "7", value)
}

func TestWorkbook_NoRecords(t *testing.T) {
	data, err := export.Workbook(nil, "Abertos")
	assert.ErrorIs(t, err, export.ErrNoRecords)
	assert.Nil(t, data)

	var buf bytes.Buffer
	assert.ErrorIs(t, export.Write(&buf, []process.FlatRecord{}, "Abertos"), export.ErrNoRecords)
	assert.Zero(t, buf.Len())
}

func TestWorkbook_InvalidSheetName(t *testing.T) {
	_, err := export.Workbook([]process.FlatRecord{{SolicitationID: "1"}}, "bad/name")
	assert.Error(t, err)
}
