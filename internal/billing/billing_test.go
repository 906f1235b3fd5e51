package billing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

func TestLedgerOrdersNewestFirst(t *testing.T) {
	students := []model.Student{{ID: "s1", Name: "Alicia"}}
	payments := []model.Payment{
		{ID: "p1", StudentID: "s1", Amount: 80, Date: "2024-06-01"},
		{ID: "p2", StudentID: "s1", Amount: 80, Date: "2024-07-01"},
	}
	got := Ledger(payments, students)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].TransactionID)
	assert.Equal(t, "p1", got[1].TransactionID)
	assert.Equal(t, "p1", payments[0].ID, "input must not be reordered")
}

func TestLedgerSeed(t *testing.T) {
	s, err := state.Seed()
	require.NoError(t, err)
	got := Ledger(s.Payments, s.Students)

	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.TransactionID
	}
	assert.Equal(t, []string{"pay_2", "pay_1", "pay_4", "pay_3", "pay_5"}, ids)
	assert.Equal(t, "Carlos Davis", got[0].StudentName)
	assert.Equal(t, "€35.00", got[0].DisplayAmount)
	assert.Equal(t, "5/7/2024", got[0].DisplayDate)
}

func TestLedgerUnknownStudentAndBadDate(t *testing.T) {
	payments := []model.Payment{
		{ID: "bad", StudentID: "ghost", Amount: 1, Date: "someday"},
		{ID: "a", StudentID: "ghost", Amount: 2, Date: "2024-01-01"},
		{ID: "b", StudentID: "ghost", Amount: 3, Date: "2024-01-01"},
	}
	got := Ledger(payments, nil)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "bad"}, []string{got[0].TransactionID, got[1].TransactionID, got[2].TransactionID})
	assert.Equal(t, UnknownStudent, got[0].StudentName)
	assert.Equal(t, "someday", got[2].DisplayDate)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "€19.00", FormatAmount(19))
	assert.Equal(t, "€0.50", FormatAmount(0.5))
}

func TestExportXLSX(t *testing.T) {
	entries := []Entry{
		{TransactionID: "pay_2", StudentName: "Carlos Davis", Date: "2024-07-05", Amount: 35, Type: "Monthly Membership"},
		{TransactionID: "pay_1", StudentName: "Alicia Johnson", Date: "2024-07-01", Amount: 80, Type: "Monthly Membership"},
	}
	data, err := ExportXLSX(entries)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Student", rows[0][0])
	assert.Equal(t, "Carlos Davis", rows[1][0])
	assert.Equal(t, "pay_1", rows[2][4])

	v, err := f.GetCellValue(SheetName, "C3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "80", v)
}
