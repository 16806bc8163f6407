package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/lingobot/pkg/models"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, cell))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImport_Excel(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pool := models.NewPool()
	buf := buildWorkbook(t, [][]string{
		{"cão", "chien"},
		{"gato", "chat"},
		{"", "ignored"},
	})

	result, err := Import(buf, "animals.xlsx", Config{Category: "Animals"}, pool, now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	require.Len(t, pool.Items, 2)
	item := pool.Items[0]
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Animals", item.Category)
	assert.Equal(t, "cão", item.TermTarget)
	assert.Equal(t, "chien", item.TermPrimary)
	for _, mode := range models.Modes {
		state := item.ScheduleFor(mode)
		assert.Equal(t, 0, state.Score)
		assert.Equal(t, now, state.NextDueAt)
	}
	// Ids are unique per item.
	assert.NotEqual(t, pool.Items[0].ID, pool.Items[1].ID)
}

func TestImport_SkipsDuplicateTargetTerms(t *testing.T) {
	now := time.Now()
	pool := models.NewPool()
	pool.Add(models.NewVocabularyItem("existing", "Animals", "cão", "chien", now))

	buf := buildWorkbook(t, [][]string{
		{"cão", "hund"},  // exact duplicate, skipped
		{"Cão", "chien"}, // different string, imported
	})

	result, err := Import(buf, "animals.xlsx", Config{Category: "Animals"}, pool, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, pool.Items, 2)
	assert.Equal(t, "chien", pool.ByID("existing").TermPrimary, "existing item untouched")
}

func TestImport_CSV(t *testing.T) {
	now := time.Now()
	pool := models.NewPool()
	csvData := "termo,term\nobrigado,merci\nadeus,au revoir\n"

	result, err := Import(strings.NewReader(csvData), "words.csv", Config{SkipHeader: true}, pool, now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	require.Len(t, pool.Items, 2)
	// No category given: items land in the generic bucket.
	assert.Equal(t, models.DefaultCategory, pool.Items[0].CategoryOrDefault())
	assert.Equal(t, "au revoir", pool.Items[1].TermPrimary)
}

func TestImport_RowErrorsAreCollected(t *testing.T) {
	now := time.Now()
	pool := models.NewPool()
	buf := buildWorkbook(t, [][]string{
		{"cão", "chien"},
		{"sem-traducao"},
	})

	result, err := Import(buf, "words.xlsx", Config{}, pool, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "sem-traducao")
	assert.Len(t, pool.Items, 1)
}

func TestImport_UnreadableFile(t *testing.T) {
	pool := models.NewPool()
	_, err := Import(strings.NewReader("not a workbook"), "words.xlsx", Config{}, pool, time.Now())
	assert.Error(t, err)
	assert.Empty(t, pool.Items)
}
