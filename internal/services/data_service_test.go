package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gradepulse/internal/repository"
)

func seedDataService(t *testing.T) *DataService {
	t.Helper()

	root := t.TempDir()
	classDir := filepath.Join(root, "Class_XI")
	require.NoError(t, os.MkdirAll(classDir, 0o755))

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "Algebra"))
	rows := [][]interface{}{
		{"Date", "2024-01-05", "Total Marks", 100},
		{"Name", "Marks", "Comments"},
		{"Amit", 90, ""},
		{"Sita", 80, ""},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Algebra", cell, &rows[i]))
	}
	require.NoError(t, f.SaveAs(filepath.Join(classDir, "Maths.xlsx")))

	return NewDataService(repository.New(root, slog.Default()), slog.Default())
}

func TestDataService_Classes(t *testing.T) {
	svc := seedDataService(t)

	classes, err := svc.Classes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Class_XI"}, classes)
}

func TestDataService_SubjectNames(t *testing.T) {
	svc := seedDataService(t)
	ctx := context.Background()

	names, err := svc.SubjectNames(ctx, "Class_XI")
	require.NoError(t, err)
	assert.Equal(t, []string{"Maths"}, names)

	_, err = svc.SubjectNames(ctx, "Class_XII")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestDataService_BatchView(t *testing.T) {
	svc := seedDataService(t)
	ctx := context.Background()

	subjects, err := svc.BatchView(ctx, "Class_XI", "")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Len(t, subjects[0].Topics, 1)

	// Filtering to an unknown subject yields an empty, non-nil slice.
	subjects, err = svc.BatchView(ctx, "Class_XI", "History")
	require.NoError(t, err)
	assert.NotNil(t, subjects)
	assert.Empty(t, subjects)

	_, err = svc.BatchView(ctx, "Class_XII", "")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestDataService_StudentView(t *testing.T) {
	svc := seedDataService(t)

	history, err := svc.StudentView(context.Background(), "Amit")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Maths", history[0].Subject)

	// Unknown students get an empty history, not an error.
	history, err = svc.StudentView(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
