// Package repository assembles the class -> subject -> topic tree from the
// workbook directory layout and answers the student, class, and batch
// queries over it.
//
// There is deliberately no cache: every query re-scans the data directory so
// results always reflect the latest file contents. Concurrent callers each
// get value-isolated results and cannot race.
package repository

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gradepulse/internal/dataprocessing"
	"gradepulse/internal/infrastructure"
	"gradepulse/pkg/contracts/domain"
)

// lockFilePrefix marks the temporary files Excel leaves next to an open
// workbook; they are never valid subjects.
const lockFilePrefix = "~$"

// Repository scans the data directory tree. Each top-level directory is a
// class; each .xlsx inside it is one subject named after the file base name.
type Repository struct {
	dataDir string
	parser  *dataprocessing.Parser
	logger  *slog.Logger
}

// New creates a repository rooted at dataDir. A nil logger falls back to
// slog.Default.
func New(dataDir string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		dataDir: dataDir,
		parser:  dataprocessing.NewParser(logger),
		logger:  logger.With(slog.String("component", "repository")),
	}
}

// ScanAll walks the full directory tree and returns the assembled
// class -> subjects mapping. A missing root is "no data", not an error.
// Individual workbook failures are logged and skipped; the scan always
// returns the best partial result it can assemble.
func (r *Repository) ScanAll(ctx context.Context) (map[string][]domain.SubjectData, error) {
	result := make(map[string][]domain.SubjectData)

	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.DebugContext(ctx, "data directory does not exist, returning empty result",
				slog.String("data_dir", r.dataDir))
			return result, nil
		}
		return nil, err
	}

	infrastructure.ScansTotal.Inc()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		className := entry.Name()
		result[className] = r.scanClass(ctx, className)
	}

	return result, nil
}

// scanClass parses every subject workbook in one class directory.
func (r *Repository) scanClass(ctx context.Context, className string) []domain.SubjectData {
	classDir := filepath.Join(r.dataDir, className)

	entries, err := os.ReadDir(classDir)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to read class directory",
			slog.String("class", className),
			slog.String("error", err.Error()))
		return nil
	}

	subjects := make([]domain.SubjectData, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".xlsx") ||
			strings.HasPrefix(name, lockFilePrefix) {
			continue
		}

		subjectName := strings.TrimSuffix(name, filepath.Ext(name))
		subject, err := r.parser.ParseWorkbook(filepath.Join(classDir, name), className, subjectName)
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to parse subject workbook, skipping",
				slog.String("class", className),
				slog.String("file", name),
				slog.String("error", err.Error()))
			infrastructure.WorkbookFailures.Inc()
			continue
		}
		subjects = append(subjects, *subject)
	}

	return subjects
}

// ClassNames returns the sorted list of class names found in the data
// directory.
func (r *Repository) ClassNames(ctx context.Context) ([]string, error) {
	all, err := r.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ClassSubjects returns the subjects for one class. The second return value
// reports whether the class exists.
func (r *Repository) ClassSubjects(ctx context.Context, className string) ([]domain.SubjectData, bool, error) {
	all, err := r.ScanAll(ctx)
	if err != nil {
		return nil, false, err
	}
	subjects, ok := all[className]
	return subjects, ok, nil
}

// SubjectsFor returns the subjects for one class, optionally filtered to a
// single subject name. An empty filter returns every subject.
func (r *Repository) SubjectsFor(ctx context.Context, className, subjectFilter string) ([]domain.SubjectData, bool, error) {
	subjects, ok, err := r.ClassSubjects(ctx, className)
	if err != nil || !ok || subjectFilter == "" {
		return subjects, ok, err
	}

	filtered := make([]domain.SubjectData, 0, 1)
	for _, s := range subjects {
		if s.SubjectName == subjectFilter {
			filtered = append(filtered, s)
		}
	}
	return filtered, true, nil
}

// StudentHistory flattens every topic in which the named student appears
// into one chronological sequence. Matching is exact name equality, one
// record per topic (the first matching row); students appearing in several
// classes contribute from all of them. Name is the only join key the source
// data offers, so colliding names collide here too.
func (r *Repository) StudentHistory(ctx context.Context, studentName string) ([]domain.StudentTopicRecord, error) {
	all, err := r.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	// Iterate classes in sorted order so equal-date records keep a
	// deterministic relative order.
	classNames := make([]string, 0, len(all))
	for name := range all {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	var history []domain.StudentTopicRecord
	for _, className := range classNames {
		for _, subject := range all[className] {
			for _, topic := range subject.Topics {
				for _, student := range topic.Students {
					if student.Name != studentName {
						continue
					}
					history = append(history, domain.StudentTopicRecord{
						Name:                student.Name,
						Marks:               student.Marks,
						Comments:            student.Comments,
						Percentage:          student.Percentage,
						Rank:                student.Rank,
						Subject:             subject.SubjectName,
						Class:               subject.ClassName,
						Topic:               topic.TopicName,
						Date:                topic.Date,
						TotalMarks:          topic.TotalMarks,
						ClassAverage:        topic.ClassAverage,
						TopperMarks:         topic.TopperMarks,
						ClassAveragePercent: topic.ClassAveragePercent,
						TopperPercent:       topic.TopperPercent,
					})
					break
				}
			}
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	return history, nil
}
