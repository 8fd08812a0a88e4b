// Package services sits between the transport layer and the pipeline. It
// owns the query-level sentinel errors and keeps handlers free of repository
// and roster details.
package services

import (
	"context"
	"errors"
	"log/slog"

	"gradepulse/internal/repository"
	"gradepulse/pkg/contracts/domain"
)

// ErrClassNotFound reports a batch or subject query for a class that does
// not exist in the data directory.
var ErrClassNotFound = errors.New("class not found")

// DataService answers the three query shapes over the repository: class
// list and subjects, batch views, and per-student history. Every call
// re-scans the workbook tree; freshness is traded for re-parse cost by
// design.
type DataService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewDataService creates a data service. A nil logger falls back to
// slog.Default.
func NewDataService(repo *repository.Repository, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		repo:   repo,
		logger: logger.With(slog.String("service", "data")),
	}
}

// Classes returns the sorted class names.
func (s *DataService) Classes(ctx context.Context) ([]string, error) {
	return s.repo.ClassNames(ctx)
}

// SubjectNames returns the subject names for one class.
func (s *DataService) SubjectNames(ctx context.Context, className string) ([]string, error) {
	subjects, ok, err := s.repo.ClassSubjects(ctx, className)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClassNotFound
	}

	names := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		names = append(names, subject.SubjectName)
	}
	return names, nil
}

// BatchView returns the enriched subjects for one class, optionally
// filtered to a single subject.
func (s *DataService) BatchView(ctx context.Context, className, subjectFilter string) ([]domain.SubjectData, error) {
	subjects, ok, err := s.repo.SubjectsFor(ctx, className, subjectFilter)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClassNotFound
	}
	if subjects == nil {
		subjects = []domain.SubjectData{}
	}

	s.logger.InfoContext(ctx, "batch view assembled",
		slog.String("class", className),
		slog.String("subject_filter", subjectFilter),
		slog.Int("subjects", len(subjects)))
	return subjects, nil
}

// StudentView returns the flat chronological history for one student. An
// unknown name yields an empty history, not an error: absence of data is a
// valid answer here.
func (s *DataService) StudentView(ctx context.Context, studentName string) ([]domain.StudentTopicRecord, error) {
	history, err := s.repo.StudentHistory(ctx, studentName)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.StudentTopicRecord{}
	}

	s.logger.InfoContext(ctx, "student view assembled",
		slog.String("student", studentName),
		slog.Int("records", len(history)))
	return history, nil
}
