// Package domain contains the contract types shared between the ingestion
// pipeline and its consumers. All types are plain values rebuilt on every
// scan; nothing here is cached or mutated after construction.
package domain

import "time"

// StudentRecord is one student's result in one topic.
//
// Marks is nil when the student was absent. Absence propagates through every
// derived field: Percentage and Rank are nil exactly when Marks is nil.
type StudentRecord struct {
	Name     string   `json:"name"`
	Marks    *float64 `json:"marks"`
	Comments string   `json:"comments,omitempty"`

	// Derived fields, populated by the metrics engine.
	Percentage *float64 `json:"percentage"`
	Rank       *int     `json:"rank"`
}

// Absent reports whether the student did not sit this assessment.
func (s StudentRecord) Absent() bool {
	return s.Marks == nil
}

// TopicData is one assessment event within one subject. Students keeps the
// source row order; ranking annotates records in place and never reorders.
type TopicData struct {
	TopicName  string          `json:"topicName"`
	Date       time.Time       `json:"date"`
	TotalMarks float64         `json:"totalMarks"`
	Students   []StudentRecord `json:"students"`

	// Derived fields, computed over non-absent students only.
	ClassAverage        float64  `json:"classAverage"`
	TopperMarks         float64  `json:"topperMarks"`
	ClassAveragePercent *float64 `json:"classAveragePercentage"`
	TopperPercent       *float64 `json:"topperPercentage"`
}

// SubjectData groups the topics parsed from one subject workbook.
type SubjectData struct {
	SubjectName string      `json:"subjectName"`
	ClassName   string      `json:"className"`
	Topics      []TopicData `json:"topics"`
}

// StudentTopicRecord flattens one student's row in one topic together with
// the topic-level context, for the chronological per-student history view.
type StudentTopicRecord struct {
	Name       string   `json:"name"`
	Marks      *float64 `json:"marks"`
	Comments   string   `json:"comments,omitempty"`
	Percentage *float64 `json:"percentage"`
	Rank       *int     `json:"rank"`

	Subject             string    `json:"subject"`
	Class               string    `json:"class"`
	Topic               string    `json:"topic"`
	Date                time.Time `json:"date"`
	TotalMarks          float64   `json:"totalMarks"`
	ClassAverage        float64   `json:"classAverage"`
	TopperMarks         float64   `json:"topperMarks"`
	ClassAveragePercent *float64  `json:"classAveragePercentage"`
	TopperPercent       *float64  `json:"topperPercentage"`
}
