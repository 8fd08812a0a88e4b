package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradepulse/pkg/contracts/domain"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name       string
		marks      *float64
		totalMarks float64
		want       *float64
	}{
		{name: "exact", marks: ptr(90), totalMarks: 100, want: ptr(90.0)},
		{name: "rounds to one decimal", marks: ptr(33), totalMarks: 90, want: ptr(36.7)},
		{name: "absent marks stay absent", marks: nil, totalMarks: 100, want: nil},
		{name: "zero denominator is absent", marks: ptr(50), totalMarks: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.marks, tt.totalMarks)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func students(marks ...*float64) []domain.StudentRecord {
	out := make([]domain.StudentRecord, len(marks))
	for i, m := range marks {
		out[i] = domain.StudentRecord{Name: string(rune('A' + i)), Marks: m}
	}
	return out
}

func ranks(list []domain.StudentRecord) []*int {
	out := make([]*int, len(list))
	for i := range list {
		out[i] = list[i].Rank
	}
	return out
}

func TestAssignRanks_Ties(t *testing.T) {
	// Standard competition ranking: 90, 90, 80 -> 1, 1, 3, not 1, 1, 2.
	list := students(ptr(90), ptr(90), ptr(80))
	assignRanks(list)

	got := ranks(list)
	require.NotNil(t, got[0])
	require.NotNil(t, got[1])
	require.NotNil(t, got[2])
	assert.Equal(t, 1, *got[0])
	assert.Equal(t, 1, *got[1])
	assert.Equal(t, 3, *got[2])
}

func TestAssignRanks_AbsentExcluded(t *testing.T) {
	// An absent student takes no rank slot and does not shift the others.
	list := students(ptr(90), nil, ptr(80))
	assignRanks(list)

	got := ranks(list)
	require.NotNil(t, got[0])
	assert.Equal(t, 1, *got[0])
	assert.Nil(t, got[1])
	require.NotNil(t, got[2])
	assert.Equal(t, 2, *got[2])
}

func TestAssignRanks_PreservesOrder(t *testing.T) {
	list := students(ptr(60), ptr(95), ptr(80))
	assignRanks(list)

	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, "B", list[1].Name)
	assert.Equal(t, "C", list[2].Name)
	assert.Equal(t, 3, *list[0].Rank)
	assert.Equal(t, 1, *list[1].Rank)
	assert.Equal(t, 2, *list[2].Rank)
}

func TestAssignRanks_Idempotent(t *testing.T) {
	list := students(ptr(90), ptr(90), nil, ptr(80), ptr(70))
	assignRanks(list)
	first := make([]*int, len(list))
	for i := range list {
		if list[i].Rank != nil {
			r := *list[i].Rank
			first[i] = &r
		}
	}

	assignRanks(list)
	for i := range list {
		if first[i] == nil {
			assert.Nil(t, list[i].Rank)
			continue
		}
		require.NotNil(t, list[i].Rank)
		assert.Equal(t, *first[i], *list[i].Rank)
	}
}

func TestClassAverage(t *testing.T) {
	tests := []struct {
		name string
		list []domain.StudentRecord
		want float64
	}{
		{name: "ignores absent", list: students(ptr(80), nil, ptr(60)), want: 70.0},
		{name: "rounds to one decimal", list: students(ptr(80), ptr(81), ptr(85)), want: 82.0},
		{name: "all absent is zero", list: students(nil, nil), want: 0},
		{name: "empty is zero", list: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ClassAverage(tt.list), 1e-9)
		})
	}
}

func TestTopperMarks(t *testing.T) {
	tests := []struct {
		name string
		list []domain.StudentRecord
		want float64
	}{
		{name: "ignores absent", list: students(ptr(80), nil, ptr(60)), want: 80},
		{name: "all absent is zero", list: students(nil), want: 0},
		{name: "empty is zero", list: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TopperMarks(tt.list), 1e-9)
		})
	}
}

func TestProcessTopic(t *testing.T) {
	topic := &domain.TopicData{
		TopicName:  "Algebra",
		TotalMarks: 100,
		Students: []domain.StudentRecord{
			{Name: "Amit", Marks: ptr(90)},
			{Name: "Rahul", Marks: nil},
			{Name: "Sita", Marks: ptr(90)},
		},
	}

	ProcessTopic(topic)

	assert.InDelta(t, 90.0, topic.ClassAverage, 1e-9)
	assert.InDelta(t, 90.0, topic.TopperMarks, 1e-9)
	require.NotNil(t, topic.ClassAveragePercent)
	assert.InDelta(t, 90.0, *topic.ClassAveragePercent, 1e-9)
	require.NotNil(t, topic.TopperPercent)
	assert.InDelta(t, 90.0, *topic.TopperPercent, 1e-9)

	amit, rahul, sita := topic.Students[0], topic.Students[1], topic.Students[2]

	require.NotNil(t, amit.Percentage)
	assert.InDelta(t, 90.0, *amit.Percentage, 1e-9)
	require.NotNil(t, amit.Rank)
	assert.Equal(t, 1, *amit.Rank)

	// Absence propagates through every derived field.
	assert.Nil(t, rahul.Percentage)
	assert.Nil(t, rahul.Rank)

	require.NotNil(t, sita.Rank)
	assert.Equal(t, 1, *sita.Rank)
}

func TestProcessTopic_ZeroTotalMarks(t *testing.T) {
	topic := &domain.TopicData{
		TopicName:  "Quiz",
		TotalMarks: 0,
		Students:   []domain.StudentRecord{{Name: "Amit", Marks: ptr(10)}},
	}

	ProcessTopic(topic)

	assert.Nil(t, topic.Students[0].Percentage)
	assert.Nil(t, topic.ClassAveragePercent)
	assert.Nil(t, topic.TopperPercent)
	// Marks-based aggregates are still computed.
	assert.InDelta(t, 10.0, topic.ClassAverage, 1e-9)
	require.NotNil(t, topic.Students[0].Rank)
	assert.Equal(t, 1, *topic.Students[0].Rank)
}
