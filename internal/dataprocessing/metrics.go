package dataprocessing

import (
	"math"
	"sort"

	"gradepulse/pkg/contracts/domain"
)

// Percentage computes marks/totalMarks as a percentage rounded to one
// decimal. Absent marks and a zero denominator both yield the absent marker.
func Percentage(marks *float64, totalMarks float64) *float64 {
	if marks == nil || totalMarks == 0 {
		return nil
	}
	v := round1(*marks / totalMarks * 100)
	return &v
}

// ClassAverage is the mean of non-absent marks rounded to one decimal, or 0
// when every student is absent.
func ClassAverage(students []domain.StudentRecord) float64 {
	var sum float64
	var count int
	for _, s := range students {
		if s.Marks != nil {
			sum += *s.Marks
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return round1(sum / float64(count))
}

// TopperMarks is the highest non-absent mark, or 0 when every student is
// absent.
func TopperMarks(students []domain.StudentRecord) float64 {
	var top float64
	var found bool
	for _, s := range students {
		if s.Marks != nil && (!found || *s.Marks > top) {
			top = *s.Marks
			found = true
		}
	}
	if !found {
		return 0
	}
	return top
}

// assignRanks annotates students with standard competition ranks (1-2-2-4):
// equal marks share a rank and ties consume rank numbers. Absent students
// get a nil rank and neither occupy a slot nor affect ties. The slice order
// is never changed; ranking sorts indices internally.
func assignRanks(students []domain.StudentRecord) {
	var ranked []int
	for i := range students {
		students[i].Rank = nil
		if students[i].Marks != nil {
			ranked = append(ranked, i)
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return *students[ranked[a]].Marks > *students[ranked[b]].Marks
	})

	rank := 0
	for pos, idx := range ranked {
		if pos == 0 || *students[idx].Marks != *students[ranked[pos-1]].Marks {
			rank = pos + 1
		}
		r := rank
		students[idx].Rank = &r
	}
}

// ProcessTopic is the single enrichment entry point: it computes each
// student's percentage, assigns ranks over the enriched list, then attaches
// the topic-level aggregates. Callers never invoke the sub-metrics
// separately.
func ProcessTopic(topic *domain.TopicData) {
	for i := range topic.Students {
		topic.Students[i].Percentage = Percentage(topic.Students[i].Marks, topic.TotalMarks)
	}

	assignRanks(topic.Students)

	topic.ClassAverage = ClassAverage(topic.Students)
	topic.TopperMarks = TopperMarks(topic.Students)

	avg, top := topic.ClassAverage, topic.TopperMarks
	topic.ClassAveragePercent = Percentage(&avg, topic.TotalMarks)
	topic.TopperPercent = Percentage(&top, topic.TotalMarks)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
