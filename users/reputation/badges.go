// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package reputation

// Badge levels.
const (
	Bronze = "BRONZE"
	Silver = "SILVER"
	Gold   = "GOLD"
)

// Criterion names a statistic that earns badges.
type Criterion string

const (
	QuestionCount   Criterion = "QUESTION_COUNT"
	AnswerCount     Criterion = "ANSWER_COUNT"
	QuestionUpvotes Criterion = "QUESTION_UPVOTES"
	AnswerUpvotes   Criterion = "ANSWER_UPVOTES"
	TotalViews      Criterion = "TOTAL_VIEWS"
)

// Thresholds are the minimum values for bronze, silver and gold.
type Thresholds struct {
	Bronze int64
	Silver int64
	Gold   int64
}

// BadgeCriteria maps every criterion to its thresholds.
var BadgeCriteria = map[Criterion]Thresholds{
	QuestionCount:   {Bronze: 10, Silver: 50, Gold: 100},
	AnswerCount:     {Bronze: 10, Silver: 50, Gold: 100},
	QuestionUpvotes: {Bronze: 10, Silver: 50, Gold: 100},
	AnswerUpvotes:   {Bronze: 10, Silver: 50, Gold: 100},
	TotalViews:      {Bronze: 1000, Silver: 10000, Gold: 100000},
}

// BadgeCounts is how many badges of each level a user holds.
type BadgeCounts struct {
	Gold   int `json:"GOLD"`
	Silver int `json:"SILVER"`
	Bronze int `json:"BRONZE"`
}

// AssignBadges counts, for every criterion, each level whose threshold the value reaches.
// A value of 120 questions therefore earns a bronze, a silver and a gold badge.
func AssignBadges(values map[Criterion]int64) BadgeCounts {
	var counts BadgeCounts
	for criterion, value := range values {
		t, ok := BadgeCriteria[criterion]
		if !ok {
			continue
		}
		if value >= t.Bronze {
			counts.Bronze++
		}
		if value >= t.Silver {
			counts.Silver++
		}
		if value >= t.Gold {
			counts.Gold++
		}
	}
	return counts
}
