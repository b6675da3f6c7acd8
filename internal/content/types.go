package content

// TopicContent is the structured document generated for one topic. It is
// produced wholesale by a Generator and never mutated afterwards.
type TopicContent struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Facts   []string `json:"facts"`
	Stats   []Stat   `json:"stats"`
	QAndA   []QA     `json:"qAndA"`
}

// Stat is one labelled data point for the chart, valued between 1 and 100.
type Stat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// QA is a question with its answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Requested cardinalities; the model is asked for these but they are not enforced.
const (
	WantFacts = 5
	WantStats = 4
	WantQAndA = 3
)
