package assessment

// Direction tells how a total score relates to wellbeing.
type Direction string

const (
	// HigherIsWorse is used by symptom scales (GAD-7, PHQ-9, stress).
	// Bands carry inclusive upper bounds in ascending order.
	HigherIsWorse Direction = "higher-is-worse"

	// HigherIsBetter is used by wellbeing-style scales.
	// Bands carry inclusive lower bounds in descending order.
	HigherIsBetter Direction = "higher-is-better"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == HigherIsWorse || d == HigherIsBetter
}

// Option is one mutually exclusive answer to a question.
type Option struct {
	Value int    `yaml:"value" json:"value"`
	Text  string `yaml:"text" json:"text"`
}

// Alert marks a critical item. When the chosen value reaches MinValue the
// message is surfaced with the result regardless of the total score.
type Alert struct {
	MinValue int    `yaml:"min_value" json:"min_value"`
	Message  string `yaml:"message" json:"message"`
}

// Question is one prompt within an assessment.
type Question struct {
	ID      int      `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`
	Alert   *Alert   `yaml:"alert,omitempty" json:"alert,omitempty"`
}

// MaxValue returns the highest option value of the question.
func (q Question) MaxValue() int {
	max := 0
	for _, o := range q.Options {
		if o.Value > max {
			max = o.Value
		}
	}
	return max
}

// MinValue returns the lowest option value of the question.
func (q Question) MinValue() int {
	if len(q.Options) == 0 {
		return 0
	}
	min := q.Options[0].Value
	for _, o := range q.Options[1:] {
		if o.Value < min {
			min = o.Value
		}
	}
	return min
}

// HasValue reports whether v is one of the question's option values.
func (q Question) HasValue(v int) bool {
	for _, o := range q.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// OptionIndex returns the position of the option with value v, or -1.
func (q Question) OptionIndex(v int) int {
	for i, o := range q.Options {
		if o.Value == v {
			return i
		}
	}
	return -1
}

// Band is one interpretation range of the total score.
// Exactly one of Max or Min is set, depending on the scoring direction;
// the last band of a table has neither and catches everything else.
type Band struct {
	Level          string `yaml:"level" json:"level"`
	Label          string `yaml:"label" json:"label"`
	Max            *int   `yaml:"max,omitempty" json:"max,omitempty"`
	Min            *int   `yaml:"min,omitempty" json:"min,omitempty"`
	Description    string `yaml:"description" json:"description"`
	Recommendation string `yaml:"recommendation" json:"recommendation"`
}

// CatchAll reports whether the band has no bound.
func (b Band) CatchAll() bool {
	return b.Max == nil && b.Min == nil
}

// Contains reports whether total falls into the band on its own terms.
// Band order is what makes a table non-overlapping, see scoring.BandFor.
func (b Band) Contains(total int) bool {
	switch {
	case b.Max != nil:
		return total <= *b.Max
	case b.Min != nil:
		return total >= *b.Min
	default:
		return true
	}
}

// Scoring configures how totals are interpreted.
type Scoring struct {
	Direction Direction `yaml:"direction" json:"direction"`
	Bands     []Band    `yaml:"bands" json:"bands"`
}

// Assessment is a named, ordered instrument.
type Assessment struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Version     string     `yaml:"version" json:"version"`
	Order       int        `yaml:"order" json:"order"`
	MaxScore    int        `yaml:"max_score" json:"max_score"`
	RecheckDays int        `yaml:"recheck_days" json:"recheck_days"`
	Questions   []Question `yaml:"questions" json:"questions"`
	Scoring     Scoring    `yaml:"scoring" json:"scoring"`
}

// Question returns the question with the given id.
func (a Assessment) Question(id int) (Question, bool) {
	for _, q := range a.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// ComputedMaxScore sums the highest option value of every question.
func (a Assessment) ComputedMaxScore() int {
	total := 0
	for _, q := range a.Questions {
		total += q.MaxValue()
	}
	return total
}

// MinScore sums the lowest option value of every question.
func (a Assessment) MinScore() int {
	total := 0
	for _, q := range a.Questions {
		total += q.MinValue()
	}
	return total
}

// clone returns a deep copy so callers cannot mutate catalog state.
func (a Assessment) clone() Assessment {
	out := a
	out.Questions = make([]Question, len(a.Questions))
	for i, q := range a.Questions {
		cq := q
		cq.Options = append([]Option(nil), q.Options...)
		if q.Alert != nil {
			al := *q.Alert
			cq.Alert = &al
		}
		out.Questions[i] = cq
	}
	out.Scoring.Bands = make([]Band, len(a.Scoring.Bands))
	for i, b := range a.Scoring.Bands {
		cb := b
		if b.Max != nil {
			v := *b.Max
			cb.Max = &v
		}
		if b.Min != nil {
			v := *b.Min
			cb.Min = &v
		}
		out.Scoring.Bands[i] = cb
	}
	return out
}

// AnswerSet maps question id to the chosen option value.
type AnswerSet map[int]int

// Clone returns an independent copy of the answer set.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Total sums all answer values.
func (s AnswerSet) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}
