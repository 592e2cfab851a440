package models

// HeuristicResult is the verdict of a single heuristic over a job.
type HeuristicResult struct {
	Name     string
	Severity Severity
	Details  []HeuristicDetail
}

// HeuristicDetail is one labelled diagnostic value. Order is significant.
type HeuristicDetail struct {
	Name  string
	Value string
}

// NewHeuristicResult starts a result with no details.
func NewHeuristicResult(name string, severity Severity) HeuristicResult {
	return HeuristicResult{Name: name, Severity: severity}
}

// AddDetail appends a labelled value, preserving insertion order.
func (r *HeuristicResult) AddDetail(name, value string) {
	r.Details = append(r.Details, HeuristicDetail{Name: name, Value: value})
}

// Detail returns the value recorded under name.
func (r HeuristicResult) Detail(name string) (string, bool) {
	for _, d := range r.Details {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}
