package entity

// PullRequest is an open pull request as returned by the source.
// It is never modified while a report is being built.
type PullRequest struct {
	Number        int
	Title         string
	URL           string
	RepositoryURL string
	Submitter     string
	SubmitterURL  string
	Assignees     []string
	Labels        []string
}

// LabelSet is a set of label names. An empty set excludes nothing.
type LabelSet map[string]struct{}

func NewLabelSet(labels ...string) LabelSet {
	set := make(LabelSet, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		set[l] = struct{}{}
	}
	return set
}

func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Report is the outcome of one pipeline pass. Notice holds a fixed message
// (fetch failure or nothing found) and takes precedence over Lines.
type Report struct {
	Lines  []string
	Notice string
}

func (r Report) Empty() bool {
	return r.Notice == "" && len(r.Lines) == 0
}
