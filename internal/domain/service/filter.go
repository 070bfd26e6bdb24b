package service

import "github.com/diegoclair/pr-police/internal/domain/entity"

// FilterItems drops every pull request carrying at least one excluded label.
// Surviving items keep their input order.
func FilterItems(items []entity.PullRequest, exclude entity.LabelSet) []entity.PullRequest {
	if len(exclude) == 0 {
		return items
	}

	kept := make([]entity.PullRequest, 0, len(items))
	for _, item := range items {
		if !hasExcludedLabel(item, exclude) {
			kept = append(kept, item)
		}
	}
	return kept
}

func hasExcludedLabel(item entity.PullRequest, exclude entity.LabelSet) bool {
	for _, label := range item.Labels {
		if exclude.Has(label) {
			return true
		}
	}
	return false
}
