package resume

import (
	"strings"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/nlp"
)

// MergeList returns the union of existing and incoming in first-seen order.
// Entries are trimmed, empties dropped, and entries that differ only by case
// or whitespace collapse into the first one seen. The result is never nil.
func MergeList(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, list := range [2][]string{existing, incoming} {
		for _, s := range list {
			v := strings.TrimSpace(s)
			if v == "" {
				continue
			}
			k := nlp.Key(v)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// MergeWork appends incoming jobs to existing ones, skipping any whose
// (company, jobTitle) pair is already present ignoring case. Entries without
// both a company and a job title are dropped; a blank end date becomes "Present".
func MergeWork(existing, incoming []WorkEntry) []WorkEntry {
	out := make([]WorkEntry, 0, len(existing)+len(incoming))
	seen := make(map[[2]string]struct{}, len(existing)+len(incoming))
	for _, list := range [2][]WorkEntry{existing, incoming} {
		for _, w := range list {
			w = w.normalized()
			if w.Company == "" || w.JobTitle == "" {
				continue
			}
			k := [2]string{nlp.Key(w.Company), nlp.Key(w.JobTitle)}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

func (w WorkEntry) normalized() WorkEntry {
	w.Company = strings.TrimSpace(w.Company)
	w.JobTitle = strings.TrimSpace(w.JobTitle)
	w.Location = strings.TrimSpace(w.Location)
	w.StartDate = strings.TrimSpace(w.StartDate)
	w.EndDate = strings.TrimSpace(w.EndDate)
	if w.EndDate == "" {
		w.EndDate = DefaultEndDate
	}
	duties := make([]string, 0, len(w.Duties))
	for _, d := range w.Duties {
		if d = strings.TrimSpace(d); d != "" {
			duties = append(duties, d)
		}
	}
	w.Duties = duties
	return w
}
