package studyplan

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/subject"
)

// Candidate display modes
const (
	ModeAll      = "all"
	ModeSelected = "selected"
)

const allPeriods = "all"

// SubjectFinder is the part of the Subject service the associations need.
type SubjectFinder interface {
	Query(ctx context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error)
	GetByIDs(ctx context.Context, ids []string) ([]subject.Subject, error)
}

// Associations maintains the StudyPlan ↔ Subject relationship and derives its display groupings.
type Associations struct {
	repo     Repository
	subjects SubjectFinder
}

func NewAssociations(repo Repository, subjects SubjectFinder) *Associations {
	return &Associations{repo: repo, subjects: subjects}
}

// ReplaceSubjects overwrites the subject set of a StudyPlan in a single write.
// Duplicate ids are dropped; unknown ids are a validation error. There is no version check: the last write wins.
func (a *Associations) ReplaceSubjects(ctx context.Context, planID string, subjectIDs []string) (StudyPlan, error) {
	ids := Dedupe(subjectIDs)
	if err := a.checkSubjects(ctx, ids); err != nil {
		return StudyPlan{}, err
	}

	changes := core.Changeset{}
	changes.Set("updated_at", nowUTC(), core.AlwaysSet)
	sp, err := a.repo.UpdateStudyPlan(ctx, planID, changes, ids)
	if err != nil {
		return StudyPlan{}, errors.Wrap(err, "replacing study plan subjects")
	}
	return sp, nil
}

func (a *Associations) checkSubjects(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := a.subjects.GetByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "finding subjects")
	}
	if len(found) == len(ids) {
		return nil
	}

	known := make(map[string]bool, len(found))
	for _, s := range found {
		known[s.ID] = true
	}
	unknown := make([]string, 0, len(ids)-len(found))
	for _, id := range ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	return core.NewFieldValidationError("subjects", fmt.Errorf("unknown subjects: %s", strings.Join(unknown, ", ")))
}

// Populate expands the subject references of `sp` to full records, keeping their order and dropping duplicates.
// Archived subjects are kept.
func (a *Associations) Populate(ctx context.Context, sp *StudyPlan) error {
	ids := Dedupe(sp.SubjectIDs)
	found, err := a.subjects.GetByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "populating study plan subjects")
	}

	byID := make(map[string]subject.Subject, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	subjects := make([]subject.Subject, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			subjects = append(subjects, s)
		}
	}
	sp.Subjects = subjects
	return nil
}

// PopulateAll populates every plan of `plans` with a single subject lookup.
func (a *Associations) PopulateAll(ctx context.Context, plans []StudyPlan) error {
	var all []string
	for _, sp := range plans {
		all = append(all, sp.SubjectIDs...)
	}
	found, err := a.subjects.GetByIDs(ctx, Dedupe(all))
	if err != nil {
		return errors.Wrap(err, "populating study plans subjects")
	}

	byID := make(map[string]subject.Subject, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	for i := range plans {
		ids := Dedupe(plans[i].SubjectIDs)
		subjects := make([]subject.Subject, 0, len(ids))
		for _, id := range ids {
			if s, ok := byID[id]; ok {
				subjects = append(subjects, s)
			}
		}
		plans[i].Subjects = subjects
	}
	return nil
}

// Candidates lists the Subjects that can be offered for selection on a StudyPlan.
// `selected` defaults to the plan's current subject set when nil.
func (a *Associations) Candidates(ctx context.Context, sp StudyPlan, cf CandidateFilter) ([]subject.Subject, error) {
	catalog, err := a.subjects.Query(ctx, nil, subject.DefaultOrdering)
	if err != nil {
		return nil, errors.Wrap(err, "querying subject catalog")
	}
	selected := cf.Selected
	if selected == nil {
		selected = sp.SubjectIDs
	}
	return SelectableSubjects(catalog, selected, cf), nil
}

// PeriodBucket groups the subjects of one period of a StudyPlan.
type PeriodBucket struct {
	Period   int               `json:"period"`
	Label    string            `json:"label"`
	Subjects []subject.Subject `json:"subjects"`
}

// PeriodSequence returns 1..max(period) over `subjects`, gaps included; empty when there are no subjects.
func PeriodSequence(subjects []subject.Subject) []int {
	var max int
	for _, s := range subjects {
		if s.Period > max {
			max = s.Period
		}
	}
	periods := make([]int, 0, max)
	for p := 1; p <= max; p++ {
		periods = append(periods, p)
	}
	return periods
}

// Buckets groups the subjects of a populated StudyPlan by period, one bucket per entry of PeriodSequence.
func Buckets(sp StudyPlan) []PeriodBucket {
	periods := PeriodSequence(sp.Subjects)
	buckets := make([]PeriodBucket, 0, len(periods))
	for _, p := range periods {
		bucket := PeriodBucket{
			Period:   p,
			Label:    sp.PeriodDenomination.PeriodLabel(p),
			Subjects: []subject.Subject{},
		}
		for _, s := range sp.Subjects {
			if s.Period == p {
				bucket.Subjects = append(bucket.Subjects, s)
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// CandidateFilter narrows the subject catalog offered for selection.
type CandidateFilter struct {
	Period   string   `query:"period"` // "all" or 1..9
	Search   string   `query:"search"` // matched against name or key
	Mode     string   `query:"mode"`   // "all" or "selected"
	Selected []string `query:"selected"`
}

// Clean normalizes the raw parameters; unknown values fall back to "all".
func (cf *CandidateFilter) Clean() {
	cf.Search = core.CleanString(cf.Search, true /* lower */)
	if cf.PeriodNumber() == 0 {
		cf.Period = allPeriods
	}
	if cf.Mode != ModeSelected {
		cf.Mode = ModeAll
	}
}

// PeriodNumber returns the requested period, 0 meaning all periods.
func (cf CandidateFilter) PeriodNumber() int {
	n, err := strconv.Atoi(strings.TrimSpace(cf.Period))
	if err != nil || n < core.MinPeriod || n > core.MaxPeriod {
		return 0
	}
	return n
}

// SelectableSubjects filters `catalog` for the subject assignment view:
//   - subjects outside the requested period, or not matching the search on name or key, are dropped;
//   - selected subjects are always kept, even when archived;
//   - unselected subjects are dropped when archived or when only selected subjects are displayed.
func SelectableSubjects(catalog []subject.Subject, selected []string, cf CandidateFilter) []subject.Subject {
	isSelected := make(map[string]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
	}
	period := cf.PeriodNumber()
	search := strings.ToLower(strings.TrimSpace(cf.Search))

	candidates := make([]subject.Subject, 0, len(catalog))
	for _, s := range catalog {
		if period != 0 && s.Period != period {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.Key), search) {
			continue
		}
		if !isSelected[s.ID] && (cf.Mode == ModeSelected || !s.Active) {
			continue
		}
		candidates = append(candidates, s)
	}
	return candidates
}

// Dedupe drops repeated and blank ids, keeping the first occurrence.
func Dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
