package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/studyplan"
	"github.com/trezcool/registrar/testutil"
)

func TestStudyPlanRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	careers := NewCareerRepository(db)
	subjects := NewSubjectRepository(db)
	repo := NewStudyPlanRepository(db)
	ctx := context.Background()

	ing := testutil.CreateCareer(t, careers, "ingeniería", "ING01", core.LevelUniversidad, true)
	med := testutil.CreateCareer(t, careers, "medicina", "MED01", core.LevelUniversidad, true)
	s1 := testutil.CreateSubject(t, subjects, "álgebra", "ALG1", 1, true)
	s2 := testutil.CreateSubject(t, subjects, "cálculo", "CAL1", 2, true)
	s3 := testutil.CreateSubject(t, subjects, "física", "FIS1", 3, true)

	planA := testutil.CreateStudyPlan(t, repo, ing.ID, "plan a", "PA01", core.PeriodSemester, true, s3.ID, s1.ID)
	planB := testutil.CreateStudyPlan(t, repo, med.ID, "plan b", "PB01", core.PeriodQuarter, false)

	t.Run("subject ids are loaded in position order", func(t *testing.T) {
		sp, err := repo.GetStudyPlan(ctx, planA.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{s3.ID, s1.ID}, sp.SubjectIDs)
		assert.False(t, sp.IsPopulated())

		sp, err = repo.GetStudyPlan(ctx, planB.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{}, sp.SubjectIDs)
	})

	t.Run("query by career & active", func(t *testing.T) {
		tests := []struct {
			name   string
			filter *studyplan.QueryFilter
			want   []string
		}{
			{name: "all", want: []string{planA.ID, planB.ID}},
			{name: "careerId", filter: &studyplan.QueryFilter{CareerID: med.ID}, want: []string{planB.ID}},
			{name: "active=true", filter: &studyplan.QueryFilter{Active: "true"}, want: []string{planA.ID}},
			{name: "active=null", filter: &studyplan.QueryFilter{CareerID: ing.ID, Active: "null"}, want: []string{planA.ID}},
			{name: "search by code", filter: &studyplan.QueryFilter{Filter: "code", Search: "pb"}, want: []string{planB.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.filter != nil {
					tt.filter.Clean()
				}
				plans, err := repo.QueryStudyPlans(ctx, tt.filter, nil)
				require.NoError(t, err)
				ids := make([]string, 0, len(plans))
				for _, sp := range plans {
					ids = append(ids, sp.ID)
					assert.NotNil(t, sp.SubjectIDs)
				}
				assert.Equal(t, tt.want, ids)
			})
		}
	})

	t.Run("update replaces the subject set in the same write", func(t *testing.T) {
		var changes core.Changeset
		changes.Set("name", "plan a2", core.SkipIfEmpty)
		sp, err := repo.UpdateStudyPlan(ctx, planA.ID, changes, []string{s2.ID})
		require.NoError(t, err)
		assert.Equal(t, "plan a2", sp.Name)
		assert.Equal(t, []string{s2.ID}, sp.SubjectIDs)
	})

	t.Run("nil subject ids keep the set", func(t *testing.T) {
		var changes core.Changeset
		changes.Set("active", false, core.SkipIfEmpty)
		sp, err := repo.UpdateStudyPlan(ctx, planA.ID, changes, nil)
		require.NoError(t, err)
		assert.False(t, sp.Active)
		assert.Equal(t, []string{s2.ID}, sp.SubjectIDs)
	})

	t.Run("empty subject ids clear the set", func(t *testing.T) {
		sp, err := repo.UpdateStudyPlan(ctx, planA.ID, core.Changeset{}, []string{})
		require.NoError(t, err)
		assert.Equal(t, []string{}, sp.SubjectIDs)
	})

	t.Run("failed replacement is rolled back", func(t *testing.T) {
		_, err := repo.UpdateStudyPlan(ctx, planB.ID, core.Changeset{}, []string{s1.ID, "8b0c7d5e-8e4f-4a57-9b7e-3f2f8f0a9a11"})
		require.Error(t, err)

		sp, err := repo.GetStudyPlan(ctx, planB.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{}, sp.SubjectIDs)
	})

	t.Run("uniqueness", func(t *testing.T) {
		assert.Equal(t, studyplan.ErrNameExists, repo.CheckStudyPlanUniqueness(ctx, "plan b", "PX01"))
		assert.Equal(t, studyplan.ErrCodeExists, repo.CheckStudyPlanUniqueness(ctx, "plan x", "PB01"))
		assert.NoError(t, repo.CheckStudyPlanUniqueness(ctx, "plan b", "PB01", planB))
	})

	t.Run("missing plan", func(t *testing.T) {
		_, err := repo.UpdateStudyPlan(ctx, "8b0c7d5e-8e4f-4a57-9b7e-3f2f8f0a9a11", core.Changeset{}, []string{})
		assert.Equal(t, studyplan.ErrNotFound, err)
	})
}
