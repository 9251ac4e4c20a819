package sqlxrepos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/professor"
	"github.com/trezcool/registrar/core/subject"
	"github.com/trezcool/registrar/testutil"
)

func TestSubjectRepository(t *testing.T) {
	repo := NewSubjectRepository(testutil.PrepareDB(t))
	ctx := context.Background()

	now := time.Now()
	s1 := testutil.CreateSubject(t, repo, "álgebra", "ALG1", 1, true, now.Add(-3*time.Hour))
	s2 := testutil.CreateSubject(t, repo, "cálculo", "CAL1", 2, false, now.Add(-2*time.Hour))
	s3 := testutil.CreateSubject(t, repo, "física", "FIS1", 1, true, now.Add(-1*time.Hour))

	ids := func(subjects []subject.Subject) []string {
		out := make([]string, 0, len(subjects))
		for _, s := range subjects {
			out = append(out, s.ID)
		}
		return out
	}

	t.Run("query", func(t *testing.T) {
		tests := []struct {
			name   string
			filter *subject.QueryFilter
			want   []string
		}{
			{name: "newest first", want: []string{s3.ID, s2.ID, s1.ID}},
			{name: "active=false", filter: &subject.QueryFilter{Active: "false"}, want: []string{s2.ID}},
			{name: "period", filter: &subject.QueryFilter{Period: "1"}, want: []string{s3.ID, s1.ID}},
			{name: "period out of range is ignored", filter: &subject.QueryFilter{Period: "12"}, want: []string{s3.ID, s2.ID, s1.ID}},
			{name: "search by key", filter: &subject.QueryFilter{Filter: "key", Search: "cal"}, want: []string{s2.ID}},
			{name: "unknown filter searches by name", filter: &subject.QueryFilter{Filter: "lol", Search: "ísica"}, want: []string{s3.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.filter != nil {
					tt.filter.Clean()
				}
				subjects, err := repo.QuerySubjects(ctx, tt.filter, nil)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids(subjects))
			})
		}
	})

	t.Run("get by ids", func(t *testing.T) {
		subjects, err := repo.GetSubjectsByIDs(ctx, []string{s2.ID, s1.ID, "unknown"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{s1.ID, s2.ID}, ids(subjects))

		subjects, err = repo.GetSubjectsByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, subjects)
	})

	t.Run("optional fields", func(t *testing.T) {
		credits := 8
		var changes core.Changeset
		changes.Set("short_name", "alg", core.SkipIfEmpty)
		changes.Set("credits", &credits, core.SkipIfEmpty)
		s, err := repo.UpdateSubject(ctx, s1.ID, changes)
		require.NoError(t, err)
		assert.Equal(t, "alg", s.ShortName)
		require.NotNil(t, s.Credits)
		assert.Equal(t, 8, *s.Credits)
		assert.Equal(t, "", s.Description)
		assert.Nil(t, s3.Credits)
	})

	t.Run("uniqueness", func(t *testing.T) {
		assert.Equal(t, subject.ErrNameExists, repo.CheckSubjectUniqueness(ctx, "física", "NEW1"))
		assert.Equal(t, subject.ErrKeyExists, repo.CheckSubjectUniqueness(ctx, "química", "FIS1"))
		assert.NoError(t, repo.CheckSubjectUniqueness(ctx, "física", "FIS1", s3))
	})
}

func TestProfessorRepository_rfc(t *testing.T) {
	repo := NewProfessorRepository(testutil.PrepareDB(t))
	ctx := context.Background()

	juan := testutil.CreateProfessor(t, repo, "juan pérez", "PEJU800101AB1", core.ClassificationA, true)
	testutil.CreateProfessor(t, repo, "ana lópez", "", core.ClassificationB, true)

	assert.Equal(t, professor.ErrRFCExists, repo.CheckProfessorUniqueness(ctx, "", "PEJU800101AB1"))

	// an empty RFC is always written, as NULL
	changes := professor.UpdateProfessor{}.Changes()
	p, err := repo.UpdateProfessor(ctx, juan.ID, changes)
	require.NoError(t, err)
	assert.Equal(t, "", p.RFC)
	assert.Equal(t, "juan pérez", p.Name)

	// several professors without RFC
	testutil.CreateProfessor(t, repo, "luis gómez", "", core.ClassificationC, true)

	professors, err := repo.QueryProfessors(ctx, &professor.QueryFilter{Classification: "b"}, nil)
	require.NoError(t, err)
	require.Len(t, professors, 1)
	assert.Equal(t, "ana lópez", professors[0].Name)
}
