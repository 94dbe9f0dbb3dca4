package certificate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgraduateOnly(t *testing.T) {
	tests := []struct {
		name            string
		total, postgrad int
		want            bool
	}{
		{"全部为研究生课程", 3, 3, true},
		{"本学期无任课", 0, 0, false},
		{"含本科课程", 3, 2, false},
		{"只有一门研究生课程", 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostgraduateOnly(tt.total, tt.postgrad))
		})
	}
}

func TestIsPostgraduateOnly_NoAssignmentsSkipsSecondQuery(t *testing.T) {
	exec := &fakeExecutor{handle: teachingHandler(map[Term]teachingLoad{})}

	ok, err := IsPostgraduateOnly(context.Background(), exec, "SIS", "F2", 2024, TermFirstHalf)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, exec.callCount(), "任课总数为 0 时不应再查询研究生课程数")
}

func TestIsPostgraduateOnly_BindsParameters(t *testing.T) {
	exec := &fakeExecutor{handle: teachingHandler(map[Term]teachingLoad{
		TermFirstHalf: {total: 3, postgrad: 3},
	})}

	ok, err := IsPostgraduateOnly(context.Background(), exec, "SIS", "F2", 2024, TermFirstHalf)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, exec.calls, 2)
	for _, c := range exec.calls {
		assert.Equal(t, "SIS", c.dept)
		assert.Equal(t, map[string]any{"ClaveDocente": "F2", "Anio": 2024, "Semestre": "ENERO-JUNIO"}, c.params)
		assert.NotContains(t, c.query, "F2", "参数不应拼接进 SQL")
	}
}

func TestIsPostgraduateOnly_PropagatesError(t *testing.T) {
	boom := errors.New("connection refused")
	exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
		return nil, boom
	}}

	_, err := IsPostgraduateOnly(context.Background(), exec, "SIS", "F2", 2024, TermFirstHalf)
	assert.ErrorIs(t, err, boom)
}

func TestCleared_AllOrNothing(t *testing.T) {
	for k := 0; k <= 6; k++ {
		for j := 0; j <= k; j++ {
			want := j == k && k > 0
			assert.Equalf(t, want, Cleared(j, k), "Cleared(%d, %d)", j, k)

			label := ClearanceLabel(j, k)
			if want {
				assert.Equal(t, StatusCleared, label)
			} else {
				assert.Equal(t, StatusNotCleared, label)
			}
		}
	}
	assert.Zero(t, ClearanceRatio(0, 0))
	assert.InDelta(t, 0.75, ClearanceRatio(3, 4), 1e-9)
}

func TestCommitteeCategory(t *testing.T) {
	assert.Equal(t, CommitteeEvaluation, CommitteeCategory("Comité de evaluación CIEES"))
	assert.Equal(t, CommitteeEvaluation, CommitteeCategory("EVALUACION de pares"))
	assert.Equal(t, CommitteeAccreditation, CommitteeCategory("Acreditación CACEI"))
	assert.Equal(t, CommitteeAccreditation, CommitteeCategory(""))
}

func TestToInt(t *testing.T) {
	for _, v := range []any{int64(7), int32(7), 7, 7.0, []byte("7"), " 7 "} {
		n, err := toInt(v)
		require.NoErrorf(t, err, "%T", v)
		assert.Equalf(t, 7, n, "%T", v)
	}

	n, err := toInt(nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, v := range []any{"3 materias", []byte(""), true} {
		_, err := toInt(v)
		assert.ErrorIsf(t, err, ErrNonNumeric, "%v", v)
	}
}

func TestIsPostgraduateOnly_NonNumericCount(t *testing.T) {
	exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
		return []Row{{"total": "tres"}}, nil
	}}

	_, err := IsPostgraduateOnly(context.Background(), exec, "SIS", "F2", 2024, TermFirstHalf)
	assert.ErrorIs(t, err, ErrNonNumeric)
}
