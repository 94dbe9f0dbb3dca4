package certificate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/internal/metrics"
)

func newTestEngine(exec Executor, resolver DepartmentResolver, heads HeadLookup) *Engine {
	m := metrics.New(prometheus.NewRegistry())
	return NewEngine(nil, exec, resolver, heads, zap.NewNop(), m)
}

func TestGenerate_NoRowsIsNotApplicableForEveryCode(t *testing.T) {
	exec := &fakeExecutor{}
	heads := &fakeHeads{names: map[string]string{"SIS": "Ana López"}}
	engine := newTestEngine(exec, &fakeResolver{}, heads)

	for _, def := range engine.Registry().Definitions() {
		t.Run(string(def.Code), func(t *testing.T) {
			res, err := engine.Generate(context.Background(), Request{
				Code:         def.Code,
				FacultyID:    "F1",
				Period:       Period{Year: 2024},
				DepartmentID: "SIS",
			})
			require.NoError(t, err)
			assert.False(t, res.IsFound())

			raw, err := json.Marshal(res)
			require.NoError(t, err)
			assert.JSONEq(t, "null", string(raw))
		})
	}
	assert.Zero(t, heads.calls, "无佐证记录时不应查询签署人")
}

func TestGenerate_FoundAttachesSignatory(t *testing.T) {
	exec := &fakeExecutor{handle: func(dept, query string, p map[string]any) ([]Row, error) {
		return []Row{{"project_name": "Robótica", "description": "Brazo"}}, nil
	}}
	heads := &fakeHeads{names: map[string]string{"SIS": "Ana López Ruiz"}}
	engine := newTestEngine(exec, &fakeResolver{}, heads)

	res, err := engine.Generate(context.Background(), Request{
		Code: "DOC056", FacultyID: "F1", Period: Period{Year: 2024}, DepartmentID: "SIS",
	})
	require.NoError(t, err)
	require.True(t, res.IsFound())
	assert.Equal(t, "research_projects", res.EvidenceKey)
	require.NotNil(t, res.Signatory)
	assert.Equal(t, "Ana López Ruiz", *res.Signatory)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "SIS", exec.calls[0].dept)
	assert.Equal(t, map[string]any{"ClaveDocente": "F1", "Anio": 2024}, exec.calls[0].params)
}

func TestGenerate_SignatoryKeyPresentWhenHeadMissing(t *testing.T) {
	exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
		return []Row{{"rfc": "XAXX010101000", "budget_key": "E3817"}}, nil
	}}
	engine := newTestEngine(exec, &fakeResolver{}, &fakeHeads{})

	res, err := engine.Generate(context.Background(), Request{
		Code: "DOC055", FacultyID: "F1", Period: Period{Year: 2024}, DepartmentID: "SIS",
	})
	require.NoError(t, err)
	require.True(t, res.IsFound())
	assert.Nil(t, res.Signatory)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	v, ok := body["signatory"]
	assert.True(t, ok, "signatory 字段必须存在")
	assert.Nil(t, v)
	assert.Equal(t, "DOC055", body["code"])
	assert.Len(t, body["service_record"], 1)
}

func TestGenerate_ResolvesDepartment(t *testing.T) {
	exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
		return []Row{{"cvu_status": "VIGENTE"}}, nil
	}}
	resolver := &fakeResolver{departments: map[string]string{"F1": "IND"}}
	engine := newTestEngine(exec, resolver, &fakeHeads{})

	res, err := engine.Generate(context.Background(), Request{Code: "DOC057", FacultyID: "F1", Period: Period{Year: 2024}})
	require.NoError(t, err)
	assert.True(t, res.IsFound())
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, "IND", exec.calls[0].dept)
}

func TestGenerate_UnresolvedDepartment(t *testing.T) {
	exec := &fakeExecutor{}
	m := metrics.New(prometheus.NewRegistry())
	engine := NewEngine(nil, exec, &fakeResolver{}, &fakeHeads{}, zap.NewNop(), m)

	res, err := engine.Generate(context.Background(), Request{Code: "DOC054", FacultyID: "F9", Period: Period{Year: 2024}})
	require.NoError(t, err)
	assert.False(t, res.IsFound())
	assert.Zero(t, exec.callCount(), "部门未知时不应查询部门库")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationOutcome.WithLabelValues("DOC054", metrics.OutcomeUnresolved)))
}

func TestGenerate_ResolverError(t *testing.T) {
	boom := errors.New("core db down")
	engine := newTestEngine(&fakeExecutor{}, &fakeResolver{err: boom}, &fakeHeads{})

	_, err := engine.Generate(context.Background(), Request{Code: "DOC054", FacultyID: "F1", Period: Period{Year: 2024}})
	assert.ErrorIs(t, err, boom)
}

func TestGenerate_ExecutorErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
		return nil, boom
	}}
	heads := &fakeHeads{}
	engine := newTestEngine(exec, &fakeResolver{}, heads)

	for _, code := range []Code{"DOC033", "DOC059", "DOC061", "DOC062"} {
		res, err := engine.Generate(context.Background(), Request{
			Code: code, FacultyID: "F1", Period: Period{Year: 2024}, DepartmentID: "SIS",
		})
		assert.ErrorIsf(t, err, boom, "%s 应返回执行器错误", code)
		assert.False(t, res.IsFound())
	}
	assert.Zero(t, heads.calls)
}

func TestGenerate_HeadLookupError(t *testing.T) {
	boom := errors.New("timeout")
	exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
		return []Row{{"rfc": "X"}}, nil
	}}
	engine := newTestEngine(exec, &fakeResolver{}, &fakeHeads{err: boom})

	_, err := engine.Generate(context.Background(), Request{
		Code: "DOC055", FacultyID: "F1", Period: Period{Year: 2024}, DepartmentID: "SIS",
	})
	assert.ErrorIs(t, err, boom)
}

func TestGenerate_UnknownCode(t *testing.T) {
	engine := newTestEngine(&fakeExecutor{}, &fakeResolver{}, &fakeHeads{})

	_, err := engine.Generate(context.Background(), Request{Code: "DOC999", FacultyID: "F1", Period: Period{Year: 2024}})
	assert.ErrorIs(t, err, ErrUnknownCode)
	assert.True(t, IsUnknownCode(err))
}

func TestGenerate_UnknownCodesShareOneSeries(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	engine := NewEngine(nil, &fakeExecutor{}, &fakeResolver{}, &fakeHeads{}, zap.NewNop(), m)

	for i := 0; i < 200; i++ {
		_, err := engine.Generate(context.Background(), Request{
			Code: Code(fmt.Sprintf("X%d", i)), FacultyID: "F1", Period: Period{Year: 2024},
		})
		require.ErrorIs(t, err, ErrUnknownCode)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.GenerationOutcome))
	assert.Equal(t, 200.0, testutil.ToFloat64(
		m.GenerationOutcome.WithLabelValues(metrics.UnknownCodeLabel, metrics.OutcomeUnknownCode)))
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	exec := &fakeExecutor{}
	engine := newTestEngine(exec, &fakeResolver{}, &fakeHeads{})

	_, err := engine.Generate(context.Background(), Request{
		Code: "DOC061", FacultyID: "F1", Period: Period{Year: 2024, Term: "VERANO"}, DepartmentID: "SIS",
	})
	assert.ErrorIs(t, err, ErrInvalidTerm)
	assert.Zero(t, exec.callCount())
}

// ── 按学期拆分的部门评估 ──

func TestEvaluationsByTerm_PostgraduateOnlyTerm(t *testing.T) {
	// F2 在 2024 年 ENERO-JUNIO 只教 3 门研究生课程，且有评估记录
	exec := &fakeExecutor{handle: teachingHandler(map[Term]teachingLoad{
		TermFirstHalf: {total: 3, postgrad: 3, grade: 95},
	})}
	heads := &fakeHeads{names: map[string]string{"SIS": "Ana López"}}
	engine := newTestEngine(exec, &fakeResolver{}, heads)
	ctx := context.Background()
	period := Period{Year: 2024, Term: TermFirstHalf}

	pg, err := engine.Generate(ctx, Request{Code: "DOC062", FacultyID: "F2", Period: period, DepartmentID: "SIS"})
	require.NoError(t, err)
	require.True(t, pg.IsFound())
	require.Len(t, pg.Evidence, 1)
	assert.Equal(t, "ENERO-JUNIO", pg.Evidence[0]["term"])

	ug, err := engine.Generate(ctx, Request{Code: "DOC061", FacultyID: "F2", Period: period, DepartmentID: "SIS"})
	require.NoError(t, err)
	assert.False(t, ug.IsFound(), "只教研究生课程的学期不应出现在本科评估中")
}

func TestEvaluationsByTerm_MutuallyExclusive(t *testing.T) {
	loads := []map[Term]teachingLoad{
		{TermFirstHalf: {total: 2, postgrad: 2, grade: 90}, TermSecondHalf: {total: 4, postgrad: 1, grade: 88}},
		{TermFirstHalf: {total: 3, postgrad: 0, grade: 70}, TermSecondHalf: {total: 1, postgrad: 1, grade: 99}},
		{TermFirstHalf: {total: 0, postgrad: 0, grade: 80}, TermSecondHalf: {total: 5, postgrad: 5}},
		{},
	}

	for i, load := range loads {
		exec := &fakeExecutor{handle: teachingHandler(load)}
		engine := newTestEngine(exec, &fakeResolver{}, &fakeHeads{})
		ctx := context.Background()
		req := Request{FacultyID: "F2", Period: Period{Year: 2024}, DepartmentID: "SIS"}

		req.Code = "DOC061"
		ug, err := engine.Generate(ctx, req)
		require.NoError(t, err)
		req.Code = "DOC062"
		pg, err := engine.Generate(ctx, req)
		require.NoError(t, err)

		seen := map[any]string{}
		for _, r := range ug.Evidence {
			seen[r["term"]] = "DOC061"
		}
		for _, r := range pg.Evidence {
			if prev, dup := seen[r["term"]]; dup {
				t.Errorf("场景 %d: 学期 %v 同时出现在 %s 与 DOC062", i, r["term"], prev)
			}
		}

		for _, term := range Terms() {
			l := load[term]
			_, inPG := termIndex(pg.Evidence, term)
			_, inUG := termIndex(ug.Evidence, term)
			wantPG := l.grade != nil && PostgraduateOnly(l.total, l.postgrad)
			wantUG := l.grade != nil && !PostgraduateOnly(l.total, l.postgrad)
			assert.Equalf(t, wantPG, inPG, "场景 %d 学期 %s 研究生评估", i, term)
			assert.Equalf(t, wantUG, inUG, "场景 %d 学期 %s 本科评估", i, term)
		}
	}
}

func TestEvaluationsByTerm_KeepsTermOrder(t *testing.T) {
	exec := &fakeExecutor{handle: teachingHandler(map[Term]teachingLoad{
		TermFirstHalf:  {total: 1, grade: 80},
		TermSecondHalf: {total: 2, grade: 85},
	})}
	engine := newTestEngine(exec, &fakeResolver{}, &fakeHeads{})

	res, err := engine.Generate(context.Background(), Request{
		Code: "DOC061", FacultyID: "F1", Period: Period{Year: 2024}, DepartmentID: "SIS",
	})
	require.NoError(t, err)
	require.Len(t, res.Evidence, 2)
	assert.Equal(t, "ENERO-JUNIO", res.Evidence[0]["term"])
	assert.Equal(t, "AGOSTO-DICIEMBRE", res.Evidence[1]["term"])
}

func termIndex(rows []Row, term Term) (int, bool) {
	for i, r := range rows {
		if r["term"] == string(term) {
			return i, true
		}
	}
	return -1, false
}

// ── 整形 ──

func TestShaping_Clearance(t *testing.T) {
	tests := []struct {
		name            string
		total, matching int64
		want            string
	}{
		{"全部良好", 4, 4, StatusCleared},
		{"部分良好", 4, 3, StatusNotCleared},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
				return []Row{{"year": int64(2024), "total": tt.total, "matching": tt.matching}}, nil
			}}
			engine := newTestEngine(exec, &fakeResolver{}, &fakeHeads{})

			res, err := engine.Generate(context.Background(), Request{
				Code: "DOC060", FacultyID: "F1", Period: Period{Year: 2024}, DepartmentID: "SIS",
			})
			require.NoError(t, err)
			require.True(t, res.IsFound())
			assert.Equal(t, tt.want, res.Evidence[0]["status"])
			assert.Equal(t, 2024, res.Evidence[0]["year"])
			assert.NotContains(t, res.Evidence[0], "total")
		})
	}
}

func TestShaping_ClearanceNonNumericCount(t *testing.T) {
	exec := &fakeExecutor{handle: func(string, string, map[string]any) ([]Row, error) {
		return []Row{{"year": int64(2024), "total": "n/a", "matching": int64(1)}}, nil
	}}
	heads := &fakeHeads{names: map[string]string{"SIS": "Ana López"}}
	engine := newTestEngine(exec, &fakeResolver{}, heads)

	res, err := engine.Generate(context.Background(), Request{
		Code: "DOC060", FacultyID: "F1", Period: Period{Year: 2024}, DepartmentID: "SIS",
	})
	assert.ErrorIs(t, err, ErrNonNumeric)
	assert.False(t, res.IsFound())
	assert.Zero(t, heads.calls)
}

func mustShape(t *testing.T, shape ShapeFunc, rows []Row) []Row {
	t.Helper()
	out, err := shape(rows)
	require.NoError(t, err)
	return out
}

func TestShaping_CommitteeAndModules(t *testing.T) {
	assert.Equal(t, []Row{
		{"type": "Evaluación", "organization": "CIEES", "committee": CommitteeEvaluation},
		{"type": "Acreditación", "organization": "CACEI", "committee": CommitteeAccreditation},
	}, mustShape(t, withCommitteeCategory, []Row{
		{"type": "Evaluación", "organization": "CIEES"},
		{"type": "Acreditación", "organization": "CACEI"},
	}))

	assert.Equal(t, []Row{
		{"program_name": "Sistemas", "modules": "Redes, Nube"},
		{"program_name": "Industrial", "modules": "Calidad"},
	}, mustShape(t, groupModulesByProgram, []Row{
		{"program_name": "Sistemas", "module_name": "Redes"},
		{"program_name": "Industrial", "module_name": "Calidad"},
		{"program_name": "Sistemas", "module_name": "Nube"},
	}))
}
