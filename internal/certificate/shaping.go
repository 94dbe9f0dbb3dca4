package certificate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// withCommitteeCategory 为每条委员会记录追加类别（评估 / 认证）
func withCommitteeCategory(rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		shaped := make(Row, len(r)+1)
		for k, v := range r {
			shaped[k] = v
		}
		shaped["committee"] = CommitteeCategory(toString(r["type"]))
		out = append(out, shaped)
	}
	return out, nil
}

// groupModulesByProgram 按培养方案合并模块名称，保持查询返回的先后顺序
func groupModulesByProgram(rows []Row) ([]Row, error) {
	var order []string
	modules := make(map[string][]string)
	for _, r := range rows {
		program := toString(r["program_name"])
		if _, seen := modules[program]; !seen {
			order = append(order, program)
			modules[program] = nil
		}
		if name := toString(r["module_name"]); name != "" {
			modules[program] = append(modules[program], name)
		}
	}

	out := make([]Row, 0, len(order))
	for _, program := range order {
		out = append(out, Row{
			"program_name": program,
			"modules":      strings.Join(modules[program], ", "),
		})
	}
	return out, nil
}

// withClearance 将分组计数转为达标状态；total/matching 计数列不对外输出
func withClearance(rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		var total, matching, year int
		for _, f := range []struct {
			col string
			dst *int
		}{{"total", &total}, {"matching", &matching}, {"year", &year}} {
			n, err := toInt(r[f.col])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.col, err)
			}
			*f.dst = n
		}
		shaped := Row{
			"year":   year,
			"status": ClearanceLabel(matching, total),
			"ratio":  ClearanceRatio(matching, total),
		}
		if term, ok := r["term"]; ok {
			shaped["term"] = toString(term)
		}
		out = append(out, shaped)
	}
	return out, nil
}

// evaluationsByTerm 按学期拆分的部门评估：
// 每个学期先判断是否只教研究生课程，与类型极性不一致的学期跳过，否则取该学期的评估记录。
// 两个学期之间没有共享状态，并发查询；输出保持学期先后顺序。
func evaluationsByTerm(postgraduate bool) RunFunc {
	return func(ctx context.Context, exec Executor, req Request) ([]Row, error) {
		terms := Terms()
		if req.Period.Term != "" {
			terms = []Term{req.Period.Term}
		}

		slots := make([]Row, len(terms))
		g, gctx := errgroup.WithContext(ctx)
		for i, term := range terms {
			g.Go(func() error {
				pgOnly, err := IsPostgraduateOnly(gctx, exec, req.DepartmentID, req.FacultyID, req.Period.Year, term)
				if err != nil {
					return err
				}
				if pgOnly != postgraduate {
					return nil
				}

				rows, err := exec.Execute(gctx, req.DepartmentID, evaluationByTermQuery, []Param{
					{Name: "ClaveDocente", Value: req.FacultyID},
					{Name: "Anio", Value: req.Period.Year},
					{Name: "Semestre", Value: string(term)},
				})
				if err != nil {
					return err
				}
				if len(rows) > 0 {
					slots[i] = rows[0]
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		out := make([]Row, 0, len(slots))
		for _, r := range slots {
			if r != nil {
				out = append(out, r)
			}
		}
		return out, nil
	}
}
