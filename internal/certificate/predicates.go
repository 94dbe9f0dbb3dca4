package certificate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	assignmentCountQuery = `
		SELECT COUNT(*) AS total
		FROM asignatura_docente ad
		WHERE ad.clave_docente = @ClaveDocente
			AND ad.anio = @Anio
			AND ad.semestre = @Semestre`

	postgraduateCountQuery = `
		SELECT COUNT(*) AS total
		FROM asignatura_docente ad
		INNER JOIN asignatura a ON a.clave_asignatura = ad.clave_asignatura
		WHERE ad.clave_docente = @ClaveDocente
			AND ad.anio = @Anio
			AND ad.semestre = @Semestre
			AND a.nivel = 'POSGRADO'`
)

// 课程考勤达标状态
const (
	StatusCleared    = "LIBERADO"
	StatusNotCleared = "NO LIBERADO"
)

// 委员会类别
const (
	CommitteeEvaluation    = "EVALUACIÓN"
	CommitteeAccreditation = "ACREDITACIÓN"
)

// PostgraduateOnly 学期内任课总数大于 0 且全部为研究生课程
func PostgraduateOnly(total, postgrad int) bool {
	return total > 0 && postgrad == total
}

// IsPostgraduateOnly 查询教师在指定学期是否只教授研究生课程
func IsPostgraduateOnly(ctx context.Context, exec Executor, departmentID, facultyID string, year int, term Term) (bool, error) {
	params := []Param{
		{Name: "ClaveDocente", Value: facultyID},
		{Name: "Anio", Value: year},
		{Name: "Semestre", Value: string(term)},
	}

	total, err := queryCount(ctx, exec, departmentID, assignmentCountQuery, params)
	if err != nil {
		return false, fmt.Errorf("查询任课总数失败: %w", err)
	}
	if total == 0 {
		return false, nil
	}

	postgrad, err := queryCount(ctx, exec, departmentID, postgraduateCountQuery, params)
	if err != nil {
		return false, fmt.Errorf("查询研究生课程数失败: %w", err)
	}

	return PostgraduateOnly(total, postgrad), nil
}

// Cleared 全部记录均满足目标状态才算达标，不存在部分达标
func Cleared(matching, total int) bool {
	return total > 0 && matching == total
}

// ClearanceLabel 达标状态标签
func ClearanceLabel(matching, total int) string {
	if Cleared(matching, total) {
		return StatusCleared
	}
	return StatusNotCleared
}

// ClearanceRatio 达标比例；total 为 0 时返回 0
func ClearanceRatio(matching, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matching) / float64(total)
}

// CommitteeCategory 根据委员会类型文本推导类别
func CommitteeCategory(kind string) string {
	lower := strings.ToLower(kind)
	if strings.Contains(lower, "evaluación") || strings.Contains(lower, "evaluacion") {
		return CommitteeEvaluation
	}
	return CommitteeAccreditation
}

func queryCount(ctx context.Context, exec Executor, departmentID, query string, params []Param) (int, error) {
	rows, err := exec.Execute(ctx, departmentID, query, params)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt(rows[0]["total"])
}

// toInt 兼容不同驱动返回的数值类型；NULL 视为 0，无法解析时返回 ErrNonNumeric
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	case []byte:
		return atoi(string(n))
	case string:
		return atoi(n)
	default:
		return 0, fmt.Errorf("%w: %T", ErrNonNumeric, v)
	}
}

func atoi(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNonNumeric, s)
	}
	return i, nil
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
