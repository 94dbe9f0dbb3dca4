package certificate

import (
	"context"
	"fmt"
)

// 考勤要求：全年 170 个工作日中至少 90%
const (
	workingDaysPerYear = 170
	minAttendanceRate  = 0.9
)

const (
	appointmentQuery = `
		SELECT d.estatus AS status, d.carga_horaria AS workload
		FROM docente d
		WHERE d.clave_docente = @ClaveDocente`

	sanctionCountQuery = `
		SELECT COUNT(*) AS total
		FROM sancion s
		WHERE s.clave_docente = @ClaveDocente`

	attendanceQuery = `
		SELECT COALESCE(SUM(a.asistencias + a.justificadas), 0) AS total
		FROM asistencia a
		WHERE a.clave_docente = @ClaveDocente
			AND a.anio = @Anio`
)

// RequirementCheck 单项初始要求的判定结果
type RequirementCheck struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
}

// CheckInitialRequirements 校验人事类初始要求：
// 全职任命且状态为 10 或 95、无处分记录、年度出勤（含合理缺勤）不低于 90%
func CheckInitialRequirements(ctx context.Context, exec Executor, departmentID, facultyID string, year int) ([]RequirementCheck, error) {
	byFaculty := []Param{{Name: "ClaveDocente", Value: facultyID}}

	appointment, err := exec.Execute(ctx, departmentID, appointmentQuery, byFaculty)
	if err != nil {
		return nil, fmt.Errorf("查询任命信息失败: %w", err)
	}

	sanctions, err := queryCount(ctx, exec, departmentID, sanctionCountQuery, byFaculty)
	if err != nil {
		return nil, fmt.Errorf("查询处分记录失败: %w", err)
	}

	attended, err := queryCount(ctx, exec, departmentID, attendanceQuery, []Param{
		{Name: "ClaveDocente", Value: facultyID},
		{Name: "Anio", Value: year},
	})
	if err != nil {
		return nil, fmt.Errorf("查询出勤记录失败: %w", err)
	}

	fullTime := false
	if len(appointment) > 0 {
		status := toString(appointment[0]["status"])
		fullTime = toString(appointment[0]["workload"]) == "TIEMPO COMPLETO" && (status == "10" || status == "95")
	}

	return []RequirementCheck{
		{
			Key:         "full_time_appointment",
			Description: "Nombramiento de tiempo completo (estatus 10 o 95)",
			Passed:      fullTime,
		},
		{
			Key:         "no_sanctions",
			Description: "Sin sanciones",
			Passed:      sanctions == 0,
		},
		{
			Key:         "attendance",
			Description: "Asistencia >= 90%",
			Passed:      float64(attended) >= minAttendanceRate*workingDaysPerYear,
		},
	}, nil
}
