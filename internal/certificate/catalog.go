package certificate

// 部门库中的证明文件查询。
// 参数统一为 @ClaveDocente / @Anio / @Semestre，由 Definition.params 按统计粒度绑定。

const evaluationByTermQuery = `
	SELECT ed.anio AS year, ed.semestre AS term, ed.calificacion AS grade
	FROM evaluacion_departamental ed
	WHERE ed.clave_docente = @ClaveDocente
		AND ed.anio = @Anio
		AND ed.semestre = @Semestre`

func catalog() []Definition {
	return []Definition{
		// ── 竞赛指导 ──
		{
			Code:        "DOC033",
			Title:       "Comisión por asesoría en concursos",
			EvidenceKey: "contest_advisories",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_evento AS event_name, ae.fecha_inicio AS start_date, ae.fecha_fin AS end_date
				FROM asesoria_evento ae
				INNER JOIN evento e ON e.clave_evento = ae.clave_evento
				WHERE ae.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM e.fecha_inicio) = @Anio
				ORDER BY ae.fecha_inicio`,
		},
		{
			Code:        "DOC034",
			Title:       "Constancia por asesoría en concursos",
			EvidenceKey: "contest_advisories",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_concurso AS contest_name, e.ubicacion AS location,
					ae.fecha_inicio AS start_date, ae.fecha_fin AS end_date
				FROM asesoria_evento ae
				INNER JOIN evento e ON e.clave_evento = ae.clave_evento
				WHERE ae.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM ae.fecha_inicio) = @Anio
				ORDER BY ae.fecha_inicio`,
		},
		{
			Code:        "DOC035",
			Title:       "Comisión por asesoría en proyectos premiados en concurso",
			EvidenceKey: "awarded_projects",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_evento AS event_name, ae.fecha_inicio AS start_date, ae.fecha_fin AS end_date
				FROM asesoria_evento ae
				INNER JOIN evento e ON e.clave_evento = ae.clave_evento
				INNER JOIN asesoria_proyecto_premiado app ON app.clave_asesoria = ae.clave_asesoria
				WHERE ae.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM ae.fecha_inicio) = @Anio
				ORDER BY ae.fecha_inicio`,
		},
		{
			Code:        "DOC036",
			Title:       "Constancia por asesoría en proyectos premiados en concurso",
			EvidenceKey: "awarded_projects",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_concurso AS contest_name, ae.nombre_proyecto AS project_name,
					app.lugar_premiado AS award_place
				FROM asesoria_evento ae
				INNER JOIN evento e ON e.clave_evento = ae.clave_evento
				INNER JOIN asesoria_proyecto_premiado app ON app.clave_asesoria = ae.clave_asesoria
				WHERE ae.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM ae.fecha_inicio) = @Anio
				ORDER BY app.lugar_premiado`,
		},

		// ── 活动组织 ──
		{
			Code:        "DOC037",
			Title:       "Comisión por coordinación en eventos",
			EvidenceKey: "event_coordination",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_evento AS event_name, e.fecha_inicio AS start_date, e.fecha_fin AS end_date
				FROM colaboracion_evento ce
				INNER JOIN evento e ON e.clave_evento = ce.clave_evento
				WHERE ce.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM e.fecha_inicio) = @Anio
				ORDER BY e.fecha_inicio`,
		},
		{
			Code:        "DOC038",
			Title:       "Constancia por coordinación en eventos",
			EvidenceKey: "event_coordination",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_concurso AS contest_name, ce.funcion AS role,
					STRING_AGG(cea.nombre_actividad, ', ' ORDER BY cea.nombre_actividad) AS activities,
					e.fecha_inicio AS start_date, e.fecha_fin AS end_date
				FROM colaboracion_evento ce
				INNER JOIN evento e ON e.clave_evento = ce.clave_evento
				INNER JOIN colaboracion_evento_actividad cea ON cea.clave_evento = ce.clave_evento
				WHERE ce.clave_docente = @ClaveDocente
					AND (ce.funcion ILIKE '%coordinador%' OR ce.funcion ILIKE '%colaborador%')
					AND EXTRACT(YEAR FROM e.fecha_inicio) = @Anio
				GROUP BY e.nombre_concurso, ce.funcion, e.fecha_inicio, e.fecha_fin
				ORDER BY e.fecha_inicio`,
		},
		{
			Code:        "DOC039",
			Title:       "Comisión para participar como jurado en eventos",
			EvidenceKey: "jury_participation",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_evento AS event_name, e.fecha_inicio AS start_date, e.ubicacion AS location
				FROM participacion_concurso_jurado pcj
				INNER JOIN evento e ON e.clave_evento = pcj.clave_evento
				WHERE pcj.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM e.fecha_inicio) = @Anio
				ORDER BY e.fecha_inicio`,
		},
		{
			Code:        "DOC040",
			Title:       "Constancia por participar como jurado en eventos",
			EvidenceKey: "jury_participation",
			Scope:       ScopeYear,
			Query: `
				SELECT e.nombre_evento AS event_name, pcj.categoria AS category
				FROM participacion_concurso_jurado pcj
				INNER JOIN evento e ON e.clave_evento = pcj.clave_evento
				WHERE pcj.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM e.fecha_inicio) = @Anio
				ORDER BY e.fecha_inicio`,
		},

		// ── 评估委员会 ──
		{
			Code:        "DOC041",
			Title:       "Comisión para participar en comités de evaluación",
			EvidenceKey: "committees",
			Scope:       ScopeYear,
			Query: `
				SELECT ce.tipo AS type, ce.organismo AS organization
				FROM comite_evaluador ce
				WHERE ce.clave_docente = @ClaveDocente
					AND ce.anio = @Anio
				ORDER BY ce.organismo`,
			Shape: withCommitteeCategory,
		},
		{
			Code:        "DOC042",
			Title:       "Constancia por participación en comités de evaluación",
			EvidenceKey: "committees",
			Scope:       ScopeYear,
			Query: `
				SELECT ce.tipo AS type, ce.organismo AS organization
				FROM comite_evaluador ce
				WHERE ce.clave_docente = @ClaveDocente
					AND ce.anio = @Anio
				ORDER BY ce.organismo`,
		},

		// ── 审核 ──
		{
			Code:        "DOC043",
			Title:       "Comisión para auditorías",
			EvidenceKey: "audits",
			Scope:       ScopeYear,
			Query: `
				SELECT a.tipo_sistema AS system_type
				FROM auditoria a
				WHERE a.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM a.fecha_inicio) = @Anio
				ORDER BY a.fecha_inicio`,
		},
		{
			Code:        "DOC044",
			Title:       "Constancia por auditorías",
			EvidenceKey: "audits",
			Scope:       ScopeYear,
			Query: `
				SELECT a.funcion_docente AS role, a.tipo_sistema AS system_type,
					a.fecha_inicio AS start_date, a.fecha_fin AS end_date, a.lugar AS location
				FROM auditoria a
				WHERE a.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM a.fecha_inicio) = @Anio
				ORDER BY a.fecha_inicio`,
		},

		// ── 培养方案编制 ──
		{
			Code:        "DOC045",
			Title:       "Comisión para elaboración de planes y programas",
			EvidenceKey: "plans",
			Scope:       ScopeYear,
			Query: `
				SELECT ep.fecha_inicio AS start_date, ep.fecha_fin AS end_date
				FROM elaboracion_plan ep
				WHERE ep.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM ep.fecha_inicio) = @Anio
				ORDER BY ep.fecha_inicio`,
		},
		{
			Code:        "DOC046",
			Title:       "Constancia por elaboración de planes y programas (local)",
			EvidenceKey: "plans",
			Scope:       ScopeYear,
			Query:       planByLevelQuery("LOCAL"),
		},
		{
			Code:        "DOC047",
			Title:       "Constancia por elaboración de planes y programas (nacional)",
			EvidenceKey: "plans",
			Scope:       ScopeYear,
			Query:       planByLevelQuery("NACIONAL"),
		},

		// ── 专业方向模块 ──
		{
			Code:        "DOC048",
			Title:       "Comisión para la elaboración de módulos de especialidad",
			EvidenceKey: "modules",
			Scope:       ScopeYear,
			Query: `
				SELECT p.nombre_programa AS program_name, eme.fecha_inicio AS start_date, eme.fecha_fin AS end_date
				FROM elaboracion_modulo_especialidad eme
				INNER JOIN programa p ON p.clave_programa = eme.clave_programa
				WHERE eme.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM eme.fecha_inicio) = @Anio
				ORDER BY eme.fecha_inicio`,
		},
		{
			Code:        "DOC049",
			Title:       "Registro de módulos de especialidad",
			EvidenceKey: "modules",
			Scope:       ScopeYear,
			Query:       undergraduateModulesQuery,
			Shape:       groupModulesByProgram,
		},
		{
			Code:        "DOC050",
			Title:       "Constancia por la elaboración de módulos de especialidad",
			EvidenceKey: "modules",
			Scope:       ScopeYear,
			Query:       undergraduateModulesQuery,
			Shape:       groupModulesByProgram,
		},

		// ── 新专业开设 ──
		{
			Code:        "DOC051",
			Title:       "Comisión para la apertura de programas",
			EvidenceKey: "programs",
			Scope:       ScopeYear,
			Query: `
				SELECT ap.nombre_programa AS program_name, ap.nivel AS level,
					ap.fecha_inicio AS start_date, ap.fecha_fin AS end_date
				FROM apertura_programa ap
				WHERE ap.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM ap.fecha_inicio) = @Anio
				ORDER BY ap.fecha_inicio`,
		},
		{
			Code:        "DOC052",
			Title:       "Constancia por la apertura de programas",
			EvidenceKey: "programs",
			Scope:       ScopeYear,
			Query: `
				SELECT ap.nombre_programa AS program_name, ap.nivel AS level,
					STRING_AGG(CONCAT_WS(' ', d.nombre, d.apellido_paterno, d.apellido_materno), ', '
						ORDER BY d.apellido_paterno) AS faculty
				FROM apertura_programa ap
				INNER JOIN lista_docentes ld ON ld.clave_programa = ap.clave_programa
				INNER JOIN docente d ON d.clave_docente = ld.clave_docente
				WHERE ap.clave_programa IN (
					SELECT clave_programa FROM lista_docentes WHERE clave_docente = @ClaveDocente
				)
					AND EXTRACT(YEAR FROM ap.fecha_inicio) = @Anio
				GROUP BY ap.nombre_programa, ap.nivel, ap.fecha_inicio
				ORDER BY ap.fecha_inicio`,
		},
		{
			Code:        "DOC053",
			Title:       "Autorización para la apertura de programas",
			EvidenceKey: "programs",
			Scope:       ScopeYear,
			Query: `
				SELECT ap.nombre_programa AS program_name, ap.nivel AS level,
					ap.clave_programa AS program_code, pa.modalidad AS modality
				FROM programa_aprobado pa
				INNER JOIN apertura_programa ap ON ap.clave_programa = pa.clave_programa
				INNER JOIN lista_docentes ld ON ld.clave_programa = ap.clave_programa
				WHERE ld.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM pa.fecha) = @Anio
				ORDER BY pa.fecha`,
		},

		// ── 教师档案 ──
		{
			Code:        "DOC054",
			Title:       "Constancia de prestación de servicios docentes",
			EvidenceKey: "service_record",
			Scope:       ScopeProfile,
			Query: `
				SELECT d.rfc AS rfc, d.fecha_ingreso AS hire_date, d.clave_presupuestal AS budget_key,
					d.estatus AS status, d.carga_horaria AS workload, d.categoria AS category, d.plaza AS position
				FROM docente d
				WHERE d.clave_docente = @ClaveDocente`,
		},
		{
			Code:        "DOC055",
			Title:       "Carta de exclusividad laboral",
			EvidenceKey: "service_record",
			Scope:       ScopeProfile,
			Query: `
				SELECT d.rfc AS rfc, d.clave_presupuestal AS budget_key
				FROM docente d
				WHERE d.clave_docente = @ClaveDocente`,
		},
		{
			Code:        "DOC056",
			Title:       "Constancia de proyecto de investigación vigente",
			EvidenceKey: "research_projects",
			Scope:       ScopeYear,
			Query: `
				SELECT pi.nombre_proyecto AS project_name, pi.descripcion AS description
				FROM proyecto_investigacion pi
				WHERE pi.clave_docente = @ClaveDocente
					AND pi.anio = @Anio
				ORDER BY pi.nombre_proyecto`,
		},
		{
			Code:        "DOC057",
			Title:       "Curriculum vitae actualizado",
			EvidenceKey: "curriculum",
			Scope:       ScopeProfile,
			Query: `
				SELECT d.cvu_estado AS cvu_status
				FROM docente d
				WHERE d.clave_docente = @ClaveDocente
					AND d.cvu_estado = 'VIGENTE'`,
		},
		{
			Code:        "DOC058",
			Title:       "Autorización de licencias especiales",
			EvidenceKey: "leaves",
			Scope:       ScopeYear,
			Query: `
				SELECT le.tipo_licencia AS leave_type, le.fecha_inicio AS start_date, le.fecha_fin AS end_date,
					le.clave_oficio_autorizacion AS authorization_ref
				FROM licencia_especial le
				WHERE le.clave_docente = @ClaveDocente
					AND EXTRACT(YEAR FROM le.fecha_inicio) = @Anio
				ORDER BY le.fecha_inicio`,
		},

		// ── 教学考核 ──
		{
			Code:        "DOC059",
			Title:       "Constancia de cumplimiento de actividades",
			EvidenceKey: "activity_release",
			Scope:       ScopeYear,
			Query: `
				SELECT ad.anio AS year, ad.semestre AS term, COUNT(*) AS total,
					COUNT(CASE WHEN ad.asistencia = 'BUENA' THEN 1 END) AS matching
				FROM asignatura_docente ad
				WHERE ad.clave_docente = @ClaveDocente
					AND ad.anio = @Anio
				GROUP BY ad.anio, ad.semestre
				ORDER BY ad.semestre DESC`,
			Shape: withClearance,
		},
		{
			Code:        "DOC060",
			Title:       "Carta de liberación de actividades",
			EvidenceKey: "activity_release",
			Scope:       ScopeYear,
			Query: `
				SELECT ad.anio AS year, COUNT(*) AS total,
					COUNT(CASE WHEN ad.asistencia = 'BUENA' THEN 1 END) AS matching
				FROM asignatura_docente ad
				WHERE ad.clave_docente = @ClaveDocente
					AND ad.anio = @Anio
				GROUP BY ad.anio`,
			Shape: withClearance,
		},
		{
			Code:        "DOC061",
			Title:       "Evaluación departamental nivel licenciatura",
			EvidenceKey: "evaluations",
			Scope:       ScopeTerm,
			Run:         evaluationsByTerm(false),
		},
		{
			Code:        "DOC062",
			Title:       "Evaluación departamental nivel posgrado",
			EvidenceKey: "evaluations",
			Scope:       ScopeTerm,
			Run:         evaluationsByTerm(true),
		},
		{
			Code:        "DOC063",
			Title:       "Evaluación de desempeño docente",
			EvidenceKey: "evaluations",
			Scope:       ScopeYear,
			Query: `
				SELECT ed.anio AS year, ed.semestre AS term, ed.porcentaje_estudiantado AS student_percentage
				FROM evaluacion_desempeno ed
				WHERE ed.clave_docente = @ClaveDocente
					AND ed.anio = @Anio
				ORDER BY ed.semestre DESC`,
		},
	}
}

const undergraduateModulesQuery = `
	SELECT p.nombre_programa AS program_name, lm.nombre_modulo AS module_name
	FROM elaboracion_modulo_especialidad eme
	INNER JOIN lista_modulo lm ON lm.clave_registro = eme.clave_registro
	INNER JOIN programa p ON p.clave_programa = eme.clave_programa
	WHERE eme.clave_docente = @ClaveDocente
		AND UPPER(eme.nivel) = 'LICENCIATURA'
		AND EXTRACT(YEAR FROM eme.fecha_inicio) = @Anio
	ORDER BY p.nombre_programa, lm.nombre_modulo`

// planByLevelQuery 级别取值为常量，不来自调用方输入
func planByLevelQuery(level string) string {
	return `
		SELECT p.nombre_programa AS program_name, ep.fecha_inicio AS start_date, ep.fecha_fin AS end_date
		FROM elaboracion_plan ep
		INNER JOIN programa p ON p.clave_programa = ep.clave_programa
		WHERE ep.clave_docente = @ClaveDocente
			AND ep.nivel = '` + level + `'
			AND EXTRACT(YEAR FROM ep.fecha_inicio) = @Anio
		ORDER BY ep.fecha_inicio`
}
