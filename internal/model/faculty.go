package model

import "strings"

// Faculty 教师表 — 对应 docente（主库）
// ClaveDepartamento 为教师当前所属部门，可能随时调整，读取时不做缓存
type Faculty struct {
	ClaveDocente      string  `gorm:"type:varchar(20);primaryKey" json:"clave_docente"`
	Nombre            string  `gorm:"type:varchar(100);not null"  json:"nombre"`
	ApellidoPaterno   string  `gorm:"type:varchar(100)"           json:"apellido_paterno"`
	ApellidoMaterno   string  `gorm:"type:varchar(100)"           json:"apellido_materno"`
	Correo            string  `gorm:"type:varchar(255)"           json:"correo,omitempty"`
	ClaveDepartamento *string `gorm:"type:varchar(20);index"      json:"clave_departamento,omitempty"`
	BaseModel

	// 关联
	Department *Department `gorm:"foreignKey:ClaveDepartamento;references:ClaveDepartamento" json:"department,omitempty"`
}

// TableName 指定表名
func (Faculty) TableName() string { return "docente" }

// FullName 名 + 父姓 + 母姓，空白部分跳过
func (f *Faculty) FullName() string {
	return strings.Join(strings.Fields(f.Nombre+" "+f.ApellidoPaterno+" "+f.ApellidoMaterno), " ")
}
