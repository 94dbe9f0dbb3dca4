package model

// Activity 活动表 — 对应 actividad
// 每项活动对应若干证明文件（见 ActivityDocument）
type Activity struct {
	ClaveActividad string `gorm:"type:varchar(20);primaryKey" json:"clave_actividad"`
	Nombre         string `gorm:"type:varchar(200);not null"  json:"nombre"`
	Descripcion    string `gorm:"type:text"                   json:"descripcion,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Activity) TableName() string { return "actividad" }

// Document 证明文件目录表 — 对应 documento
type Document struct {
	ClaveDocumento string `gorm:"type:varchar(20);primaryKey" json:"clave_documento"`
	Nombre         string `gorm:"type:varchar(200);not null"  json:"nombre"`
	BaseModel
}

// TableName 指定表名
func (Document) TableName() string { return "documento" }

// ActivityDocument 活动-证明文件关联表 — 对应 actividad_documento
// ClaveDepartamento 为空时，由教师所属部门决定查询哪个部门库
type ActivityDocument struct {
	ClaveActividad    string  `gorm:"type:varchar(20);primaryKey" json:"clave_actividad"`
	ClaveDocumento    string  `gorm:"type:varchar(20);primaryKey" json:"clave_documento"`
	ClaveDepartamento *string `gorm:"type:varchar(20)"            json:"clave_departamento,omitempty"`
}

// TableName 指定表名
func (ActivityDocument) TableName() string { return "actividad_documento" }
