package certificate

import "encoding/json"

// Result 生成结果：Found 携带佐证记录与签署人；NotApplicable 表示本周期不符合条件（不是错误）
type Result struct {
	Code        Code
	Title       string
	EvidenceKey string
	Evidence    []Row
	Signatory   *string

	found bool
}

// NotApplicable 不适用结果
func NotApplicable() Result {
	return Result{}
}

// Found 构造命中结果；没有佐证记录时退化为 NotApplicable
func Found(def Definition, evidence []Row, signatory *string) Result {
	if len(evidence) == 0 {
		return NotApplicable()
	}
	return Result{
		Code:        def.Code,
		Title:       def.Title,
		EvidenceKey: def.EvidenceKey,
		Evidence:    evidence,
		Signatory:   signatory,
		found:       true,
	}
}

// IsFound 是否命中
func (r Result) IsFound() bool {
	return r.found
}

// MarshalJSON NotApplicable 序列化为 null；命中时佐证记录放在类型自己的 key 下，signatory 始终输出
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.found {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]any{
		"code":        r.Code,
		"title":       r.Title,
		r.EvidenceKey: r.Evidence,
		"signatory":   r.Signatory,
	})
}
