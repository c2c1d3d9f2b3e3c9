package reference

// Policy определяет, от каких работодателей требуются рекомендации.
type Policy struct {
	RequireCurrentEmployer         bool `json:"require_current_employer" yaml:"require_current_employer"`
	RequirePreviousEmployer        bool `json:"require_previous_employer" yaml:"require_previous_employer"`
	RequireVulnerableWorkEmployers bool `json:"require_vulnerable_work_employers" yaml:"require_vulnerable_work_employers"`
}

// DefaultPolicy возвращает политику, где включены все правила.
func DefaultPolicy() Policy {
	return Policy{
		RequireCurrentEmployer:         true,
		RequirePreviousEmployer:        true,
		RequireVulnerableWorkEmployers: true,
	}
}

// PolicyUpdate - частичное изменение политики; nil-поля остаются без изменений.
type PolicyUpdate struct {
	RequireCurrentEmployer         *bool `json:"require_current_employer"`
	RequirePreviousEmployer        *bool `json:"require_previous_employer"`
	RequireVulnerableWorkEmployers *bool `json:"require_vulnerable_work_employers"`
}

// Apply возвращает новую политику с применённым частичным изменением.
func (p Policy) Apply(u PolicyUpdate) Policy {
	if u.RequireCurrentEmployer != nil {
		p.RequireCurrentEmployer = *u.RequireCurrentEmployer
	}
	if u.RequirePreviousEmployer != nil {
		p.RequirePreviousEmployer = *u.RequirePreviousEmployer
	}
	if u.RequireVulnerableWorkEmployers != nil {
		p.RequireVulnerableWorkEmployers = *u.RequireVulnerableWorkEmployers
	}
	return p
}
