package domain

// Division is an organizational unit that owns users, budgets and expenses.
type Division struct {
	DivisionID string `json:"divisionID"` // Primary Key (UUID)
	Name       string `json:"name"`
	NameTH     string `json:"nameTH"` // Thai display name
	IsActive   bool   `json:"isActive"`
	AuditFields
}
