package models

// Division represents a row of the divisions table.
type Division struct {
	DivisionID string `json:"divisionID" db:"division_id"`
	Name       string `json:"name" db:"name"`
	NameTH     string `json:"nameTH" db:"name_th"`
	IsActive   bool   `json:"isActive" db:"is_active"`
	AuditFields
}
