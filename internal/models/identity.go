package models

type AccountRole string // Роль аккаунта

const (
	RolePurchaser AccountRole = "PURCHASER" // Заказчик
	RoleProvider  AccountRole = "PROVIDER"  // Исполнитель
	RoleAdmin     AccountRole = "ADMIN"     // Администратор
)

// CapabilitySnapshot - снимок атрибутов аккаунта от внешнего identity-провайдера,
// действителен в рамках одной операции. Размер компании и рейтинг могут
// отсутствовать: исполнитель без этих данных не видит ни одного запроса.
type CapabilitySnapshot struct {
	AccountID        int64
	Role             AccountRole
	CompanyName      string
	CompanySize      *int
	Rating           *float64
	BlockedCompanies []string
}

// HasCapabilityData сообщает, есть ли у аккаунта данные о размере и рейтинге.
func (c CapabilitySnapshot) HasCapabilityData() bool {
	return c.CompanySize != nil && c.Rating != nil
}

// IsBlocked проверяет, входит ли компания в блок-лист аккаунта.
func (c CapabilitySnapshot) IsBlocked(companyName string) bool {
	if companyName == "" {
		return false
	}
	for _, blocked := range c.BlockedCompanies {
		if blocked == companyName {
			return true
		}
	}
	return false
}
