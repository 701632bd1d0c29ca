package services

import (
	"time"

	"github.com/senyabanana/tender-marketplace/internal/models"
	"github.com/senyabanana/tender-marketplace/internal/utils"
)

// ListFilter - необязательные фильтры исполнителя при просмотре ленты запросов.
// Пустое поле означает "не фильтровать".
type ListFilter struct {
	Category       string
	Subcategory    string
	AssignmentType string
}

// Visible решает, виден ли запрос исполнителю. Чистая функция без I/O:
// запрос должен быть открыт, дедлайн не пройден, предложение еще не подано,
// размер компании и рейтинг не ниже порогов запроса, фильтры вызова совпадают,
// компания заказчика не в блок-листе исполнителя.
//
// Пороговые строки разбираются в числовые значения; нераспознанный порог
// считается нулевым и пропускает всех - политика в пользу видимости.
// Исполнитель без данных о размере или рейтинге не видит ничего: отсутствие
// атрибутов не означает "подходит под любой запрос".
func Visible(request models.Request, caps models.CapabilitySnapshot, alreadyOffered bool, now time.Time, filter ListFilter) bool {
	if request.State != models.PendingRequest || !now.Before(request.OffersDeadline) {
		return false
	}
	if alreadyOffered {
		return false
	}
	if !caps.HasCapabilityData() {
		return false
	}
	if float64(*caps.CompanySize) < utils.ParseThreshold(request.MinProviderSize) {
		return false
	}
	if *caps.Rating < utils.ParseThreshold(request.MinProviderRating) {
		return false
	}
	if caps.IsBlocked(request.OwnerCompany) {
		return false
	}
	if filter.Category != "" && filter.Category != request.Category {
		return false
	}
	if filter.Subcategory != "" && filter.Subcategory != request.Subcategory {
		return false
	}
	if filter.AssignmentType != "" && filter.AssignmentType != request.AssignmentType {
		return false
	}
	return true
}
