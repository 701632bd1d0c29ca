package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/senyabanana/tender-marketplace/internal/models"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, errResp *models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errResp.StatusCode)

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Println(err)
	}
}

// SendJSON отправляет ответ в формате JSON
func SendJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println(err)
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 50 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [0:50]")
		}
	} else {
		limit = 5
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	} else {
		offset = 0
	}

	return limit, offset, nil
}

var thresholdNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseThreshold извлекает числовой порог из строки критерия
// ("10", ">= 10", "≥10 employees"). Значения "Any", пустая строка и
// нераспознанный текст дают 0 - порог, который проходит любой кандидат.
func ParseThreshold(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "any") {
		return 0
	}
	match := thresholdNumber.FindString(s)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return value
}

// ExtractIdentity собирает снимок атрибутов аккаунта из доверенных заголовков
// identity-провайдера. Отсутствие размера или рейтинга - не ошибка:
// снимок просто остается без данных о компании.
func ExtractIdentity(r *http.Request) (models.CapabilitySnapshot, *models.ErrorResponse) {
	var caps models.CapabilitySnapshot

	accountIdStr := r.Header.Get("X-Account-Id")
	if accountIdStr == "" {
		return caps, models.NewErrorResponse(http.StatusUnauthorized, models.KindUnauthorized, "missing X-Account-Id header")
	}
	accountId, err := strconv.ParseInt(accountIdStr, 10, 64)
	if err != nil {
		return caps, models.NewErrorResponse(http.StatusUnauthorized, models.KindUnauthorized, "invalid X-Account-Id header")
	}
	caps.AccountID = accountId

	role := models.AccountRole(r.Header.Get("X-Account-Role"))
	switch role {
	case models.RolePurchaser, models.RoleProvider, models.RoleAdmin:
		caps.Role = role
	default:
		return caps, models.NewErrorResponse(http.StatusUnauthorized, models.KindUnauthorized, "unknown account role")
	}

	caps.CompanyName = r.Header.Get("X-Company-Name")

	if sizeStr := r.Header.Get("X-Company-Size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return caps, models.NewErrorResponse(http.StatusUnauthorized, models.KindUnauthorized, "invalid X-Company-Size header")
		}
		caps.CompanySize = &size
	}

	if ratingStr := r.Header.Get("X-Company-Rating"); ratingStr != "" {
		rating, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil {
			return caps, models.NewErrorResponse(http.StatusUnauthorized, models.KindUnauthorized, "invalid X-Company-Rating header")
		}
		caps.Rating = &rating
	}

	if blocked := r.Header.Get("X-Blocked-Companies"); blocked != "" {
		for _, name := range strings.Split(blocked, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				caps.BlockedCompanies = append(caps.BlockedCompanies, name)
			}
		}
	}

	return caps, nil
}

const (
	maxDetailKeys     = 32
	maxDetailValueLen = 1024
)

var detailKeyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,63}$`)

// ValidateDetails проверяет произвольные поля запроса: ключи по шаблону,
// ограничения на количество и длину значений.
func ValidateDetails(details map[string]string) error {
	if len(details) > maxDetailKeys {
		return fmt.Errorf("too many detail fields, at most %d allowed", maxDetailKeys)
	}
	for key, value := range details {
		if !detailKeyPattern.MatchString(key) {
			return fmt.Errorf("invalid detail key: %q", key)
		}
		if len(value) > maxDetailValueLen {
			return fmt.Errorf("detail value for %q exceeds %d characters", key, maxDetailValueLen)
		}
	}
	return nil
}
