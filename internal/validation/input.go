package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ограничения полей анкеты.
const (
	MaxPersonNameLength   = 100
	MaxEmployerNameLength = 200
	MaxJobTitleLength     = 200
	MaxExplanationLength  = 2000
	MaxSkillLength        = 50
	MaxSkillsCount        = 50
	MinPhoneDigits        = 7
	MaxPhoneDigits        = 15
	MaxRefereeNameLength  = 150
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	personNameRegex  = regexp.MustCompile(`^[\p{L}\s'\-.]+$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return fmt.Errorf("некорректный формат email")
	}
	if len(local) == 0 || len(local) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domain) == 0 || len(domain) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidatePersonName проверяет имя или фамилию соискателя.
func ValidatePersonName(fieldName, name string) error {
	name = strings.TrimSpace(name)
	if err := ValidateNonEmpty(fieldName, name); err != nil {
		return err
	}
	if err := ValidateLength(fieldName, name, 1, MaxPersonNameLength); err != nil {
		return err
	}
	if !personNameRegex.MatchString(name) {
		return fmt.Errorf("%s содержит недопустимые символы", fieldName)
	}
	return nil
}

// ValidatePhone проверяет необязательный номер телефона.
func ValidatePhone(phone *string) error {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil
	}
	if !phoneRegex.MatchString(*phone) {
		return fmt.Errorf("телефон содержит недопустимые символы")
	}

	digits := 0
	for _, r := range *phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < MinPhoneDigits || digits > MaxPhoneDigits {
		return fmt.Errorf("телефон должен содержать от %d до %d цифр", MinPhoneDigits, MaxPhoneDigits)
	}
	return nil
}

// ValidateSkills проверяет список навыков.
func ValidateSkills(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("количество навыков не должно превышать %d", MaxSkillsCount)
	}

	seen := make(map[string]struct{}, len(skills))
	for i, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return fmt.Errorf("навык #%d не может быть пустым", i+1)
		}
		if err := ValidateLength(fmt.Sprintf("навык #%d", i+1), skill, 1, MaxSkillLength); err != nil {
			return err
		}
		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("навык %q указан дважды", skill)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ValidateEmployerName проверяет название работодателя.
func ValidateEmployerName(name string) error {
	if err := ValidateNonEmpty("название работодателя", name); err != nil {
		return err
	}
	return ValidateLength("название работодателя", strings.TrimSpace(name), 1, MaxEmployerNameLength)
}

// ValidateJobTitle проверяет необязательную должность.
func ValidateJobTitle(title string) error {
	return ValidateLength("должность", strings.TrimSpace(title), 0, MaxJobTitleLength)
}

// ValidateGapExplanation проверяет текст объяснения перерыва. Пустой текст допустим и снимает объяснение.
func ValidateGapExplanation(text string) error {
	return ValidateLength("объяснение", strings.TrimSpace(text), 0, MaxExplanationLength)
}

// ValidateReferee проверяет контакт рекомендателя.
func ValidateReferee(name, email string) error {
	if err := ValidatePersonName("имя рекомендателя", name); err != nil {
		return err
	}
	if err := ValidateLength("имя рекомендателя", strings.TrimSpace(name), 1, MaxRefereeNameLength); err != nil {
		return err
	}
	return ValidateEmail(email)
}
