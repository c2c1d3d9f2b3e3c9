package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/applicant-intake/internal/domain/valueobject"
	"github.com/ignatzorin/applicant-intake/internal/reference"
)

// Flow описывает порядок разделов анкеты и политику рекомендаций.
type Flow struct {
	Steps      []FlowStep       `yaml:"steps"`
	References reference.Policy `yaml:"references"`
}

// FlowStep - один раздел анкеты.
type FlowStep struct {
	Key   valueobject.StepKey `yaml:"key"`
	Title string              `yaml:"title"`
}

// DefaultFlow возвращает встроенную конфигурацию анкеты.
func DefaultFlow() *Flow {
	titles := map[valueobject.StepKey]string{
		valueobject.StepPersonal:     "Личные данные",
		valueobject.StepEducation:    "Образование",
		valueobject.StepEmployment:   "Опыт работы",
		valueobject.StepSkills:       "Навыки",
		valueobject.StepReferences:   "Рекомендации",
		valueobject.StepDeclarations: "Декларации",
	}

	flow := &Flow{References: reference.DefaultPolicy()}
	for _, key := range valueobject.DefaultSteps {
		flow.Steps = append(flow.Steps, FlowStep{Key: key, Title: titles[key]})
	}
	return flow
}

// LoadFlow читает YAML файл анкеты. Пустой путь или отсутствующий файл дают встроенную конфигурацию.
func LoadFlow(path string) (*Flow, error) {
	if path == "" {
		return DefaultFlow(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultFlow(), nil
		}
		return nil, fmt.Errorf("config: не удалось прочитать %s: %w", path, err)
	}

	return ParseFlow(raw)
}

// ParseFlow разбирает YAML конфигурацию анкеты.
func ParseFlow(raw []byte) (*Flow, error) {
	flow := &Flow{References: reference.DefaultPolicy()}
	if err := yaml.Unmarshal(raw, flow); err != nil {
		return nil, fmt.Errorf("config: некорректный YAML анкеты: %w", err)
	}
	if err := flow.Validate(); err != nil {
		return nil, err
	}
	return flow, nil
}

// Validate проверяет, что разделы известны и не повторяются.
func (f *Flow) Validate() error {
	if len(f.Steps) == 0 {
		return fmt.Errorf("config: в анкете должен быть хотя бы один раздел")
	}
	seen := make(map[valueobject.StepKey]struct{}, len(f.Steps))
	for _, s := range f.Steps {
		if !s.Key.IsValid() {
			return fmt.Errorf("config: неизвестный раздел %q", s.Key)
		}
		if _, dup := seen[s.Key]; dup {
			return fmt.Errorf("config: раздел %q указан дважды", s.Key)
		}
		seen[s.Key] = struct{}{}
	}
	return nil
}

// StepKeys возвращает ключи разделов в порядке прохождения.
func (f *Flow) StepKeys() []valueobject.StepKey {
	keys := make([]valueobject.StepKey, 0, len(f.Steps))
	for _, s := range f.Steps {
		keys = append(keys, s.Key)
	}
	return keys
}

// IndexOf возвращает индекс раздела или -1.
func (f *Flow) IndexOf(key valueobject.StepKey) int {
	for i, s := range f.Steps {
		if s.Key == key {
			return i
		}
	}
	return -1
}
