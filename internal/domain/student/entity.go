// Package student содержит доменную модель ученика ClassQuest Hub.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

import (
	"errors"
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Exp представляет очки опыта ученика.
type Exp int

// IsValid проверяет, что опыт неотрицательный.
func (e Exp) IsValid() bool {
	return e >= 0
}

// LegacyExpThreshold - порог, начиная с которого значение опыта считается
// записанным в старом (десятикратном) масштабе.
//
// Эвристика неоднозначна: честно заработанные >= 100 очков в новом масштабе
// тоже будут уменьшены. Порог сохранён из исходной системы намеренно.
const LegacyExpThreshold Exp = 100

// ExpRescaleDivisor - во сколько раз старые значения опыта были завышены.
const ExpRescaleDivisor = 10

// NeedsRescale возвращает true, если значение похоже на старый масштаб.
func (e Exp) NeedsRescale() bool {
	return e >= LegacyExpThreshold
}

// Rescaled возвращает опыт, приведённый к новому масштабу
// (деление на 10 с округлением до ближайшего целого).
func (e Exp) Rescaled() Exp {
	if e < 0 {
		return 0
	}
	return (e + ExpRescaleDivisor/2) / ExpRescaleDivisor
}

// Level представляет уровень ученика.
type Level int

// IsValid проверяет, что уровень неотрицательный.
func (l Level) IsValid() bool {
	return l >= 0
}

// Points представляет баланс игровой валюты ученика.
// Отсутствующее значение трактуется как ноль.
type Points int

// IsValid проверяет, что баланс неотрицательный.
func (p Points) IsValid() bool {
	return p >= 0
}

// Stats хранит прогресс ученика: уровень и опыт.
type Stats struct {
	Level Level `json:"level"`
	Exp   Exp   `json:"exp"`
}

// NewStats возвращает прогресс нового ученика: первый уровень, ноль опыта.
func NewStats() *Stats {
	return &Stats{Level: 1, Exp: 0}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность системы, представляющая ученика класса.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	// Стабилен на всё время жизни записи.
	ID string `json:"id"`

	// Number - порядковый номер в классе, уникален внутри класса.
	Number int `json:"number"`

	// Name - имя ученика.
	Name string `json:"name"`

	// Honorific - косметический титул. Может быть пустым; при первом
	// показе списка пустой титул заполняется случайным из пула.
	Honorific string `json:"honorific"`

	// IconType - идентификатор аватарки ученика.
	IconType string `json:"iconType"`

	// Stats - уровень и опыт. Указатель, потому что в старых снимках
	// поле может отсутствовать целиком.
	Stats *Stats `json:"stats,omitempty"`

	// Points - баланс игровой валюты. Отсутствие означает ноль.
	Points Points `json:"points,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStudentNotFound - ученик не найден.
	ErrStudentNotFound = errors.New("student not found")

	// ErrEmptyNameList - список имён после разбора оказался пустым.
	ErrEmptyNameList = errors.New("no valid student names provided")

	// ErrInvalidName - недопустимое имя ученика.
	ErrInvalidName = errors.New("invalid student name")

	// ErrInvalidExp - недопустимое значение опыта.
	ErrInvalidExp = errors.New("invalid exp: must be non-negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & PARSING
// ══════════════════════════════════════════════════════════════════════════════

// NewStudent создаёт нового ученика. Новые ученики всегда начинают
// с первого уровня и нулевого опыта - проблем старого масштаба у них нет.
func NewStudent(id string, number int, name string) (*Student, error) {
	if id == "" {
		return nil, errors.New("student id is required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	return &Student{
		ID:        id,
		Number:    number,
		Name:      name,
		Honorific: "",
		IconType:  "",
		Stats:     NewStats(),
	}, nil
}

// ParseNames разбирает пользовательский ввод на имена учеников.
// Разделителями служат запятые и любые пробельные символы,
// пустые токены отбрасываются: "Kim, Lee  Park" -> [Kim Lee Park].
func ParseNames(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// EnsureStats гарантирует наличие блока прогресса.
// Возвращает true, если блок пришлось восстановить.
func (s *Student) EnsureStats() bool {
	if s.Stats != nil {
		return false
	}
	s.Stats = NewStats()
	return true
}

// NormalizeExp приводит опыт к новому масштабу, если он похож на старый.
// Возвращает true, если значение изменилось. Повторный вызов ничего
// не меняет: нормализованное значение всегда меньше порога.
func (s *Student) NormalizeExp() bool {
	if s.Stats == nil || !s.Stats.Exp.NeedsRescale() {
		return false
	}
	s.Stats.Exp = s.Stats.Exp.Rescaled()
	return true
}

// ResetProgress сбрасывает прогресс ученика: титул очищается, уровень
// и опыт обнуляются, баланс обнуляется, аватарка заменяется переданной.
// Операция необратима.
func (s *Student) ResetProgress(iconType string) {
	s.Honorific = ""
	s.Stats = &Stats{Level: 0, Exp: 0}
	s.Points = 0
	s.IconType = iconType
}

// AssignHonorific присваивает случайный титул из пула, если титул пуст.
// Возвращает true, если титул был присвоен.
func (s *Student) AssignHonorific(pick Picker) bool {
	if s.Honorific != "" {
		return false
	}
	s.Honorific = HonorificPool[pick(len(HonorificPool))]
	return true
}

// Clone создаёт глубокую копию ученика.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	if s.Stats != nil {
		stats := *s.Stats
		clone.Stats = &stats
	}
	return &clone
}

// CloneList создаёт глубокую копию списка учеников.
// Используется при репликации, чтобы производные агрегаты
// не делили память с авторитетным списком.
func CloneList(students []Student) []Student {
	if students == nil {
		return nil
	}

	out := make([]Student, len(students))
	for i := range students {
		out[i] = *students[i].Clone()
	}
	return out
}

// String возвращает строковое представление ученика для логирования.
func (s *Student) String() string {
	level, exp := Level(0), Exp(0)
	if s.Stats != nil {
		level, exp = s.Stats.Level, s.Stats.Exp
	}
	return fmt.Sprintf(
		"Student{ID: %s, Number: %d, Name: %s, Level: %d, Exp: %d}",
		s.ID, s.Number, s.Name, level, exp,
	)
}
