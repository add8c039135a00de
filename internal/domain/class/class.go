// Package class содержит доменную модель класса: метаданные и встроенные
// (денормализованные) копии списка учеников.
package class

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER: TAGGED UNION
// Старые снимки классов встраивают полный массив учеников, новые хранят
// только счётчик. Оба варианта живут в одном поле "students", поэтому
// форма снимка определяется при разборе, а не предполагается заранее.
// ══════════════════════════════════════════════════════════════════════════════

// RosterKind - форма поля students в снимке класса.
type RosterKind int

const (
	// RosterNone - поле отсутствует или равно null.
	RosterNone RosterKind = iota

	// RosterEmbedded - старая форма: встроенный массив учеников.
	RosterEmbedded

	// RosterSummary - новая форма: только количество учеников.
	RosterSummary
)

// Roster - размеченное объединение двух форм поля students.
// Читатели обязаны ветвиться по Kind, а не угадывать форму.
type Roster struct {
	Kind     RosterKind
	Students []student.Student
	Count    int
}

// EmbeddedRoster создаёт ростер старой формы.
func EmbeddedRoster(students []student.Student) Roster {
	return Roster{Kind: RosterEmbedded, Students: students}
}

// SummaryRoster создаёт ростер новой формы.
func SummaryRoster(count int) Roster {
	return Roster{Kind: RosterSummary, Count: count}
}

// Len возвращает число учеников независимо от формы.
func (r Roster) Len() int {
	switch r.Kind {
	case RosterEmbedded:
		return len(r.Students)
	case RosterSummary:
		return r.Count
	default:
		return 0
	}
}

// MarshalJSON сериализует ростер в ту же форму, из которой он был прочитан.
func (r Roster) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RosterEmbedded:
		if r.Students == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Students)
	case RosterSummary:
		return json.Marshal(r.Count)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON распознаёт форму поля: массив, число или null.
func (r *Roster) UnmarshalJSON(data []byte) error {
	trimmed := string(data)
	if trimmed == "null" || trimmed == "" {
		*r = Roster{Kind: RosterNone}
		return nil
	}

	var students []student.Student
	if err := json.Unmarshal(data, &students); err == nil {
		*r = Roster{Kind: RosterEmbedded, Students: students}
		return nil
	}

	var count int
	if err := json.Unmarshal(data, &count); err == nil {
		*r = Roster{Kind: RosterSummary, Count: count}
		return nil
	}

	return fmt.Errorf("class: students field is neither array nor count: %s", trimmed)
}

// ══════════════════════════════════════════════════════════════════════════════
// CLASS INFO
// ══════════════════════════════════════════════════════════════════════════════

// Info - снимок класса: отображаемые метаданные плюс ростер.
// Одна и та же структура используется и в сводке всех классов
// (агрегат class:roster), и в карточке класса (агрегат class:detail:{id}).
type Info struct {
	// ID - идентификатор класса.
	ID string `json:"id"`

	// Name - отображаемое название.
	Name string `json:"name"`

	// Grade - параллель (отображаемая метка, может быть пустой).
	Grade string `json:"grade,omitempty"`

	// Students - встроенная копия списка учеников или счётчик.
	Students Roster `json:"students"`
}

// ErrClassNotFound - класс не найден.
var ErrClassNotFound = errors.New("class not found")

// SetStudents перезаписывает встроенный список целиком (старая форма).
// Снимки новой формы сохраняют форму: у них обновляется только счётчик.
func (c *Info) SetStudents(students []student.Student) {
	if c.Students.Kind == RosterSummary {
		c.Students.Count = len(students)
		return
	}
	c.Students = EmbeddedRoster(student.CloneList(students))
}

// PatchStats переносит stats из переданного списка во встроенные копии,
// сопоставляя учеников по ID. Ученики без пары остаются нетронутыми.
// Для снимков без встроенного списка операция пуста.
// Возвращает число обновлённых копий.
func (c *Info) PatchStats(students []student.Student) int {
	if c.Students.Kind != RosterEmbedded {
		return 0
	}

	byID := make(map[string]*student.Stats, len(students))
	for i := range students {
		if students[i].Stats != nil {
			stats := *students[i].Stats
			byID[students[i].ID] = &stats
		}
	}

	patched := 0
	for i := range c.Students.Students {
		if stats, ok := byID[c.Students.Students[i].ID]; ok {
			s := *stats
			c.Students.Students[i].Stats = &s
			patched++
		}
	}
	return patched
}

// List - сводка всех классов (агрегат class:roster).
type List []Info

// Find возвращает индекс класса в сводке или -1.
func (l List) Find(classID string) int {
	for i := range l {
		if l[i].ID == classID {
			return i
		}
	}
	return -1
}
