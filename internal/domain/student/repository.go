package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над авторитетным списком учеников класса.
// Список хранится одним снимком на класс; отсутствие снимка равнозначно
// пустому классу и никогда не является ошибкой.
type Repository interface {
	// List возвращает авторитетный список учеников класса.
	// Отсутствие данных означает пустой список, не ошибку.
	List(ctx context.Context, classID string) ([]Student, error)

	// Get возвращает ученика по ID.
	// Возвращает ErrStudentNotFound, если ученик не найден.
	Get(ctx context.Context, classID, studentID string) (*Student, error)

	// Replace целиком заменяет авторитетный список класса.
	// Все мутации сводятся к чтению, изменению и записи одного снимка.
	Replace(ctx context.Context, classID string, students []Student) error

	// Save заменяет одну запись в авторитетном списке, сопоставляя по ID.
	// Возвращает ErrStudentNotFound, если записи нет.
	Save(ctx context.Context, classID string, s Student) error
}

// Replicator распространяет авторитетный список в производные агрегаты
// (сводку всех классов и карточку класса). Производные копии - best effort:
// отсутствующий агрегат пропускается молча, ошибка записи в один агрегат
// не мешает остальным. Возвращается список описаний ошибок.
type Replicator interface {
	// PropagateList целиком перезаписывает встроенные списки учеников
	// в обоих агрегатах класса.
	PropagateList(ctx context.Context, classID string, students []Student) []string

	// PropagateStats переносит в агрегаты только поле stats,
	// сопоставляя учеников по ID. Прочие поля встроенных копий
	// и несовпавшие ученики остаются нетронутыми.
	PropagateStats(ctx context.Context, classID string, students []Student) []string
}

// NormalizeOutcome - итог прохода нормализации по классу.
type NormalizeOutcome struct {
	// Processed - сколько записей было пересчитано.
	Processed int

	// Errors - накопленные некритичные ошибки (восстановленные stats,
	// сбои репликации). Ни одна из них не отменяет уже записанные данные.
	Errors []string
}
