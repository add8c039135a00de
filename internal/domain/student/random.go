package student

import "math/rand"

// Picker выбирает индекс в диапазоне [0, n).
// Случайный выбор вынесен в зависимость, чтобы тесты могли
// подставить детерминированную последовательность.
type Picker func(n int) int

// RandPicker возвращает Picker поверх math/rand.
func RandPicker(r *rand.Rand) Picker {
	return func(n int) int {
		if n <= 0 {
			return 0
		}
		return r.Intn(n)
	}
}

// FixedPicker возвращает Picker, который всегда выбирает один индекс.
// Удобен в тестах.
func FixedPicker(idx int) Picker {
	return func(n int) int {
		if n <= 0 {
			return 0
		}
		return idx % n
	}
}

// HonorificPool - фиксированный пул титулов. Пустой титул заполняется
// случайным значением отсюда при первом показе списка класса.
var HonorificPool = []string{
	"Explorer",
	"Strategist",
	"Pathfinder",
	"Guardian",
	"Trailblazer",
	"Sage",
	"Challenger",
	"Dreamer",
}

// ResetIconPool - фиксированный пул аватарок-заглушек, из которого
// выбирается замена при массовом сбросе класса.
var ResetIconPool = []string{
	"icon-seed-1",
	"icon-seed-2",
	"icon-seed-3",
	"icon-seed-4",
}
