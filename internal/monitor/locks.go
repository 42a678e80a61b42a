package monitor

import "sync"

// lockTable выдает по мьютексу на заказ: два конкурентных RecordSample
// по одному заказу не должны перемежать чтение prevStatus и запись статуса,
// иначе детектор переходов сработает дважды или промолчит.
// Разные заказы друг друга не блокируют.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// acquire берет эксклюзив по ключу и возвращает функцию освобождения.
func (t *lockTable) acquire(id string) func() {
	t.mu.Lock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}
