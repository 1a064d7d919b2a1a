// Package keymutex ofrece exclusión mutua por clave. El motor lo usa para
// serializar las secciones leer-decidir-escribir del ledger por SKU y la
// admisión de pedidos a olas por pedido, donde el almacén documental no
// ofrece bloqueo de filas.
package keymutex

import "sync"

// KeyMutex serializa secciones críticas por clave. Claves distintas no se
// bloquean entre sí. El mapa interno no crece sin límite: la entrada se
// libera cuando nadie la sostiene ni la espera.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New crea un KeyMutex listo para usar.
func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*entry)}
}

// Lock toma el candado de la clave; bloquea hasta obtenerlo.
func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock suelta el candado de la clave. Soltar una clave no tomada es un
// error de programación y produce panic.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: Unlock de clave no tomada: " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// WithLock ejecuta fn con el candado de la clave tomado.
func (k *KeyMutex) WithLock(key string, fn func() error) error {
	k.Lock(key)
	defer k.Unlock(key)
	return fn()
}
