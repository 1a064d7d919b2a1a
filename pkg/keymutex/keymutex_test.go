package keymutex_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/pkg/keymutex"
)

func TestKeyMutex_SerializaConcurrenciaSobreLaMismaClave(t *testing.T) {
	km := keymutex.New()

	const goroutines = 50
	const incrementos = 200
	contador := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < incrementos; j++ {
				km.Lock("SKU-001")
				contador++
				km.Unlock("SKU-001")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*incrementos, contador,
		"todas las secciones críticas deben ejecutarse en exclusión mutua")
}

func TestKeyMutex_ClavesDistintasNoSeBloquean(t *testing.T) {
	km := keymutex.New()

	km.Lock("SKU-A")
	defer km.Unlock("SKU-A")

	listo := make(chan struct{})
	go func() {
		km.Lock("SKU-B") // no debe esperar por SKU-A
		km.Unlock("SKU-B")
		close(listo)
	}()

	// si las claves compartieran candado esto quedaría bloqueado
	<-listo
}

func TestKeyMutex_WithLockPropagaElError(t *testing.T) {
	km := keymutex.New()
	sentinel := errors.New("falló la sección crítica")

	err := km.WithLock("pedido-1", func() error { return sentinel })

	assert.ErrorIs(t, err, sentinel)
}

func TestKeyMutex_WithLockLiberaAunConError(t *testing.T) {
	km := keymutex.New()

	_ = km.WithLock("pedido-1", func() error { return errors.New("x") })

	// si el candado quedó tomado, este segundo WithLock no retornaría
	err := km.WithLock("pedido-1", func() error { return nil })
	require.NoError(t, err)
}

func TestKeyMutex_UnlockDeClaveNoTomadaHacePanic(t *testing.T) {
	km := keymutex.New()
	assert.Panics(t, func() { km.Unlock("nunca-tomada") })
}
