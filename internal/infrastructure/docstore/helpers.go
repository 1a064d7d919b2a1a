package docstore

import (
	"errors"

	"github.com/invorya/wms-api/internal/domain"
)

// window calcula la ventana [from, to) de paginación sobre n elementos.
// limit <= 0 significa sin límite.
func window(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return 0, 0
	}
	to := n
	if limit > 0 && offset+limit < n {
		to = offset + limit
	}
	return offset, to
}

// esNotFound reconoce el miss del almacén para traducirlo a (nil, nil) en
// las búsquedas, siguiendo la convención de los repositorios.
func esNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
