// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORAGE_DRIVER=memory y como doble de pruebas de casos de uso y handlers.
package memory

import (
	"sync"

	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

type materialRecord struct {
	material entity.Material
	imports  []entity.ImportEntry
	usages   []entity.UsageEntry
}

// Store estado compartido por los repositorios en memoria. Un único mutex serializa las mutaciones,
// lo que hace atómica cada operación del libro.
type Store struct {
	mu        sync.RWMutex
	companies map[string]entity.Company
	users     map[string]entity.User
	materials map[string]*materialRecord
	matOrder  []string // ids en orden de creación
	orders    map[string]entity.MaterialOrder
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies: make(map[string]entity.Company),
		users:     make(map[string]entity.User),
		materials: make(map[string]*materialRecord),
		orders:    make(map[string]entity.MaterialOrder),
	}
}

// Companies repositorio de empresas sobre este almacén.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// Users repositorio de usuarios sobre este almacén.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Materials repositorio de materiales sobre este almacén.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{s: s} }

// Orders repositorio de pedidos sobre este almacén.
func (s *Store) Orders() *MaterialOrderRepo { return &MaterialOrderRepo{s: s} }
