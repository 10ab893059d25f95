package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/despensa-api/internal/application/dto"
	"github.com/tu-usuario/despensa-api/internal/application/usecase"
	"github.com/tu-usuario/despensa-api/internal/domain"
	"github.com/tu-usuario/despensa-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memCategoryRepo struct {
	categories map[string]*entity.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[string]*entity.Category)}
}

func (r *memCategoryRepo) Create(c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) GetByName(name string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) List() ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCategoryRepo) Delete(id string) error {
	delete(r.categories, id)
	return nil
}

// countingProductRepo solo implementa lo que el caso de uso de categorías usa.
type countingProductRepo struct {
	byCategory map[string]int
}

func (r *countingProductRepo) Create(*entity.Product) error             { return nil }
func (r *countingProductRepo) GetByID(string) (*entity.Product, error)  { return nil, nil }
func (r *countingProductRepo) Update(*entity.Product) error             { return nil }
func (r *countingProductRepo) RefreshAggregates(string) error           { return nil }
func (r *countingProductRepo) List(int, int) ([]*entity.Product, error) { return nil, nil }
func (r *countingProductRepo) Delete(string) error                      { return nil }
func (r *countingProductRepo) CountByCategory(id string) (int, error)   { return r.byCategory[id], nil }

func buildCategoryUC(byCategory map[string]int) (*usecase.CategoryUseCase, *memCategoryRepo) {
	if byCategory == nil {
		byCategory = map[string]int{}
	}
	repo := newMemCategoryRepo()
	uc := usecase.NewCategoryUseCase(repo, &countingProductRepo{byCategory: byCategory})
	return uc, repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryCreate_OK(t *testing.T) {
	uc, _ := buildCategoryUC(nil)

	out, err := uc.Create(dto.CreateCategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)
	assert.Equal(t, "Lácteos", out.Name)
	assert.NotEmpty(t, out.ID)
}

func TestCategoryCreate_NombreVacio_Rechaza(t *testing.T) {
	uc, _ := buildCategoryUC(nil)

	_, err := uc.Create(dto.CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryCreate_NombreRepetido_RetornaDuplicate(t *testing.T) {
	uc, _ := buildCategoryUC(nil)

	_, err := uc.Create(dto.CreateCategoryRequest{Name: "Granos"})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateCategoryRequest{Name: "Granos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryDelete_SinProductos_Elimina(t *testing.T) {
	uc, repo := buildCategoryUC(nil)
	repo.categories["c1"] = &entity.Category{ID: "c1", Name: "Vacía", CreatedAt: time.Now()}

	require.NoError(t, uc.Delete("c1"))
	assert.NotContains(t, repo.categories, "c1")
}

func TestCategoryDelete_ConProductos_RetornaConflict(t *testing.T) {
	uc, repo := buildCategoryUC(map[string]int{"c1": 3})
	repo.categories["c1"] = &entity.Category{ID: "c1", Name: "Granos", CreatedAt: time.Now()}

	err := uc.Delete("c1")
	assert.ErrorIs(t, err, domain.ErrConflict,
		"una categoría referenciada no se borra: ni cascada ni huérfanos")
	assert.Contains(t, repo.categories, "c1", "la categoría debe seguir existiendo")
}

func TestCategoryDelete_Inexistente_RetornaNotFound(t *testing.T) {
	uc, _ := buildCategoryUC(nil)

	err := uc.Delete("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
