package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"katydid-common-auth/pkg/products"
)

// memoryProductStore 商品存储的内存实现（测试用）
type memoryProductStore struct {
	mu    sync.Mutex
	items map[int64]*products.Product
}

func newMemoryProductStore() *memoryProductStore {
	return &memoryProductStore{items: make(map[int64]*products.Product)}
}

func (s *memoryProductStore) List(_ context.Context, offset, limit int) ([]*products.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*products.Product, 0, len(s.items))
	for _, p := range s.items {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})

	total := int64(len(all))
	if limit <= 0 || offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *memoryProductStore) Get(_ context.Context, id int64) (*products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.items[id]; ok {
		return p, nil
	}
	return nil, products.ErrProductNotFound
}

func (s *memoryProductStore) Create(_ context.Context, product *products.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.UpdatedAt = time.Now()
	s.items[product.ID] = product
	return nil
}

func (s *memoryProductStore) Update(_ context.Context, product *products.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.UpdatedAt = time.Now()
	s.items[product.ID] = product
	return nil
}

func (s *memoryProductStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// loginForProducts 注册并登录，返回带令牌的请求头
func loginForProducts(t *testing.T, r *gin.Engine) map[string]string {
	t.Helper()
	doJSON(t, r, http.MethodPost, "/api/auth/register", validRegister(), nil)
	_, login := doJSON(t, r, http.MethodPost, "/api/auth/login", loginPayload{
		Email:    "ana@example.com",
		Password: "Segura123",
	}, nil)
	return map[string]string{"Authorization": "Bearer " + login.Token}
}

func getPage(t *testing.T, r *gin.Engine, path string, header map[string]string) (*httptest.ResponseRecorder, products.Page) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var page products.Page
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
			t.Fatalf("decode page: %v (%s)", err, w.Body.String())
		}
	}
	return w, page
}

func TestProductListRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/productos", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgUnauthorized, resp.Message)
}

func TestProductListPagination(t *testing.T) {
	r := newTestRouter(t)
	auth := loginForProducts(t, r)

	for i := 0; i < 12; i++ {
		w, _ := doJSON(t, r, http.MethodPost, "/api/productos", products.ProductRequest{
			Nombre:        fmt.Sprintf("Producto %d", i),
			Descripcion:   "Artículo para mascotas",
			Precio:        1000,
			CantidadStock: 5,
		}, auth)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w, page := getPage(t, r, "/api/productos", auth)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, products.PageSize)

	_, page = getPage(t, r, "/api/productos?page=2", auth)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Items, 2)

	// 非数字和越界的页码都回退到第 1 页
	_, page = getPage(t, r, "/api/productos?page=abc", auth)
	assert.Equal(t, 1, page.Number)
	_, page = getPage(t, r, "/api/productos?page=99", auth)
	assert.Equal(t, 1, page.Number)
}

func TestProductCreateValidation(t *testing.T) {
	r := newTestRouter(t)
	auth := loginForProducts(t, r)

	w, resp := doJSON(t, r, http.MethodPost, "/api/productos", products.ProductRequest{
		Descripcion: "sin nombre",
	}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidFields, resp.Message)
	assert.NotEmpty(t, resp.Errors)
}

func TestProductUpdateAndDelete(t *testing.T) {
	r := newTestRouter(t)
	auth := loginForProducts(t, r)

	w, _ := doJSON(t, r, http.MethodPost, "/api/productos", products.ProductRequest{
		Nombre:        "Transportadora para gatos",
		Descripcion:   "Transportadora plástica y ventilada",
		Precio:        65000,
		CantidadStock: 40,
	}, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	var created products.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/productos/%d", created.ID), products.ProductRequest{
		Nombre:        "Transportadora para gatos grande",
		Descripcion:   "Transportadora plástica y ventilada",
		Precio:        72000,
		CantidadStock: 35,
	}, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated products.Product
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "Transportadora para gatos grande", updated.Nombre)

	w, resp := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/productos/%d", created.ID), nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	w, resp = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/productos/%d", created.ID), nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgProductNotFound, resp.Message)
}
