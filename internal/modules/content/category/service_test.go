package category

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/handywriterz/core/internal/database/dbtest"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDerivesSlugAndScopesByService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(dbtest.New(t))

	cat, err := svc.Create(ctx, &CreateCategoryDTO{Name: "Market Analysis", Service: "crypto"})
	require.NoError(t, err)
	assert.Equal(t, "market-analysis", cat.Slug)

	_, err = svc.Create(ctx, &CreateCategoryDTO{Name: "market analysis", Service: "crypto"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = svc.Create(ctx, &CreateCategoryDTO{Name: "Market Analysis", Service: "finance"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateCategoryDTO{Name: "!!", Service: "crypto"})
	assert.ErrorIs(t, err, ErrEmptySlug)

	crypto, err := svc.List(ctx, "crypto")
	require.NoError(t, err)
	require.Len(t, crypto, 1)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.Lookup(ctx, "crypto", "Market Analysis")
	require.NoError(t, err)
	require.NotNil(t, found)
	found, err = svc.Lookup(ctx, "writing", "Market Analysis")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRenameCarriesPostsAlong(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	svc := NewService(db, WithCache(cache.NewMemory(time.Hour, nil)))

	cat, err := svc.Create(ctx, &CreateCategoryDTO{Name: "DeFi", Service: "crypto"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.PostModel{Title: "p", Slug: "p", Service: "crypto", Category: "DeFi"}).Error)

	_, err = svc.List(ctx, "crypto")
	require.NoError(t, err)

	name := "Decentralised Finance"
	updated, err := svc.Update(ctx, cat.ID, &UpdateCategoryDTO{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "decentralised-finance", updated.Slug)

	cats, err := svc.List(ctx, "crypto")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, name, cats[0].Name)

	var post models.PostModel
	require.NoError(t, db.First(&post, "slug = ?", "p").Error)
	assert.Equal(t, name, post.Category)

	require.NoError(t, svc.Delete(ctx, cat.ID))
	require.NoError(t, db.First(&post, "slug = ?", "p").Error)
	assert.Empty(t, post.Category)
}

func TestHandlerPublicListAndAdminGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(dbtest.New(t))
	_, err := svc.Create(context.Background(), &CreateCategoryDTO{Name: "Essays", Service: "writing"})
	require.NoError(t, err)

	r := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), deny)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/categories?service=writing", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.CategoryModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "essays", body.Data[0].Slug)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/categories", strings.NewReader(`{"name":"X","service":"writing"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
