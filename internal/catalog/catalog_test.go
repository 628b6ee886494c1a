package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/mercadito-backend/pkg/db/dbtest"
	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
	"github.com/angelmondragon/mercadito-backend/pkg/pagination"
)

type fixture struct {
	db     *gorm.DB
	drinks *models.Category
	bakery *models.Category
	svc    Service
	repo   Repository
	byName map[string]*models.Product
}

func seedCatalog(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	drinks := &models.Category{Name: "Bebidas", Slug: "bebidas"}
	bakery := &models.Category{Name: "Almacén", Slug: "almacen"}
	dbtest.MustCreate(t, conn, drinks)
	dbtest.MustCreate(t, conn, bakery)

	products := []*models.Product{
		{CategoryID: drinks.ID, Name: "Agua mineral", Description: "Sin gas 2L", Price: decimal.RequireFromString("900"), Stock: 10, IsActive: true},
		{CategoryID: drinks.ID, Name: "Jugo de naranja", Description: "Exprimido", Price: decimal.RequireFromString("1500"), OfferPrice: decimal.NewNullDecimal(decimal.RequireFromString("1200")), Stock: 4, IsActive: true, Promoted: true},
		{CategoryID: bakery.ID, Name: "Pan lactal", Description: "Con semillas de NARANJA", Price: decimal.RequireFromString("2100"), Stock: 3, IsActive: true},
		{CategoryID: bakery.ID, Name: "Galletitas", Description: "Discontinuado", Price: decimal.RequireFromString("700"), Stock: 50, IsActive: false},
	}
	byName := map[string]*models.Product{}
	for _, p := range products {
		dbtest.MustCreate(t, conn, p)
		byName[p.Name] = p
	}

	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return &fixture{db: conn, drinks: drinks, bakery: bakery, svc: svc, repo: repo, byName: byName}
}

func names(page *ProductPage) []string {
	out := make([]string, 0, len(page.Results))
	for _, p := range page.Results {
		out = append(out, p.Name)
	}
	return out
}

func TestListProductsDefaultsToActiveByName(t *testing.T) {
	f := seedCatalog(t)

	page, err := f.svc.ListProducts(context.Background(), ProductFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Agua mineral", "Jugo de naranja", "Pan lactal"}, names(page))
	assert.Equal(t, int64(3), page.Meta.Count)
	assert.Equal(t, pagination.DefaultPageSize, page.Meta.PageSize)
	assert.False(t, page.Meta.HasNext)
	require.NotNil(t, page.Results[0].Category)
	assert.Equal(t, "bebidas", page.Results[0].Category.Slug)
}

func TestListProductsFilters(t *testing.T) {
	f := seedCatalog(t)
	ctx := context.Background()

	page, err := f.svc.ListProducts(ctx, ProductFilters{CategoryID: &f.bakery.ID}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pan lactal"}, names(page))

	promoted := true
	page, err = f.svc.ListProducts(ctx, ProductFilters{Promoted: &promoted}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jugo de naranja"}, names(page))
	require.NotNil(t, page.Results[0].OfferPrice)
	assert.Equal(t, "1200.00", *page.Results[0].OfferPrice)

	page, err = f.svc.ListProducts(ctx, ProductFilters{Search: "Naranja"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jugo de naranja", "Pan lactal"}, names(page))
}

func TestListProductsOrderingAndPaging(t *testing.T) {
	f := seedCatalog(t)
	ctx := context.Background()

	page, err := f.svc.ListProducts(ctx, ProductFilters{Ordering: "-price"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pan lactal", "Jugo de naranja", "Agua mineral"}, names(page))

	page, err = f.svc.ListProducts(ctx, ProductFilters{Ordering: "stock; DROP TABLE products"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Agua mineral", "Jugo de naranja", "Pan lactal"}, names(page), "unknown ordering falls back to name")

	page, err = f.svc.ListProducts(ctx, ProductFilters{}, pagination.Params{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pan lactal"}, names(page))
	assert.Equal(t, 2, page.Meta.Page)
}

func TestGetProductHidesInactive(t *testing.T) {
	f := seedCatalog(t)
	ctx := context.Background()

	got, err := f.svc.GetProduct(ctx, f.byName["Agua mineral"].ID)
	require.NoError(t, err)
	assert.Equal(t, "900.00", got.Price)
	assert.Nil(t, got.OfferPrice)

	_, err = f.svc.GetProduct(ctx, f.byName["Galletitas"].ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)

	_, err = f.svc.GetProduct(ctx, uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestCategories(t *testing.T) {
	f := seedCatalog(t)
	ctx := context.Background()

	list, err := f.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Almacén", list[0].Name)

	got, err := f.svc.GetCategory(ctx, f.drinks.ID)
	require.NoError(t, err)
	assert.Equal(t, "bebidas", got.Slug)

	_, err = f.svc.GetCategory(ctx, uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestDecrementStockIsGuarded(t *testing.T) {
	f := seedCatalog(t)
	ctx := context.Background()
	bread := f.byName["Pan lactal"]

	require.NoError(t, f.repo.DecrementStock(ctx, bread.ID, 2))
	err := f.repo.DecrementStock(ctx, bread.ID, 2)
	assert.True(t, errors.Is(err, ErrStockConflict), "got %v", err)

	locked, err := f.repo.FindProductForUpdate(ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, locked.Stock)

	inactive, err := f.repo.FindProductForUpdate(ctx, f.byName["Galletitas"].ID)
	require.NoError(t, err, "locked lookup returns inactive rows so checkout can report them")
	assert.False(t, inactive.IsActive)
}

func TestExpirePromotions(t *testing.T) {
	f := seedCatalog(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	juice := f.byName["Jugo de naranja"]
	water := f.byName["Agua mineral"]
	require.NoError(t, f.db.Model(juice).Update("promoted_until", past).Error)
	require.NoError(t, f.db.Model(water).Updates(map[string]any{"promoted": true, "promoted_until": future}).Error)

	expired, err := f.repo.ExpirePromotions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	var reloaded models.Product
	require.NoError(t, f.db.First(&reloaded, "id = ?", juice.ID).Error)
	assert.False(t, reloaded.Promoted)
	require.NoError(t, f.db.First(&reloaded, "id = ?", water.ID).Error)
	assert.True(t, reloaded.Promoted, "promotion still inside its window")
}
