package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderservice/pkg/order/application/service"
	"orderservice/pkg/order/domain/model"
)

func setupProducts(t *testing.T) (service.ProductService, *mockProductRepository, *model.User, *mockEventDispatcher) {
	t.Helper()
	owner := &model.User{ID: uuid.New(), Name: "Seller"}
	users := &mockUserRepository{store: map[uuid.UUID]*model.User{owner.ID: owner}}
	repo := &mockProductRepository{store: make(map[uuid.UUID]*model.Product)}
	dispatcher := &mockEventDispatcher{}
	return service.NewProductService(repo, users, dispatcher), repo, owner, dispatcher
}

func validProductInput(userID uuid.UUID) service.ProductInput {
	return service.ProductInput{
		UserID:            userID,
		Name:              "Desk lamp",
		PriceCents:        4990,
		AvailableQuantity: 12,
		Description:       "Adjustable LED desk lamp",
		Category:          "Lighting",
		Features: []service.ProductFeatureInput{
			{Name: "Power", Description: "8W"},
			{Name: "Color", Description: "Black"},
			{Name: "Dimmable", Description: "Yes"},
		},
		Images: []service.ProductImageInput{
			{URL: "https://cdn.example.com/lamp.png", Description: "Front view"},
		},
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	productService, repo, owner, dispatcher := setupProducts(t)

	t.Run("Success", func(t *testing.T) {
		product, err := productService.CreateProduct(ctx, validProductInput(owner.ID))

		require.NoError(t, err)
		assert.Equal(t, owner.ID, product.UserID)
		assert.Equal(t, 12, product.AvailableQuantity)
		require.Len(t, product.Features, 3)
		require.Len(t, product.Images, 1)
		assert.NotEqual(t, uuid.Nil, product.Features[0].ID)

		_, err = repo.Find(ctx, product.ID)
		assert.NoError(t, err)
		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, product.ID, dispatcher.events[0].(model.ProductCreated).ProductID)
	})

	t.Run("Fail on unknown owner", func(t *testing.T) {
		_, err := productService.CreateProduct(ctx, validProductInput(uuid.New()))
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("Fail on invalid input", func(t *testing.T) {
		input := validProductInput(uuid.Nil)
		input.PriceCents = 0
		input.Description = strings.Repeat("x", 1001)
		input.Features = input.Features[:2]
		input.Images[0].URL = "not a url"

		_, err := productService.CreateProduct(ctx, input)

		var validationErrs model.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, fieldErr.Field)
		}
		assert.ElementsMatch(t, []string{"price", "description", "features", "images[0].url", "userId"}, fields)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	productService, repo, owner, dispatcher := setupProducts(t)
	product, err := productService.CreateProduct(ctx, validProductInput(owner.ID))
	require.NoError(t, err)

	t.Run("Rename only", func(t *testing.T) {
		dispatcher.Reset()
		name := "Floor lamp"

		updated, err := productService.UpdateProduct(ctx, product.ID, service.ProductPatch{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Floor lamp", updated.Name)
		assert.Equal(t, owner.ID, updated.UserID)
		assert.Equal(t, int64(4990), updated.PriceCents)
		assert.Len(t, updated.Features, 3)
		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, "ProductUpdated", dispatcher.events[0].Type())
	})

	t.Run("Rename keeps stock taken by a concurrent order", func(t *testing.T) {
		// An order takes 5 units between the read and the write of the update.
		repo.beforeUpdate = func() { repo.store[product.ID].AvailableQuantity -= 5 }
		defer func() { repo.beforeUpdate = nil }()
		name := "Desk lamp"

		_, err := productService.UpdateProduct(ctx, product.ID, service.ProductPatch{Name: &name})

		require.NoError(t, err)
		saved, _ := repo.Find(ctx, product.ID)
		assert.Equal(t, "Desk lamp", saved.Name)
		assert.Equal(t, 7, saved.AvailableQuantity)
	})

	t.Run("Stock is written when sent", func(t *testing.T) {
		quantity := 3

		_, err := productService.UpdateProduct(ctx, product.ID, service.ProductPatch{AvailableQuantity: &quantity})

		require.NoError(t, err)
		saved, _ := repo.Find(ctx, product.ID)
		assert.Equal(t, 3, saved.AvailableQuantity)
	})

	t.Run("Sent images replace the stored ones", func(t *testing.T) {
		images := []service.ProductImageInput{
			{URL: "https://cdn.example.com/a.png", Description: "A"},
			{URL: "https://cdn.example.com/b.png", Description: "B"},
		}

		_, err := productService.UpdateProduct(ctx, product.ID, service.ProductPatch{Images: &images})

		require.NoError(t, err)
		saved, _ := repo.Find(ctx, product.ID)
		require.Len(t, saved.Images, 2)
		assert.Equal(t, "https://cdn.example.com/b.png", saved.Images[1].URL)
		assert.Len(t, saved.Features, 3)
	})

	t.Run("Fail on invalid present fields only", func(t *testing.T) {
		price := int64(0)
		empty := ""

		_, err := productService.UpdateProduct(ctx, product.ID, service.ProductPatch{PriceCents: &price, Category: &empty})

		var validationErrs model.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, fieldErr.Field)
		}
		assert.ElementsMatch(t, []string{"price", "category"}, fields)
	})

	t.Run("Fail on unknown product", func(t *testing.T) {
		name := "Ghost"
		_, err := productService.UpdateProduct(ctx, uuid.New(), service.ProductPatch{Name: &name})
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	productService, _, owner, _ := setupProducts(t)
	product, err := productService.CreateProduct(ctx, validProductInput(owner.ID))
	require.NoError(t, err)

	require.NoError(t, productService.DeleteProduct(ctx, product.ID))

	products, err := productService.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.ErrorIs(t, productService.DeleteProduct(ctx, product.ID), model.ErrProductNotFound)
}
