package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"orderservice/pkg/common/domain"
	"orderservice/pkg/order/domain/model"
)

const (
	maxDescriptionLength = 1000
	minProductFeatures   = 3
	minProductImages     = 1
)

type ProductFeatureInput struct {
	Name        string
	Description string
}

type ProductImageInput struct {
	URL         string
	Description string
}

type ProductInput struct {
	UserID            uuid.UUID
	Name              string
	PriceCents        int64
	AvailableQuantity int
	Description       string
	Category          string
	Features          []ProductFeatureInput
	Images            []ProductImageInput
}

// ProductPatch is a partial product update. Nil fields keep their value.
type ProductPatch struct {
	Name              *string
	PriceCents        *int64
	AvailableQuantity *int
	Description       *string
	Category          *string
	Features          *[]ProductFeatureInput
	Images            *[]ProductImageInput
}

type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, patch ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

func NewProductService(repo model.ProductRepository, users model.UserReader, dispatcher domain.EventDispatcher) ProductService {
	return &productService{
		repo:       repo,
		users:      users,
		dispatcher: dispatcher,
	}
}

type productService struct {
	repo       model.ProductRepository
	users      model.UserReader
	dispatcher domain.EventDispatcher
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	errs := validateProductInput(input)
	if input.UserID == uuid.Nil {
		errs.Add("userId", "must be a valid UUID")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := s.users.Find(ctx, input.UserID); err != nil {
		return nil, err
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:                productID,
		UserID:            input.UserID,
		Name:              input.Name,
		PriceCents:        input.PriceCents,
		AvailableQuantity: input.AvailableQuantity,
		Description:       input.Description,
		Category:          input.Category,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if product.Features, err = s.newFeatures(input.Features); err != nil {
		return nil, err
	}
	if product.Images, err = s.newImages(input.Images); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	dispatchEvents(s.dispatcher, model.ProductCreated{ProductID: productID, Name: product.Name})
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

// UpdateProduct applies the fields present in patch. Sent feature or image
// lists replace the stored ones. The owner of a product never changes.
func (s *productService) UpdateProduct(ctx context.Context, productID uuid.UUID, patch ProductPatch) (*model.Product, error) {
	if err := validateProductPatch(patch).Err(); err != nil {
		return nil, err
	}

	product, err := s.repo.Find(ctx, productID)
	if err != nil {
		return nil, err
	}

	var fields model.ProductFields
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.PriceCents != nil {
		product.PriceCents = *patch.PriceCents
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.AvailableQuantity != nil {
		product.AvailableQuantity = *patch.AvailableQuantity
		fields.Stock = true
	}
	if patch.Features != nil {
		if product.Features, err = s.newFeatures(*patch.Features); err != nil {
			return nil, err
		}
		fields.Features = true
	}
	if patch.Images != nil {
		if product.Images, err = s.newImages(*patch.Images); err != nil {
			return nil, err
		}
		fields.Images = true
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product, fields); err != nil {
		return nil, err
	}

	dispatchEvents(s.dispatcher, model.ProductUpdated{ProductID: productID})
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	dispatchEvents(s.dispatcher, model.ProductRemoved{ProductID: productID})
	return nil
}

func (s *productService) newFeatures(inputs []ProductFeatureInput) ([]model.ProductFeature, error) {
	features := make([]model.ProductFeature, 0, len(inputs))
	for _, feature := range inputs {
		id, err := s.repo.NextID()
		if err != nil {
			return nil, err
		}
		features = append(features, model.ProductFeature{ID: id, Name: feature.Name, Description: feature.Description})
	}
	return features, nil
}

func (s *productService) newImages(inputs []ProductImageInput) ([]model.ProductImage, error) {
	images := make([]model.ProductImage, 0, len(inputs))
	for _, image := range inputs {
		id, err := s.repo.NextID()
		if err != nil {
			return nil, err
		}
		images = append(images, model.ProductImage{ID: id, URL: image.URL, Description: image.Description})
	}
	return images, nil
}

func validateProductInput(input ProductInput) model.ValidationErrors {
	var errs model.ValidationErrors
	validateProductName(&errs, input.Name)
	validateProductPrice(&errs, input.PriceCents)
	validateProductQuantity(&errs, input.AvailableQuantity)
	validateProductDescription(&errs, input.Description)
	validateProductCategory(&errs, input.Category)
	validateProductFeatures(&errs, input.Features)
	validateProductImages(&errs, input.Images)
	return errs
}

// validateProductPatch applies the creation rules to the fields that are set.
func validateProductPatch(patch ProductPatch) model.ValidationErrors {
	var errs model.ValidationErrors
	if patch.Name != nil {
		validateProductName(&errs, *patch.Name)
	}
	if patch.PriceCents != nil {
		validateProductPrice(&errs, *patch.PriceCents)
	}
	if patch.AvailableQuantity != nil {
		validateProductQuantity(&errs, *patch.AvailableQuantity)
	}
	if patch.Description != nil {
		validateProductDescription(&errs, *patch.Description)
	}
	if patch.Category != nil {
		validateProductCategory(&errs, *patch.Category)
	}
	if patch.Features != nil {
		validateProductFeatures(&errs, *patch.Features)
	}
	if patch.Images != nil {
		validateProductImages(&errs, *patch.Images)
	}
	return errs
}

func validateProductName(errs *model.ValidationErrors, name string) {
	if strings.TrimSpace(name) == "" {
		errs.Add("name", "must not be empty")
	}
}

func validateProductPrice(errs *model.ValidationErrors, priceCents int64) {
	if priceCents < 1 {
		errs.Add("price", "must be greater than zero")
	}
}

func validateProductQuantity(errs *model.ValidationErrors, quantity int) {
	if quantity < 1 {
		errs.Add("availableQuantity", "must be at least 1")
	}
}

func validateProductDescription(errs *model.ValidationErrors, description string) {
	if strings.TrimSpace(description) == "" {
		errs.Add("description", "must not be empty")
	} else if len(description) > maxDescriptionLength {
		errs.Add("description", "must not exceed 1000 characters")
	}
}

func validateProductCategory(errs *model.ValidationErrors, category string) {
	if strings.TrimSpace(category) == "" {
		errs.Add("category", "must not be empty")
	}
}

func validateProductFeatures(errs *model.ValidationErrors, features []ProductFeatureInput) {
	if len(features) < minProductFeatures {
		errs.Add("features", fmt.Sprintf("must contain at least %d features", minProductFeatures))
	}
	for i, feature := range features {
		if strings.TrimSpace(feature.Name) == "" {
			errs.Add(fmt.Sprintf("features[%d].name", i), "must not be empty")
		}
		if strings.TrimSpace(feature.Description) == "" {
			errs.Add(fmt.Sprintf("features[%d].description", i), "must not be empty")
		}
	}
}

func validateProductImages(errs *model.ValidationErrors, images []ProductImageInput) {
	if len(images) < minProductImages {
		errs.Add("images", "must contain at least 1 image")
	}
	for i, image := range images {
		if u, err := url.ParseRequestURI(image.URL); err != nil || u.Host == "" {
			errs.Add(fmt.Sprintf("images[%d].url", i), "must be a valid URL")
		}
		if strings.TrimSpace(image.Description) == "" {
			errs.Add(fmt.Sprintf("images[%d].description", i), "must not be empty")
		}
	}
}

func dispatchEvents(dispatcher domain.EventDispatcher, events ...domain.Event) {
	for _, event := range events {
		if err := dispatcher.Dispatch(event); err != nil {
			log.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
		}
	}
}
