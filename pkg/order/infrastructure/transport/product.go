package transport

import (
	"net/http"

	"github.com/google/uuid"

	appservice "orderservice/pkg/order/application/service"
	"orderservice/pkg/order/domain/model"
)

type productFeatureDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productImageDTO struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type productInput struct {
	UserID            string              `json:"userId"`
	Name              string              `json:"name"`
	Price             int64               `json:"price"`
	AvailableQuantity int                 `json:"availableQuantity"`
	Description       string              `json:"description"`
	Category          string              `json:"category"`
	Features          []productFeatureDTO `json:"features"`
	Images            []productImageDTO   `json:"images"`
}

// productPatchInput distinguishes absent fields from zero values.
type productPatchInput struct {
	Name              *string              `json:"name"`
	Price             *int64               `json:"price"`
	AvailableQuantity *int                 `json:"availableQuantity"`
	Description       *string              `json:"description"`
	Category          *string              `json:"category"`
	Features          *[]productFeatureDTO `json:"features"`
	Images            *[]productImageDTO   `json:"images"`
}

type productOutput struct {
	ID                uuid.UUID           `json:"id"`
	UserID            uuid.UUID           `json:"userId"`
	Name              string              `json:"name"`
	Price             int64               `json:"price"`
	AvailableQuantity int                 `json:"availableQuantity"`
	Description       string              `json:"description"`
	Category          string              `json:"category"`
	Features          []productFeatureDTO `json:"features"`
	Images            []productImageDTO   `json:"images"`
}

type productMessageOutput struct {
	Product productOutput `json:"product"`
	Message string        `json:"message"`
}

func (in productInput) toServiceInput() (appservice.ProductInput, error) {
	out := appservice.ProductInput{
		Name:              in.Name,
		PriceCents:        in.Price,
		AvailableQuantity: in.AvailableQuantity,
		Description:       in.Description,
		Category:          in.Category,
	}
	if in.UserID != "" {
		userID, err := uuid.Parse(in.UserID)
		if err != nil {
			return out, badRequest("userId", "must be a valid UUID")
		}
		out.UserID = userID
	}
	for _, feature := range in.Features {
		out.Features = append(out.Features, appservice.ProductFeatureInput{Name: feature.Name, Description: feature.Description})
	}
	for _, image := range in.Images {
		out.Images = append(out.Images, appservice.ProductImageInput{URL: image.URL, Description: image.Description})
	}
	return out, nil
}

func (in productPatchInput) toServicePatch() appservice.ProductPatch {
	patch := appservice.ProductPatch{
		Name:              in.Name,
		PriceCents:        in.Price,
		AvailableQuantity: in.AvailableQuantity,
		Description:       in.Description,
		Category:          in.Category,
	}
	if in.Features != nil {
		features := make([]appservice.ProductFeatureInput, 0, len(*in.Features))
		for _, feature := range *in.Features {
			features = append(features, appservice.ProductFeatureInput{Name: feature.Name, Description: feature.Description})
		}
		patch.Features = &features
	}
	if in.Images != nil {
		images := make([]appservice.ProductImageInput, 0, len(*in.Images))
		for _, image := range *in.Images {
			images = append(images, appservice.ProductImageInput{URL: image.URL, Description: image.Description})
		}
		patch.Images = &images
	}
	return patch
}

func toProductOutput(product *model.Product) productOutput {
	out := productOutput{
		ID:                product.ID,
		UserID:            product.UserID,
		Name:              product.Name,
		Price:             product.PriceCents,
		AvailableQuantity: product.AvailableQuantity,
		Description:       product.Description,
		Category:          product.Category,
		Features:          make([]productFeatureDTO, 0, len(product.Features)),
		Images:            make([]productImageDTO, 0, len(product.Images)),
	}
	for _, feature := range product.Features {
		out.Features = append(out.Features, productFeatureDTO{Name: feature.Name, Description: feature.Description})
	}
	for _, image := range product.Images {
		out.Images = append(out.Images, productImageDTO{URL: image.URL, Description: image.Description})
	}
	return out
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body productInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	input, err := body.toServiceInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, productMessageOutput{Product: toProductOutput(product), Message: "Product created successfully."})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]productOutput, 0, len(products))
	for i := range products {
		out = append(out, toProductOutput(&products[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body productPatchInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), productID, body.toServicePatch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productMessageOutput{Product: toProductOutput(product), Message: "Product updated successfully."})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.products.DeleteProduct(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Product removed successfully."})
}
