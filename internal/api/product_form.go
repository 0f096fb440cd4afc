package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var imageFields = [3]string{"image", "image2", "image3"}

// parseProductForm reads the multipart product form. isActiveDefault is
// used when the is_active field is missing.
func parseProductForm(c *gin.Context, isActiveDefault bool) (store.ProductInput, error) {
	in := store.ProductInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Brand:       strings.TrimSpace(c.PostForm("brand")),
		OEMNo:       strings.TrimSpace(c.PostForm("oem_no")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Badge:       strings.TrimSpace(c.PostForm("badge")),
		IsActive:    isActiveDefault,
	}

	if raw := strings.TrimSpace(c.PostForm("category_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return in, fmt.Errorf("invalid category_id %q", raw)
		}
		in.CategoryID = &id
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
	if err != nil {
		return in, fmt.Errorf("invalid price: %w", err)
	}
	in.Price = price

	if raw := strings.TrimSpace(c.PostForm("old_price")); raw != "" {
		old, err := decimal.NewFromString(raw)
		if err != nil {
			return in, fmt.Errorf("invalid old_price: %w", err)
		}
		in.OldPrice = decimal.NewNullDecimal(old)
	}

	if raw := strings.TrimSpace(c.PostForm("stock")); raw != "" {
		if in.Stock, err = strconv.Atoi(raw); err != nil {
			return in, fmt.Errorf("invalid stock %q", raw)
		}
	}

	if raw, ok := c.GetPostForm("is_active"); ok {
		in.IsActive = isChecked(raw)
	}

	for _, raw := range c.PostFormArray("vehicle_models") {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return in, fmt.Errorf("invalid vehicle model %q", raw)
		}
		in.VehicleModelIDs = append(in.VehicleModelIDs, id)
	}

	return in, nil
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// saveProductImages stores whichever image slots were uploaded. Slots
// without a file stay nil. Returned paths are the files written so far,
// even on error, so the caller can clean them up.
func (h *Handler) saveProductImages(c *gin.Context, in *store.ProductInput) ([]string, error) {
	var saved []string
	for i, field := range imageFields {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return saved, err
		}

		path, err := h.Images.Save(fh, "product")
		if err != nil {
			return saved, err
		}
		saved = append(saved, path)
		p := path
		in.Images[i] = &p
	}
	return saved, nil
}

func (h *Handler) removeImages(paths []string) {
	for _, p := range paths {
		if err := h.Images.Remove(p); err != nil {
			h.logger.Warn("Failed to remove uploaded image", zap.String("path", p), zap.Error(err))
		}
	}
}
