package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/shopcraft/storefront/internal/catalog/domain"
)

func (s *Server) CreateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch, err := parseProductPatch(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	userID, err := parseFormUserID(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	uploads, err := readFormUploads(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateRequest{
		UserID:  userID,
		Patch:   patch,
		Uploads: uploads,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch, err := parseProductPatch(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	userID, err := parseFormUserID(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	keepImageIDs, err := parseKeepImageIDs(formValue(form, "keepImageIds"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	uploads, err := readFormUploads(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.Update(c.Request.Context(), catalogdomain.UpdateRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		UserID:       userID,
		Patch:        patch,
		KeepImageIDs: keepImageIDs,
		Uploads:      uploads,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	resp, err := s.catalogSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.catalogSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.catalogSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func parseProductPatch(form *multipart.Form) (catalogdomain.Patch, error) {
	price, err := parseFormFloat(form, "price")
	if err != nil {
		return catalogdomain.Patch{}, newValidationError("price", "invalid_price", "invalid value")
	}
	discount, err := parseFormFloat(form, "discount")
	if err != nil {
		return catalogdomain.Patch{}, newValidationError("discount", "invalid_discount", "invalid value")
	}
	stock, err := parseFormInt(form, "stock")
	if err != nil {
		return catalogdomain.Patch{}, newValidationError("stock", "invalid_stock", "invalid value")
	}

	return catalogdomain.Patch{
		Name:        strings.TrimSpace(formValue(form, "p_name")),
		Description: strings.TrimSpace(formValue(form, "description")),
		Price:       price,
		Discount:    discount,
		Stock:       stock,
	}, nil
}

func parseFormUserID(form *multipart.Form) (int64, error) {
	raw := strings.TrimSpace(formValue(form, "userid"))
	if raw == "" {
		return 0, newValidationError("userid", "invalid_user", "invalid value")
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, newValidationError("userid", "invalid_user", "invalid value")
	}
	return id.Int64(), nil
}

// parseKeepImageIDs decodes a JSON array of image ids; both string and
// numeric elements are accepted. An absent field clears every stored image.
func parseKeepImageIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var elems []any
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, newValidationError("keepImageIds", "invalid_keep_image_ids", "invalid value")
	}

	ids := make([]int64, 0, len(elems))
	for _, elem := range elems {
		switch v := elem.(type) {
		case string:
			id, err := snowflake.ParseString(strings.TrimSpace(v))
			if err != nil {
				return nil, newValidationError("keepImageIds", "invalid_keep_image_ids", "invalid value")
			}
			ids = append(ids, id.Int64())
		case float64:
			ids = append(ids, int64(v))
		default:
			return nil, newValidationError("keepImageIds", "invalid_keep_image_ids", "invalid value")
		}
	}
	return ids, nil
}

func readFormUploads(form *multipart.Form) ([]catalogdomain.Upload, error) {
	files := form.File["images"]
	uploads := make([]catalogdomain.Upload, 0, len(files))
	for _, header := range files {
		data, err := readFormFile(header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, catalogdomain.Upload{
			Filename: header.Filename,
			Data:     data,
		})
	}
	return uploads, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func parseFormFloat(form *multipart.Form, key string) (float64, error) {
	raw := strings.TrimSpace(formValue(form, key))
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseFormInt(form *multipart.Form, key string) (int, error) {
	raw := strings.TrimSpace(formValue(form, key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidID,
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidPrice,
		catalogdomain.ErrInvalidDiscount,
		catalogdomain.ErrInvalidStock,
		catalogdomain.ErrInvalidUser:
		return true
	default:
		return false
	}
}
