package httphandler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

const (
	maxUploadSize   = 16 << 20
	multipartMemory = 8 << 20
)

type ProductsHandler struct {
	catalog port.Catalog
}

func RegisterProducts(mux *http.ServeMux, catalog port.Catalog) {
	h := ProductsHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.Handle("POST /v1/admin/products", RequireAdmin(
		http.HandlerFunc(h.PostProduct),
	))
	mux.Handle("PATCH /v1/admin/products/{id}", RequireAdmin(
		http.HandlerFunc(h.PatchProduct),
	))
	mux.Handle("DELETE /v1/admin/products/{id}", RequireAdmin(
		http.HandlerFunc(h.DeleteProduct),
	))
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, log, err)
		return
	}

	ps, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, log, err)
		return
	}

	res := make([]Product, len(ps))
	for i, p := range ps {
		res[i] = toProduct(p)
	}
	writeJSON(w, log, http.StatusOK, res)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toProduct(p))
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	log := slog.With("op", op)

	form, err := parseProductForm(w, r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	np, err := form.newProduct()
	if err != nil {
		writeError(w, log, err)
		return
	}

	id, err := h.catalog.AddProduct(r.Context(), np)
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("product added", "id", id)
	writeJSON(w, log, http.StatusCreated, Created{id})
}

func (h ProductsHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PatchProduct"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	form, err := parseProductForm(w, r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	patch, err := form.patch()
	if err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.catalog.UpdateProduct(r.Context(), id, patch); err != nil {
		writeError(w, log, err)
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("product updated", "id", id)
	writeJSON(w, log, http.StatusOK, toProduct(p))
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("product deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func parseFilter(q url.Values) (domain.ProductFilter, error) {
	var f domain.ProductFilter

	if v := q.Get("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("%w: invalid available", domain.ErrValidation)
		}
		f.AvailableOnly = available
	}

	var err error
	if f.MinPrice, err = optionalPrice(q, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optionalPrice(q, "max_price"); err != nil {
		return f, err
	}
	return f, nil
}

func optionalPrice(q url.Values, key string) (*decimal.Decimal, error) {
	if !q.Has(key) {
		return nil, nil
	}
	d, err := decimal.NewFromString(q.Get(key))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", domain.ErrValidation, key)
	}
	return &d, nil
}

// A productForm is the parsed multipart body of the admin product forms.
type productForm struct {
	values url.Values
	image  []byte
}

func parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return productForm{}, fmt.Errorf(
			"%w: invalid multipart form", domain.ErrValidation,
		)
	}

	form := productForm{values: url.Values(r.MultipartForm.Value)}

	f, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return productForm{}, fmt.Errorf("%w: invalid image", domain.ErrValidation)
	}
	defer f.Close()

	form.image, err = io.ReadAll(f)
	if err != nil {
		return productForm{}, fmt.Errorf("%w: invalid image", domain.ErrValidation)
	}
	return form, nil
}

func (f productForm) newProduct() (domain.NewProduct, error) {
	price, err := f.price()
	if err != nil {
		return domain.NewProduct{}, err
	}
	if price == nil {
		return domain.NewProduct{}, fmt.Errorf(
			"%w: price is required", domain.ErrValidation,
		)
	}

	available, err := f.available()
	if err != nil {
		return domain.NewProduct{}, err
	}

	// a new product is on sale unless the form says otherwise
	np := domain.NewProduct{
		Name:        f.values.Get("name"),
		Price:       *price,
		Available:   true,
		Image:       f.image,
		Description: f.values.Get("description"),
		Color:       f.values.Get("color"),
		Size:        f.values.Get("size"),
	}
	if available != nil {
		np.Available = *available
	}
	return np, nil
}

func (f productForm) patch() (domain.ProductPatch, error) {
	var (
		p   domain.ProductPatch
		err error
	)

	if p.Price, err = f.price(); err != nil {
		return p, err
	}
	if p.Available, err = f.available(); err != nil {
		return p, err
	}
	p.Name = f.text("name")
	p.Description = f.text("description")
	p.Color = f.text("color")
	p.Size = f.text("size")
	p.Image = f.image
	return p, nil
}

func (f productForm) text(key string) *string {
	if !f.values.Has(key) {
		return nil
	}
	v := f.values.Get(key)
	return &v
}

func (f productForm) price() (*decimal.Decimal, error) {
	return optionalPrice(f.values, "price")
}

func (f productForm) available() (*bool, error) {
	if !f.values.Has("available") {
		return nil, nil
	}
	v, err := strconv.ParseBool(f.values.Get("available"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid available", domain.ErrValidation)
	}
	return &v, nil
}
