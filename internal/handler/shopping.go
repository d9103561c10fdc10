package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
)

// csvHeaders is the first row of the CSV shopping list.
var csvHeaders = []string{"name", "measurement_unit", "total_amount"}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart.
// The list is sent as an attachment: plain text by default, CSV with ?format=csv.
func (s *Server) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "txt" && format != "csv" {
		writeError(w, r, http.StatusBadRequest, "validation_error", "format must be txt or csv")
		return
	}

	items, err := s.shopping.List(r.Context(), auth.ViewerFrom(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var (
		body        []byte
		contentType string
		filename    string
	)
	if format == "csv" {
		body, contentType, filename = buildCSV(items), "text/csv; charset=utf-8", "shopping_list.csv"
	} else {
		body, contentType, filename = buildText(items), "text/plain; charset=utf-8", "shopping_list.txt"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// buildText renders one "- name (unit) - amount" line per item.
func buildText(items []domain.ShoppingItem) []byte {
	var buf bytes.Buffer
	buf.WriteString("Shopping list\n\n")
	if len(items) == 0 {
		buf.WriteString("Your cart is empty.\n")
	}
	for _, it := range items {
		fmt.Fprintf(&buf, "- %s (%s) - %d\n", it.Name, it.MeasurementUnit, it.TotalAmount)
	}
	return buf.Bytes()
}

func buildCSV(items []domain.ShoppingItem) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, it := range items {
		//nolint:errcheck
		w.Write([]string{it.Name, it.MeasurementUnit, strconv.FormatInt(it.TotalAmount, 10)})
	}
	w.Flush()
	return buf.Bytes()
}
