package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/itechlabs/comercial-insights/internal/analysis"
	"github.com/itechlabs/comercial-insights/internal/domain"
	"github.com/itechlabs/comercial-insights/internal/ingest"
	"github.com/itechlabs/comercial-insights/internal/service"
	"github.com/itechlabs/comercial-insights/internal/storage"
	"github.com/itechlabs/comercial-insights/internal/table"
)

// Multipart field names of the four expected uploads.
const (
	FieldInvoiced  = "invoiced"
	FieldQuotes    = "quotes"
	FieldOrders    = "orders"
	FieldInventory = "inventory"
)

type AnalysisHandler struct {
	service  *service.AnalysisService
	archiver storage.Archiver
}

func NewAnalysisHandler(svc *service.AnalysisService, archiver storage.Archiver) *AnalysisHandler {
	if archiver == nil {
		archiver = storage.NewNoopArchiver()
	}
	return &AnalysisHandler{service: svc, archiver: archiver}
}

// Analyze accepts the four spreadsheet uploads in one multipart request
// and responds with the full report bundle. All four files must be
// present; nothing is computed otherwise.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "details": err.Error()})
		return
	}

	files := make(map[string][]byte, 4)
	names := make(map[string]string, 4)
	for _, field := range []string{FieldInvoiced, FieldQuotes, FieldOrders, FieldInventory} {
		fh := firstFile(form, field)
		if fh == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing upload %q: all four spreadsheets are required", field)})
			return
		}
		data, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("read upload %q failed", field), "details": err.Error()})
			return
		}
		files[field] = data
		names[field] = fh.Filename
	}

	input, err := decodeBatch(files, names)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := domain.AnalysisOptions{
		LocationClass: domain.ParseLocationClass(c.PostForm("location_class")),
	}

	report, err := h.service.Analyze(c.Request.Context(), input, opts)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrMissingInput):
			status = http.StatusBadRequest
		case errors.Is(err, analysis.ErrInvoiceDatesMissing):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Archive the raw batch after a successful run; failures only log.
	batch := service.InputHash(input, opts)[:12]
	for field, data := range files {
		if err := h.archiver.Archive(c.Request.Context(), batch, field+filepath.Ext(names[field]), data); err != nil {
			log.Warn().Err(err).Str("field", field).Msg("upload archival failed")
		}
	}

	c.JSON(http.StatusOK, report)
}

// LastReport returns the report of the most recent successful run.
func (h *AnalysisHandler) LastReport(c *gin.Context) {
	report, err := h.service.LastReport()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func decodeBatch(files map[string][]byte, names map[string]string) (domain.AnalysisInput, error) {
	var input domain.AnalysisInput

	read := func(field string, offset int) (*table.Table, error) {
		t, err := readTable(names[field], files[field], offset)
		if err != nil {
			return nil, fmt.Errorf("parse %q upload: %w", field, err)
		}
		return t, nil
	}

	invoiced, err := read(FieldInvoiced, ingest.InvoiceHeaderOffset)
	if err != nil {
		return input, err
	}
	quotes, err := read(FieldQuotes, ingest.DefaultHeaderOffset)
	if err != nil {
		return input, err
	}
	orders, err := read(FieldOrders, ingest.DefaultHeaderOffset)
	if err != nil {
		return input, err
	}
	inventory, err := read(FieldInventory, ingest.DefaultHeaderOffset)
	if err != nil {
		return input, err
	}

	input.Invoices = ingest.PrepareTransactions(invoiced, domain.StageInvoice)
	input.Quotes = ingest.PrepareTransactions(quotes, domain.StageQuote)
	input.Orders = ingest.PrepareTransactions(orders, domain.StageOrder)
	input.Inventory = ingest.PrepareInventory(inventory)
	return input, nil
}

func readTable(filename string, data []byte, headerOffset int) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return ingest.ReadXLSX(bytes.NewReader(data), headerOffset)
	}
	return ingest.ReadCSV(bytes.NewReader(data), headerOffset)
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || form.File == nil {
		return nil
	}
	if fhs := form.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
