// Package pdf renders report documents. A text template produces the
// document content, a layout pass compiles it to PDF in memory, and the
// result is written under a per-purpose subdirectory of the data
// directory, replacing any prior report at the same path.
package pdf

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/go-pdf/fpdf"

	"fatoora/internal/log"
)

//go:embed templates/*.tmpl
var templates embed.FS

var (
	ErrTemplateMissing = errors.New("report template missing")
	ErrRenderFailed    = errors.New("report rendering failed")
	ErrWriteFailed     = errors.New("report write failed")
)

const (
	invoicesTemplate     = "invoices.tmpl"
	transactionsTemplate = "transactions.tmpl"

	invoicesReportFile     = "invoices_report.pdf"
	transactionsReportFile = "transactions_report.pdf"
)

// SummaryLine is a labeled total printed under the report table.
type SummaryLine struct {
	Label string
	Value string
}

// ReportData carries pre-formatted content for a report. All monetary
// values arrive as display strings; the renderer does no arithmetic.
type ReportData struct {
	CompanyName    string
	CompanyPhone   string
	CompanyAddress string

	CustomerName    string
	CustomerPhone   string
	CustomerAddress string

	Title    string
	FromDate string
	ToDate   string

	Header  []string
	Rows    [][]string
	Summary []SummaryLine
}

// Renderer compiles report templates to PDF files on disk.
type Renderer struct {
	outDir      string
	templateDir string
	logger      *log.Logger
}

// NewRenderer creates a renderer writing under outDir. A non-empty
// templateDir overrides the embedded templates.
func NewRenderer(outDir, templateDir string) *Renderer {
	return &Renderer{
		outDir:      outDir,
		templateDir: templateDir,
		logger:      log.Default(log.ComponentDocument),
	}
}

// InvoicesReport renders the invoices report and returns the file path.
func (r *Renderer) InvoicesReport(ctx context.Context, data ReportData) (string, error) {
	return r.render(ctx, invoicesTemplate, "invoices", invoicesReportFile, data)
}

// TransactionsReport renders a customer ledger report and returns the
// file path.
func (r *Renderer) TransactionsReport(ctx context.Context, data ReportData) (string, error) {
	return r.render(ctx, transactionsTemplate, "transactions", transactionsReportFile, data)
}

func (r *Renderer) render(ctx context.Context, templateName, subdir, filename string, data ReportData) (string, error) {
	tmpl, err := r.loadTemplate(templateName)
	if err != nil {
		return "", err
	}

	var content bytes.Buffer
	if err := tmpl.Execute(&content, data); err != nil {
		return "", fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, templateName, err)
	}

	doc, err := layout(content.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	path, err := r.write(subdir, filename, out.Bytes())
	if err != nil {
		return "", err
	}

	r.logger.InfoContext(ctx, "report rendered",
		"path", path,
		"rows", len(data.Rows),
		"bytes", out.Len())

	return path, nil
}

// loadTemplate reads the named template from the override directory
// when configured, the embedded set otherwise.
func (r *Renderer) loadTemplate(name string) (*template.Template, error) {
	funcs := template.FuncMap{
		"cells": func(cells []string) string { return strings.Join(cells, "\t") },
	}

	var (
		raw []byte
		err error
	)
	if r.templateDir != "" {
		raw, err = os.ReadFile(filepath.Join(r.templateDir, name))
	} else {
		raw, err = templates.ReadFile("templates/" + name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateMissing, name, err)
	}

	tmpl, err := template.New(name).Funcs(funcs).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	return tmpl, nil
}

// layout compiles rendered template content to an in-memory document.
// Lines starting with "# " become the title, tab-separated lines become
// table rows with the first row of each run styled as a header, blank
// lines add vertical space and everything else is body text.
func layout(content string) (*fpdf.Fpdf, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 10, 10)
	doc.AddPage()

	pageWidth, _ := doc.GetPageSize()
	usable := pageWidth - 20

	inTable := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "# "):
			inTable = false
			doc.SetFont("Helvetica", "B", 16)
			doc.CellFormat(usable, 10, strings.TrimPrefix(line, "# "), "", 1, "L", false, 0, "")
		case line == "":
			inTable = false
			doc.Ln(4)
		case strings.Contains(line, "\t"):
			cells := strings.Split(line, "\t")
			width := usable / float64(len(cells))
			if !inTable {
				doc.SetFont("Helvetica", "B", 10)
				doc.SetFillColor(230, 230, 230)
				for _, cell := range cells {
					doc.CellFormat(width, 8, cell, "1", 0, "L", true, 0, "")
				}
				inTable = true
			} else {
				doc.SetFont("Helvetica", "", 10)
				for _, cell := range cells {
					doc.CellFormat(width, 7, cell, "1", 0, "L", false, 0, "")
				}
			}
			doc.Ln(-1)
		default:
			inTable = false
			doc.SetFont("Helvetica", "", 11)
			doc.CellFormat(usable, 6, line, "", 1, "L", false, 0, "")
		}
	}

	if doc.Err() {
		return nil, doc.Error()
	}
	return doc, nil
}

// write persists the document under outDir/subdir/filename. The bytes
// land in a temporary file first and replace the target by rename, so
// a failed write never leaves a truncated report behind.
func (r *Renderer) write(subdir, filename string, data []byte) (string, error) {
	dir := filepath.Join(r.outDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filename+".*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	path := filepath.Join(dir, filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return path, nil
}
