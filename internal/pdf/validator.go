package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator handles source file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator with the specified size limit
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// FormatOf returns the source format implied by the file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, true
	case ".json":
		return FormatDump, true
	default:
		return "", false
	}
}

// ValidateFile checks the file and its structure. Validation failures are
// reported in the result, not as an error.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	info, err := v.statFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failure is part of the result
	}
	if err := v.ValidateFileInfo(req.Path, info); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failure is part of the result
	}

	format, _ := FormatOf(req.Path)
	result.Format = format

	pages, err := v.countPages(req.Path, format)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failure is part of the result
	}

	result.Valid = true
	result.Pages = pages
	return result, nil
}

// CheckFile performs the file checks without parsing the document.
func (v *Validator) CheckFile(path string) error {
	info, err := v.statFile(path)
	if err != nil {
		return err
	}
	return v.ValidateFileInfo(path, info)
}

func (v *Validator) statFile(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	return info, nil
}

// ValidateFileInfo performs basic validation on file info without opening the file
func (v *Validator) ValidateFileInfo(path string, info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if _, ok := FormatOf(path); !ok {
		return fmt.Errorf("unsupported file type (want .pdf or .json): %s", path)
	}

	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if v.maxFileSize > 0 && info.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			info.Size(), v.maxFileSize)
	}

	return nil
}

// countPages parses the document structure and returns its page count.
func (v *Validator) countPages(path string, format Format) (int, error) {
	if format == FormatDump {
		d, err := LoadDump(path)
		if err != nil {
			return 0, err
		}
		return d.NumPages(), nil
	}
	return pdfPageCount(path)
}

// pdfPageCount reads the PDF cross reference and page tree with pdfcpu in
// relaxed mode.
func pdfPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("invalid PDF page tree: %w", err)
	}
	return ctx.PageCount, nil
}
