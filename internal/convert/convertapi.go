package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pptgen/internal/pkg/errors"
)

// ConvertAPI converts decks through the hosted ConvertAPI service.
type ConvertAPI struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewConvertAPI(baseURL, secret string) *ConvertAPI {
	return &ConvertAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

func (c *ConvertAPI) Name() string { return "convertapi" }

type convertAPIResponse struct {
	Files []struct {
		FileName string `json:"FileName"`
		FileSize int64  `json:"FileSize"`
		FileData string `json:"FileData"`
	} `json:"Files"`
	Message string `json:"Message"`
}

// Convert uploads the deck and writes the returned PDF atomically.
func (c *ConvertAPI) Convert(ctx context.Context, pptxPath, pdfPath string) error {
	f, err := os.Open(pptxPath)
	if err != nil {
		return errors.Wrap(err, "convert.convertapi", "failed to open deck")
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("File", filepath.Base(pptxPath))
	if err != nil {
		return errors.Wrap(err, "convert.convertapi", "failed to build upload")
	}
	if _, err := io.Copy(part, f); err != nil {
		return errors.Wrap(err, "convert.convertapi", "failed to read deck")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "convert.convertapi", "failed to finish upload")
	}

	endpoint := fmt.Sprintf("%s/convert/pptx/to/pdf?Secret=%s&StoreFile=false", c.baseURL, c.secret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return errors.Wrap(err, "convert.convertapi", "failed to build request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeProvider, "convert.convertapi", "conversion request failed")
	}
	defer func() { _ = res.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, 200<<20))
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeProvider, "convert.convertapi", "failed to read conversion response")
	}

	var parsed convertAPIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return errors.Providerf("convertapi", "conversion returned unparseable response (status %d)", res.StatusCode)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("conversion returned status %d", res.StatusCode)
		}
		return errors.Provider("convertapi", msg).WithField("status", res.StatusCode)
	}
	if len(parsed.Files) == 0 {
		return errors.Provider("convertapi", "conversion returned no files")
	}

	pdf, err := base64.StdEncoding.DecodeString(parsed.Files[0].FileData)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeProvider, "convert.convertapi", "conversion returned invalid file data")
	}

	if err := writeAtomic(pdfPath, pdf); err != nil {
		return errors.Wrap(err, "convert.convertapi", "failed to write pdf")
	}
	return nil
}
