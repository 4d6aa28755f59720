package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/usecase"
)

type receiptServiceStub struct {
	enabled  bool
	ingestFn func(ctx context.Context, input usecase.IngestReceiptInput) (*usecase.IngestResult, error)
}

func (s *receiptServiceStub) Enabled() bool { return s.enabled }

func (s *receiptServiceStub) Ingest(ctx context.Context, input usecase.IngestReceiptInput) (*usecase.IngestResult, error) {
	return s.ingestFn(ctx, input)
}

func multipartRequest(t *testing.T, field, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="receipt.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return withCaller(req, "user-1")
}

func TestReceiptHandler_Upload_Success(t *testing.T) {
	var captured usecase.IngestReceiptInput
	handler := NewReceiptHandler(&receiptServiceStub{
		enabled: true,
		ingestFn: func(ctx context.Context, input usecase.IngestReceiptInput) (*usecase.IngestResult, error) {
			captured = input
			tx := sampleTransaction()
			tx.Source = domain.SourceReceipt
			return &usecase.IngestResult{Transaction: tx, Total: 2}, nil
		},
	})

	rr := httptest.NewRecorder()
	handler.Upload(rr, multipartRequest(t, "image", "image/png", []byte("fake-png")))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.UserID != "user-1" || captured.MIMEType != "image/png" || string(captured.Image) != "fake-png" {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestReceiptHandler_Upload_Disabled(t *testing.T) {
	handler := NewReceiptHandler(&receiptServiceStub{enabled: false})

	rr := httptest.NewRecorder()
	handler.Upload(rr, multipartRequest(t, "image", "image/png", []byte("x")))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestReceiptHandler_Upload_MissingImage(t *testing.T) {
	handler := NewReceiptHandler(&receiptServiceStub{enabled: true})

	rr := httptest.NewRecorder()
	handler.Upload(rr, multipartRequest(t, "file", "image/png", []byte("x")))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestReceiptHandler_Upload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"unreadable", domain.ErrReceiptUnreadable, http.StatusBadRequest},
		{"model failure", errors.New("upstream 500"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewReceiptHandler(&receiptServiceStub{
				enabled: true,
				ingestFn: func(ctx context.Context, input usecase.IngestReceiptInput) (*usecase.IngestResult, error) {
					return nil, tt.err
				},
			})

			rr := httptest.NewRecorder()
			handler.Upload(rr, multipartRequest(t, "image", "image/jpeg", []byte("x")))

			if rr.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}
