package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type uploaderStub struct {
	keys []string
}

func (u *uploaderStub) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	u.keys = append(u.keys, key)
	return "https://cdn.example/" + key, nil
}

func multipartPhoto(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "me.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(content)
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadPhoto_RejectedBeforeStorage(t *testing.T) {
	cases := []struct {
		name     string
		auth     gin.HandlerFunc
		uploader PhotoUploader
		body     []byte // nil = sem multipart
		status   int
		code     string
	}{
		{"patient", asUser("patient", 0, 2), &uploaderStub{}, []byte("x"), http.StatusForbidden, "forbidden"},
		{"storage disabled", asUser("doctor", 1, 0), nil, []byte("x"), http.StatusServiceUnavailable, "photo_upload_disabled"},
		{"missing file", asUser("doctor", 1, 0), &uploaderStub{}, nil, http.StatusBadRequest, "missing_photo"},
		{"not an image", asUser("doctor", 1, 0), &uploaderStub{}, []byte("plain text"), http.StatusBadRequest, "invalid_photo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDoctorHandler(nil, tc.uploader, nil, zap.NewNop())
			r := gin.New()
			r.PUT("/api/me/photo", tc.auth, h.UploadPhoto)

			var req *http.Request
			if tc.body == nil {
				req = httptest.NewRequest(http.MethodPut, "/api/me/photo", nil)
			} else {
				buf, ct := multipartPhoto(t, tc.body)
				req = httptest.NewRequest(http.MethodPut, "/api/me/photo", buf)
				req.Header.Set("Content-Type", ct)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if got := decodeError(t, w).Code; got != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, got)
			}
			if stub, ok := tc.uploader.(*uploaderStub); ok && len(stub.keys) != 0 {
				t.Fatalf("nothing should reach storage, got %v", stub.keys)
			}
		})
	}
}

func TestUpdateAvailability_RequiresDoctorAndFlag(t *testing.T) {
	h := NewDoctorHandler(nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.PATCH("/patient", asUser("patient", 0, 2), h.UpdateAvailability)
	r.PATCH("/doctor", asUser("doctor", 1, 0), h.UpdateAvailability)

	if w := doRequest(r, http.MethodPatch, "/patient", gin.H{"is_available_for_appointments": false}); w.Code != http.StatusForbidden {
		t.Fatalf("patient: expected 403, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPatch, "/doctor", gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing flag: expected 400, got %d", w.Code)
	}
}
