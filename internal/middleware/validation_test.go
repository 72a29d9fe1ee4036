package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test struct shaped like the catalog write requests
type testProductRequest struct {
	Title  string   `json:"title" validate:"required,min=3"`
	Slug   string   `json:"slug" validate:"omitempty,min=3"`
	Images []string `json:"images" validate:"required,min=1,dive,url"`
	Stock  int      `json:"stock" validate:"gte=0"`
}

type testStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeTitle bool, includeImages bool) bool {
			reqMap := make(map[string]interface{})

			if includeTitle {
				reqMap["title"] = "Classic Leather Tote"
			}
			if includeImages {
				reqMap["images"] = []string{"https://cdn.example.com/tote.jpg"}
			}

			allFieldsPresent := includeTitle && includeImages

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testProductRequest
			err := DecodeAndValidate(req, &testReq)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func() bool {
			reqMap := map[string]interface{}{
				"title":  "ab", // Too short
				"images": []string{"not a url"},
				"stock":  -1,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testProductRequest
			err := DecodeAndValidate(req, &testReq)

			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)
			if len(validationErrors) == 0 {
				return false
			}

			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValidation_OneOfStatus(t *testing.T) {
	valid := []string{"pending", "processing", "shipped", "delivered", "cancelled"}
	invalid := []string{"", "refunded", "SHIPPED", "done"}

	for _, status := range valid {
		body, _ := json.Marshal(map[string]string{"status": status})
		req := httptest.NewRequest("PATCH", "/test", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		var testReq testStatusRequest
		if err := DecodeAndValidate(req, &testReq); err != nil {
			t.Errorf("Status %q: expected to pass, got %v", status, err)
		}
	}

	for _, status := range invalid {
		body, _ := json.Marshal(map[string]string{"status": status})
		req := httptest.NewRequest("PATCH", "/test", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		var testReq testStatusRequest
		if err := DecodeAndValidate(req, &testReq); err == nil {
			t.Errorf("Status %q: expected to fail validation", status)
		}
	}
}

func TestValidation_ImageURLs(t *testing.T) {
	tests := []struct {
		name   string
		images []string
		valid  bool
	}{
		{"single valid url", []string{"https://cdn.example.com/a.jpg"}, true},
		{"multiple valid urls", []string{"https://cdn.example.com/a.jpg", "https://ik.imagekit.io/b.jpg"}, true},
		{"empty list", []string{}, false},
		{"one bad url", []string{"https://cdn.example.com/a.jpg", "not a url"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]interface{}{
				"title":  "Classic Leather Tote",
				"images": tt.images,
			})
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			var testReq testProductRequest
			err := DecodeAndValidate(req, &testReq)
			if tt.valid && err != nil {
				t.Errorf("Expected to pass, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}

func TestValidation_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var testReq testProductRequest
	if err := DecodeAndValidate(req, &testReq); err == nil {
		t.Error("Expected malformed JSON to be rejected")
	}
}
