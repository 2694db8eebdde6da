package parser

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/submit"
)

const contactDocument = `{
  "openapi": "3.0.0",
  "info": { "title": "Contact", "version": "1.0.0" },
  "paths": {
    "/contact/messages": {
      "post": {
        "x-formsubmit-global-errors": "true",
        "requestBody": {
          "content": {
            "multipart/form-data": {
              "schema": {
                "allOf": [
                  { "$ref": "#/components/schemas/Sender" },
                  {
                    "type": "object",
                    "required": ["message"],
                    "properties": {
                      "message": { "type": "string" },
                      "attachment": { "type": "string", "format": "binary" }
                    }
                  }
                ]
              }
            }
          }
        },
        "responses": {
          "default": { "description": "error" },
          "2XX": { "description": "range" },
          "204": { "description": "no content" },
          "202": { "description": "accepted" }
        }
      },
      "get": {
        "responses": { "200": { "description": "list" } }
      }
    },
    "/ping": {
      "post": {
        "responses": { "200": { "description": "pong" } }
      }
    }
  },
  "components": {
    "schemas": {
      "Sender": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": { "type": "string" },
          "company": { "type": "string" }
        }
      }
    }
  }
}`

func TestProfiles_DerivesFieldsStatusAndFlags(t *testing.T) {
	profiles, err := New(Options{}).Profiles(context.Background(), []byte(contactDocument))
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}

	want := []submit.Profile{{
		Name:          "contact_messages",
		Endpoint:      "/contact/messages",
		SuccessStatus: http.StatusAccepted,
		Fields:        []string{"name", "message", "attachment", "company"},
		GlobalErrors:  true,
	}}
	if diff := cmp.Diff(want, profiles); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}
}

func TestProfiles_EmptyDocuments(t *testing.T) {
	const document = `{"openapi":"3.0.0","info":{"title":"Empty","version":"1"},"paths":{}}`

	if _, err := New(Options{}).Profiles(context.Background(), []byte(document)); err == nil {
		t.Fatalf("expected error without form operations")
	}
	profiles, err := New(Options{AllowEmpty: true}).Profiles(context.Background(), []byte(document))
	if err != nil {
		t.Fatalf("allow empty: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected no profiles, got %v", profiles)
	}
	if _, err := New(Options{}).Profiles(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestProfiles_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{}).Profiles(ctx, []byte(contactDocument)); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestBoolExtension(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want bool
	}{
		{true, true},
		{"TRUE", true},
		{"no", false},
		{1, false},
		{nil, false},
	} {
		if got := boolExtension(tc.in); got != tc.want {
			t.Fatalf("boolExtension(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
