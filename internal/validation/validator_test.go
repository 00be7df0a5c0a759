// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package validation

import (
	"strings"
	"testing"
)

type testRequest struct {
	Items []string `validate:"required,min=1,dive,required"`
	TopN  int      `validate:"min=0,max=100"`
	Level string   `validate:"omitempty,oneof=low high"`
}

func TestValidateStructPasses(t *testing.T) {
	req := testRequest{Items: []string{"bread"}, TopN: 5}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct returned %v, want nil", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name    string
		req     testRequest
		field   string
		message string
	}{
		{
			name:    "missing items",
			req:     testRequest{TopN: 5},
			field:   "Items",
			message: "Items is required",
		},
		{
			// required fires before min for a zero-length slice.
			name:    "empty items",
			req:     testRequest{Items: []string{}},
			field:   "Items",
			message: "Items is required",
		},
		{
			name:    "blank element",
			req:     testRequest{Items: []string{""}},
			field:   "Items",
			message: "Items is required",
		},
		{
			name:    "top n too large",
			req:     testRequest{Items: []string{"a"}, TopN: 101},
			field:   "TopN",
			message: "TopN must be at most 100",
		},
		{
			name:    "bad enum",
			req:     testRequest{Items: []string{"a"}, Level: "medium"},
			field:   "Level",
			message: "Level must be one of: low high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("ValidateStruct returned nil, want error")
			}
			fields := err.Fields()
			if len(fields) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(fields), err)
			}
			if fields[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", fields[0].Field, tt.field)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.message)
			}
		})
	}
}

func TestValidatorIsSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("Validator() returned different instances")
	}
}
