package http

import (
	"context"
	"testing"
)

type sampleRequest struct {
	Frequency string `json:"frequency" default:"month" validate:"oneof=hour day month"`
	Periods   int    `json:"periods" default:"12" validate:"gte=1,lte=100"`
}

func TestValidateRequestAppliesDefaults(t *testing.T) {
	req := &sampleRequest{}
	if verr := ValidateRequest(context.Background(), req); verr != nil {
		t.Fatalf("unexpected errors %v", verr)
	}
	if req.Frequency != "month" || req.Periods != 12 {
		t.Fatalf("defaults not applied: %+v", req)
	}
}

func TestValidateRequestReportsJSONFieldNames(t *testing.T) {
	req := &sampleRequest{Frequency: "week", Periods: 500}
	verr := ValidateRequest(context.Background(), req)
	errs, ok := verr.([]ValidationError)
	if !ok || len(errs) != 2 {
		t.Fatalf("expected two validation errors, got %#v", verr)
	}
	if errs[0].Field != "frequency" || errs[0].Code != CodeValidation || errs[0].Params["rule"] != "oneof" {
		t.Fatalf("unexpected first error %+v", errs[0])
	}
	if errs[1].Field != "periods" || errs[1].Params["max"] != "100" {
		t.Fatalf("unexpected second error %+v", errs[1])
	}
}
