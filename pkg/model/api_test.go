package model

import (
	"encoding/json"
	"testing"
)

func TestResponseHasData(t *testing.T) {
	var r Response
	if err := json.Unmarshal([]byte(`{"statusCode":200,"message":"ok","data":null}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.HasData() {
		t.Error("null data should report HasData() == false")
	}

	if err := json.Unmarshal([]byte(`{"statusCode":200,"message":"","data":{"balance":1500.5}}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.HasData() {
		t.Error("expected HasData() == true")
	}

	var b BalanceResult
	if err := r.DecodeData(&b); err != nil {
		t.Fatalf("DecodeData: %v", err)
	}
	if b.Balance != 1500.5 {
		t.Errorf("balance = %v, want 1500.5", b.Balance)
	}
}

func TestDecodeDataWithoutData(t *testing.T) {
	r := Response{StatusCode: 200}
	var dest map[string]any
	if err := r.DecodeData(&dest); err == nil {
		t.Error("expected error decoding empty data")
	}
}
