package bigquery

import (
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
)

func TestFormatFieldType(t *testing.T) {
	tests := []struct {
		name  string
		field *bigquery.FieldSchema
		want  string
	}{
		{"plain", &bigquery.FieldSchema{Type: bigquery.StringFieldType}, "string"},
		{"required", &bigquery.FieldSchema{Type: bigquery.IntegerFieldType, Required: true}, "integer NOT NULL"},
		{"repeated", &bigquery.FieldSchema{Type: bigquery.StringFieldType, Repeated: true}, "array<string>"},
		{"repeated required", &bigquery.FieldSchema{Type: bigquery.FloatFieldType, Repeated: true, Required: true}, "array<float> NOT NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFieldType(tt.field))
		})
	}
}

func TestMergeDistinct(t *testing.T) {
	tests := []struct {
		name   string
		first  []string
		second []string
		want   []string
	}{
		{"disjoint", []string{"a"}, []string{"b"}, []string{"a", "b"}},
		{"overlap keeps first occurrence", []string{"a", "b"}, []string{"b", "c"}, []string{"a", "b", "c"}},
		{"duplicates within first", []string{"a", "a"}, nil, []string{"a"}},
		{"both empty", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeDistinct(tt.first, tt.second))
		})
	}
}
