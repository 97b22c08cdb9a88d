package redshift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRedshiftType(t *testing.T) {
	tests := []struct {
		dataType string
		nullable bool
		want     string
	}{
		{"integer", true, "int32"},
		{"bigint", false, "int64 NOT NULL"},
		{"character varying", true, "string"},
		{"CHARACTER VARYING", true, "string"},
		{"timestamp without time zone", true, "timestamp"},
		{"super", true, "json"},
		{"geometry", true, "string"},
		{"numeric", false, "decimal NOT NULL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRedshiftType(tt.dataType, tt.nullable), tt.dataType)
	}
}
