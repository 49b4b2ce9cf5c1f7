package validators

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-service-sdk/models"
)

type subscription struct {
	Subject string `json:"subject" validate:"required"`
	Queue   string `json:"queue" validate:"omitempty,oneof=shared fanout"`
	Limit   int    `json:"limit" validate:"gte=0,lte=100"`
}

func TestStructValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		obj       any
		fields    []string
		wantErr   error
		wantField string
	}{
		{name: "valid value", obj: subscription{Subject: "orders", Queue: "shared"}},
		{name: "valid pointer", obj: &subscription{Subject: "orders"}},
		{name: "missing required", obj: subscription{}, wantErr: models.ErrInvalidInput, wantField: "subject"},
		{name: "out of range", obj: subscription{Subject: "orders", Limit: 101}, wantErr: models.ErrInvalidInput, wantField: "limit"},
		{name: "bad enum", obj: subscription{Subject: "orders", Queue: "all"}, wantErr: models.ErrInvalidInput, wantField: "queue"},
		{name: "partial skips other fields", obj: subscription{Limit: 5}, fields: []string{"Limit"}},
		{name: "partial checks named field", obj: subscription{Subject: "orders", Limit: -1}, fields: []string{"Limit"}, wantErr: models.ErrInvalidInput, wantField: "limit"},
		{name: "unknown field", obj: subscription{}, fields: []string{"Owner"}, wantErr: ErrUnknownField},
		{name: "not a struct", obj: "orders", wantErr: ErrUnsupportedType},
		{name: "nil pointer", obj: (*subscription)(nil), wantErr: ErrUnsupportedType},
	}

	v := NewStructValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantField != "" {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, tt.wantField, verrs[0].Field())
			}
		})
	}
}
