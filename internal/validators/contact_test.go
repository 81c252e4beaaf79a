package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func TestContactClean(t *testing.T) {
	got, err := Contact{Name: "  Maria  ", Email: " Maria@Example.COM ", Phone: "+55 (11) 98888-7777"}.Clean()
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
	assert.Equal(t, "maria@example.com", got.Email)
	assert.Equal(t, "+5511988887777", got.Phone)

	_, err = Contact{Name: "Maria", Phone: "11988887777"}.Clean()
	assert.NoError(t, err)

	tests := []struct {
		name   string
		in     Contact
		detail string
	}{
		{"missing name", Contact{Email: "a@b.com"}, "client_name_required"},
		{"no channel", Contact{Name: "Maria"}, "client_contact_required"},
		{"bad email", Contact{Name: "Maria", Email: "not-an-email"}, "invalid_email"},
		{"short phone", Contact{Name: "Maria", Phone: "123"}, "invalid_phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Clean()
			be, ok := httperr.AsBusiness(err)
			require.True(t, ok)
			assert.Equal(t, httperr.CodeValidation, be.Code)
			assert.Equal(t, tt.detail, be.Detail)
		})
	}
}
