package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsWalletMethod(t *testing.T) {
	tests := []struct {
		name    string
		method  *Method
		wantErr bool
	}{
		{"wallet scoped", &Method{ID: "pm-1", IsWalletMethod: true}, false},
		{"both scopes", &Method{ID: "pm-2", IsWalletMethod: true, IsSubscriptionMethod: true}, false},
		{"subscription only", &Method{ID: "pm-3", IsSubscriptionMethod: true}, true},
		{"no scope", &Method{ID: "pm-4"}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wm, err := AsWalletMethod(tt.method)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
				assert.Nil(t, wm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.method.ID, wm.ID)
		})
	}
}

func TestAsSubscriptionMethod(t *testing.T) {
	_, err := AsSubscriptionMethod(&Method{ID: "pm-1", IsWalletMethod: true})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	sm, err := AsSubscriptionMethod(&Method{ID: "pm-2", IsSubscriptionMethod: true})
	require.NoError(t, err)
	assert.Equal(t, "pm-2", sm.ID)

	sm, err = AsSubscriptionMethod(&Method{ID: "pm-3", IsWalletMethod: true, IsSubscriptionMethod: true})
	require.NoError(t, err)
	assert.Equal(t, "pm-3", sm.ID)
}
