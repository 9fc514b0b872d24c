package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		want    Tier
	}{
		{
			name:    "admin raw role without employee profile",
			signals: Signals{RawRole: "admin"},
			want:    TierAdmin,
		},
		{
			name:    "admin raw role is case insensitive",
			signals: Signals{RawRole: "Admin", HasEmployee: true},
			want:    TierAdmin,
		},
		{
			name:    "manager raw role",
			signals: Signals{RawRole: "Manager", HasEmployee: true},
			want:    TierManager,
		},
		{
			name:    "manager via role grant pivot",
			signals: Signals{RawRole: "employee", HasEmployee: true, HasManagerGrant: true},
			want:    TierManager,
		},
		{
			name:    "manager via managers table",
			signals: Signals{RawRole: "employee", HasEmployee: true, HasManagerAssignment: true},
			want:    TierManager,
		},
		{
			name:    "manager grant without employee linkage does not count",
			signals: Signals{RawRole: "employee", HasManagerGrant: true},
			want:    TierUnauthenticated,
		},
		{
			name:    "plain employee",
			signals: Signals{RawRole: "employee", HasEmployee: true},
			want:    TierEmployee,
		},
		{
			name:    "no employee and no privileged role",
			signals: Signals{RawRole: "employee"},
			want:    TierUnauthenticated,
		},
		{
			name:    "unknown role with employee is employee tier",
			signals: Signals{RawRole: "intern", HasEmployee: true},
			want:    TierEmployee,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTier(tt.signals))
		})
	}
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierAdmin > TierManager)
	assert.True(t, TierManager > TierEmployee)
	assert.True(t, TierEmployee > TierUnauthenticated)
}
