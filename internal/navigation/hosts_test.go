package navigation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndirectionHostTable(t *testing.T) {
	assert.ElementsMatch(t, []string{"l.messenger.com", "l.facebook.com"}, IndirectionHosts)
	assert.Equal(t, "messenger.com", DomainToken)
	assert.Equal(t, "u", IndirectionParam)
	assert.True(t, strings.Contains(HomeURL, DomainToken), "home page must classify as internal")
	assert.Equal(t, Internal, Classify(HomeURL).Kind)
}

func TestIsIndirectionHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"l.messenger.com", true},
		{"L.Facebook.COM", true},
		{"www.messenger.com", false},
		{"lm.facebook.com", false},
		{"l.messenger.com.evil.example", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsIndirectionHost(tt.host), tt.host)
	}
}

// Indirection hosts contain the domain token, so the classifier must reject
// them explicitly rather than relying on the token check.
func TestIndirectionHostsContainToken(t *testing.T) {
	assert.True(t, strings.Contains(MessengerIndirectionHost, DomainToken))
	assert.Equal(t, External, Classify("https://"+MessengerIndirectionHost+"/").Kind)
}
