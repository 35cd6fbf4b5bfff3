package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingOpener struct {
	opened []string
}

func (r *recordingOpener) OpenExternal(url string) {
	r.opened = append(r.opened, url)
}

func TestHandleNavigation(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		want       Decision
		wantOpened []string
	}{
		{
			name: "internal allowed",
			url:  "https://www.messenger.com/t/12345",
			want: Decision{Action: Allow},
		},
		{
			name:       "external denied and dispatched",
			url:        "https://example.com/",
			want:       Decision{Action: Deny, External: "https://example.com/"},
			wantOpened: []string{"https://example.com/"},
		},
		{
			name:       "indirection unwrapped",
			url:        "https://l.messenger.com/l.php?u=https%3A%2F%2Fexample.com",
			want:       Decision{Action: Deny, External: "https://example.com"},
			wantOpened: []string{"https://example.com"},
		},
		{
			name: "malformed allowed",
			url:  "http://[::1",
			want: Decision{Action: Allow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &recordingOpener{}
			e := NewEnforcer(opener, nil)
			assert.Equal(t, tt.want, e.HandleNavigation(tt.url))
			assert.Equal(t, tt.wantOpened, opener.opened)
		})
	}
}

func TestHandleNewWindow(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		want       Decision
		wantOpened []string
	}{
		{
			name: "internal denied without dispatch",
			url:  "https://www.messenger.com/t/1",
			want: Decision{Action: Deny},
		},
		{
			name:       "external denied and dispatched",
			url:        "https://news.example.com/story",
			want:       Decision{Action: Deny, External: "https://news.example.com/story"},
			wantOpened: []string{"https://news.example.com/story"},
		},
		{
			name:       "facebook indirection unwrapped",
			url:        "https://l.facebook.com/l.php?u=https%3A%2F%2Fgo.dev%2Fdoc",
			want:       Decision{Action: Deny, External: "https://go.dev/doc"},
			wantOpened: []string{"https://go.dev/doc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &recordingOpener{}
			e := NewEnforcer(opener, nil)
			assert.Equal(t, tt.want, e.HandleNewWindow(tt.url))
			assert.Equal(t, tt.wantOpened, opener.opened)
		})
	}
}

func TestEnforcer_DispatchesOncePerRequest(t *testing.T) {
	opener := &recordingOpener{}
	e := NewEnforcer(opener, nil)

	e.HandleNavigation("https://a.example/")
	e.HandleNewWindow("https://b.example/")
	e.HandleNavigation("https://www.messenger.com/")

	assert.Equal(t, []string{"https://a.example/", "https://b.example/"}, opener.opened)
}

func TestOpenerFunc(t *testing.T) {
	var got string
	e := NewEnforcer(OpenerFunc(func(url string) { got = url }), nil)
	e.HandleNavigation("https://example.com/x")
	assert.Equal(t, "https://example.com/x", got)
}

func TestEnforcer_NilOpener(t *testing.T) {
	e := NewEnforcer(nil, nil)
	assert.Equal(t, Decision{Action: Deny, External: "https://example.com"}, e.HandleNavigation("https://example.com"))
}
