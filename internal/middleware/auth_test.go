package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBasic(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		username string
		password string
		ok       bool
	}{
		// "ada:s3cret:with:colons"
		{name: "valid", header: "Basic YWRhOnMzY3JldDp3aXRoOmNvbG9ucw==", username: "ada", password: "s3cret:with:colons", ok: true},
		{name: "lowercase scheme", header: "basic YWRhOnB3", username: "ada", password: "pw", ok: true},
		{name: "empty password", header: "Basic YWRhOg==", username: "ada", password: "", ok: true},
		{name: "missing colon", header: "Basic YWRh", ok: false},
		{name: "bad base64", header: "Basic !!!", ok: false},
		{name: "bearer scheme", header: "Bearer abc", ok: false},
		{name: "no credentials", header: "Basic", ok: false},
		{name: "empty", header: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, password, ok := parseBasic(tt.header)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.username, username)
				assert.Equal(t, tt.password, password)
			}
		})
	}
}

func TestParseBearer(t *testing.T) {
	token, ok := parseBearer("Bearer 0123abcd")
	assert.True(t, ok)
	assert.Equal(t, "0123abcd", token)

	_, ok = parseBearer("Bearer ")
	assert.False(t, ok)

	_, ok = parseBearer("Token 0123abcd")
	assert.False(t, ok)

	_, ok = parseBearer("0123abcd")
	assert.False(t, ok)
}
